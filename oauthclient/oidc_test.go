package oauthclient_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-auth-session/oauthclient"
	"github.com/stretchr/testify/require"
)

const testKeyID = "test-key"

// oidcServer is a minimal provider: discovery, JWKS and a token endpoint that
// answers every refresh with a freshly signed ID token.
type oidcServer struct {
	*httptest.Server
	key        *rsa.PrivateKey
	signingKey *rsa.PrivateKey
	subject    string
}

// newOIDCServer signs ID tokens with signingKey, or with the published key when nil.
func newOIDCServer(t *testing.T, signingKey *rsa.PrivateKey) *oidcServer {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	if signingKey == nil {
		signingKey = key
	}

	s := &oidcServer{key: key, signingKey: signingKey, subject: "user-42"}
	mux := http.NewServeMux()
	mux.HandleFunc("/.well-known/openid-configuration", s.discovery)
	mux.HandleFunc("/jwks", s.jwks)
	mux.HandleFunc("/token", s.token)
	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

func (s *oidcServer) discovery(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"issuer":                                s.URL,
		"authorization_endpoint":                s.URL + "/authorize",
		"token_endpoint":                        s.URL + "/token",
		"jwks_uri":                              s.URL + "/jwks",
		"id_token_signing_alg_values_supported": []string{"RS256"},
	})
}

func (s *oidcServer) jwks(w http.ResponseWriter, r *http.Request) {
	pub := s.key.PublicKey
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"keys": []map[string]string{{
			"kty": "RSA",
			"kid": testKeyID,
			"use": "sig",
			"alg": "RS256",
			"n":   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
			"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes()),
		}},
	})
}

func (s *oidcServer) token(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	idToken := jwtlib.NewWithClaims(jwtlib.SigningMethodRS256, jwtlib.MapClaims{
		"iss":          s.URL,
		"sub":          s.subject,
		"aud":          testClientID,
		"iat":          now.Unix(),
		"exp":          now.Add(time.Hour).Unix(),
		"email":        "jane@example.com",
		"phone_number": "+15550100",
	})
	idToken.Header["kid"] = testKeyID
	signed, err := idToken.SignedString(s.signingKey)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"access_token":  "oidc-access",
		"token_type":    "Bearer",
		"expires_in":    900,
		"refresh_token": "oidc-refresh-2",
		"id_token":      signed,
	})
}

func TestDiscoverAndRefreshVerifiesIDToken(t *testing.T) {
	ctx := context.Background()
	srv := newOIDCServer(t, nil)

	provider, err := oauthclient.Discover(ctx, srv.URL, testClientID, testClientSecret, "email")
	require.NoError(t, err)
	require.Equal(t, srv.URL+"/token", provider.Config.Endpoint.TokenURL)
	require.Contains(t, provider.Config.Scopes, "openid")
	require.Contains(t, provider.Config.Scopes, "offline_access")
	require.Contains(t, provider.Config.Scopes, "email")

	s, err := provider.RefreshFunc()(ctx, "oidc-refresh-1")
	require.NoError(t, err)

	require.Equal(t, "oidc-access", s.AccessToken)
	require.Equal(t, "oidc-refresh-2", s.RefreshToken)
	require.NotEmpty(t, s.IDToken)
	require.NotNil(t, s.User)
	require.Equal(t, "user-42", s.User.ID)
	require.Equal(t, testClientID, s.User.Aud)
	require.Equal(t, "jane@example.com", s.User.Email)
	require.Equal(t, "+15550100", s.User.Phone)
}

func TestRefreshRejectsForgedIDToken(t *testing.T) {
	ctx := context.Background()
	forger, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	srv := newOIDCServer(t, forger)

	provider, err := oauthclient.Discover(ctx, srv.URL, testClientID, testClientSecret)
	require.NoError(t, err)

	_, err = provider.RefreshFunc()(ctx, "oidc-refresh-1")
	require.ErrorContains(t, err, "id token rejected")
}

func TestDiscoverUnknownIssuer(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(srv.Close)

	_, err := oauthclient.Discover(context.Background(), srv.URL, testClientID, testClientSecret)
	require.Error(t, err)
}
