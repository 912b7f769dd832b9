package oauthclient

import (
	"context"
	"fmt"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/jrsteele09/go-auth-session/session"
	"golang.org/x/oauth2"
)

// OIDC is an OpenID Connect provider resolved through discovery.
type OIDC struct {
	Provider *oidc.Provider
	Config   *oauth2.Config
	Verifier *oidc.IDTokenVerifier
}

// Discover fetches issuer's discovery document and prepares an oauth2.Config for
// clientID. openid and offline_access are always requested.
func Discover(ctx context.Context, issuer, clientID, clientSecret string, scopes ...string) (*OIDC, error) {
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("[oauthclient Discover] failed to create OIDC provider: %w", err)
	}

	return &OIDC{
		Provider: provider,
		Config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     provider.Endpoint(),
			Scopes:       append([]string{oidc.ScopeOpenID, oidc.ScopeOfflineAccess}, scopes...),
		},
		Verifier: provider.Verifier(&oidc.Config{ClientID: clientID}),
	}, nil
}

type idTokenClaims struct {
	Email string `json:"email"`
	Phone string `json:"phone_number"`
	Role  string `json:"role"`
}

// RefreshFunc refreshes through the discovered token endpoint. When the provider
// returns an ID token it must verify, and Session.User is filled from its claims.
func (o *OIDC) RefreshFunc() session.RefreshFunc {
	return func(ctx context.Context, refreshToken string) (session.Session, error) {
		tok, err := exchange(ctx, o.Config, refreshToken)
		if err != nil {
			return session.Session{}, err
		}

		s := SessionFromToken(tok, time.Now())
		if s.IDToken == "" {
			return s, nil
		}

		idToken, err := o.Verifier.Verify(ctx, s.IDToken)
		if err != nil {
			return session.Session{}, fmt.Errorf("[oauthclient oidc] id token rejected: %w", err)
		}
		var claims idTokenClaims
		if err := idToken.Claims(&claims); err != nil {
			return session.Session{}, fmt.Errorf("[oauthclient oidc] id token claims: %w", err)
		}

		user := session.User{
			ID:    idToken.Subject,
			Email: claims.Email,
			Phone: claims.Phone,
			Role:  claims.Role,
		}
		if len(idToken.Audience) > 0 {
			user.Aud = idToken.Audience[0]
		}
		if s.User != nil {
			user.AppMetadata = s.User.AppMetadata
			user.UserMetadata = s.User.UserMetadata
			user.CreatedAt = s.User.CreatedAt
		}
		s.User = &user
		return s, nil
	}
}
