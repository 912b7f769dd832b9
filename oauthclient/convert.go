package oauthclient

import (
	"encoding/json"
	"math"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-auth-session/session"
	"golang.org/x/oauth2"
)

// SessionFromToken converts a token endpoint response into a Session.
//
// ExpiresIn is taken from the response's expiry. When the provider sent no
// expires_in, the access token's own "exp" claim is used if it is a JWT; otherwise
// ExpiresIn stays zero and the session is treated as already expired.
func SessionFromToken(tok *oauth2.Token, now time.Time) session.Session {
	s := session.Session{
		AccessToken:          tok.AccessToken,
		TokenType:            tok.TokenType,
		RefreshToken:         tok.RefreshToken,
		IDToken:              extraString(tok, "id_token"),
		ProviderToken:        extraString(tok, "provider_token"),
		ProviderRefreshToken: extraString(tok, "provider_refresh_token"),
		User:                 extraUser(tok),
	}

	expiry := tok.Expiry
	if expiry.IsZero() {
		expiry = accessTokenExpiry(tok.AccessToken)
	}
	if !expiry.IsZero() {
		s.ExpiresIn = int64(math.Max(0, math.Ceil(expiry.Sub(now).Seconds())))
	}
	return s
}

// TokenFromSession is the inverse view used by TokenSource. Expiry is left zero:
// the Manager, not the oauth2 package, decides when a refresh is due.
func TokenFromSession(s session.Session) *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  s.AccessToken,
		TokenType:    s.TokenType,
		RefreshToken: s.RefreshToken,
	}
}

func extraString(tok *oauth2.Token, key string) string {
	v, _ := tok.Extra(key).(string)
	return v
}

// Some providers (GoTrue among them) return the user object inline with the tokens.
func extraUser(tok *oauth2.Token) *session.User {
	raw := tok.Extra("user")
	if raw == nil {
		return nil
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil
	}
	var user session.User
	if err := json.Unmarshal(data, &user); err != nil || user.ID == "" {
		return nil
	}
	return &user
}

// accessTokenExpiry reads "exp" without verifying the signature. The value is only
// used to schedule a refresh, never to trust the token.
func accessTokenExpiry(accessToken string) time.Time {
	token, _, err := jwtlib.NewParser().ParseUnverified(accessToken, jwtlib.MapClaims{})
	if err != nil {
		return time.Time{}
	}
	exp, err := token.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}
