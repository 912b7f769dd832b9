package oauthclient

import (
	"context"
	"fmt"
	"time"

	"github.com/jrsteele09/go-auth-session/session"
	"golang.org/x/oauth2"
)

// NewRefreshFunc returns a session.RefreshFunc that runs the refresh_token grant
// against cfg.Endpoint. Provider errors come back as *oauth2.RetrieveError.
func NewRefreshFunc(cfg *oauth2.Config) session.RefreshFunc {
	return func(ctx context.Context, refreshToken string) (session.Session, error) {
		tok, err := exchange(ctx, cfg, refreshToken)
		if err != nil {
			return session.Session{}, err
		}
		return SessionFromToken(tok, time.Now()), nil
	}
}

func exchange(ctx context.Context, cfg *oauth2.Config, refreshToken string) (*oauth2.Token, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("[oauthclient refresh] no refresh token stored")
	}
	tok, err := cfg.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken}).Token()
	if err != nil {
		return nil, fmt.Errorf("[oauthclient refresh] %w", err)
	}
	return tok, nil
}
