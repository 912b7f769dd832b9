package oauthclient

import (
	"context"
	"net/http"

	"github.com/jrsteele09/go-auth-session/session"
	"golang.org/x/oauth2"
)

type managerTokenSource struct {
	ctx     context.Context
	manager *session.Manager
}

// TokenSource exposes m as an oauth2.TokenSource. Each Token call goes through
// m.Session, so do not wrap it in oauth2.ReuseTokenSource: the returned tokens
// carry no expiry and would be reused forever.
func TokenSource(ctx context.Context, m *session.Manager) oauth2.TokenSource {
	return &managerTokenSource{ctx: ctx, manager: m}
}

func (ts *managerTokenSource) Token() (*oauth2.Token, error) {
	s, err := ts.manager.Session(ts.ctx)
	if err != nil {
		return nil, err
	}
	return TokenFromSession(s), nil
}

// HTTPClient returns a client that authorizes every request with the current
// session's access token.
func HTTPClient(ctx context.Context, m *session.Manager) *http.Client {
	var base http.RoundTripper
	if c, ok := ctx.Value(oauth2.HTTPClient).(*http.Client); ok && c != nil {
		base = c.Transport
	}
	return &http.Client{
		Transport: &oauth2.Transport{
			Source: TokenSource(ctx, m),
			Base:   base,
		},
	}
}
