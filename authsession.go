// Package authsession wires a session.Manager from environment configuration.
//
// Hosts that want full control build a secretstore backend and a session.Manager
// themselves; NewFromEnv is the short path.
package authsession

import (
	"context"
	"fmt"

	"github.com/jrsteele09/go-auth-session/internal/config"
	"github.com/jrsteele09/go-auth-session/secretstore"
	"github.com/jrsteele09/go-auth-session/session"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Client is a session.Manager together with the backend it persists to.
type Client struct {
	*session.Manager
	backend secretstore.Backend
}

// NewFromEnv reads AUTH_SESSION_* variables, opens the configured secret store and
// builds a Manager around refresh. opts are applied after the configured ones.
func NewFromEnv(ctx context.Context, refresh session.RefreshFunc, opts ...session.Option) (*Client, error) {
	return newClient(ctx, config.New(), refresh, opts...)
}

func newClient(ctx context.Context, cfg config.Config, refresh session.RefreshFunc, opts ...session.Option) (*Client, error) {
	if refresh == nil {
		return nil, fmt.Errorf("[authsession New] refresh function is required")
	}

	backend, err := secretstore.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("[authsession New] failed to open secret store: %w", err)
	}

	logger := log.Logger.With().
		Str("component", "auth-session").
		Str("store", string(cfg.GetStoreBackend())).
		Logger()
	// The global level belongs to the host; only the component logger is leveled here.
	if level, err := zerolog.ParseLevel(cfg.GetLogLevel()); err == nil {
		logger = logger.Level(level)
	}

	configured := []session.Option{
		session.WithLogger(logger),
		session.WithExpirySkew(cfg.GetExpirySkew()),
		session.WithRefreshTimeout(cfg.GetRefreshTimeout()),
	}
	manager := session.NewManagerWithStore(backend, cfg.GetNamespace(), refresh, append(configured, opts...)...)

	logger.Debug().Str("namespace", cfg.GetNamespace()).Str("env", cfg.GetEnv()).Msg("Session manager ready")
	return &Client{Manager: manager, backend: backend}, nil
}

// Close releases the secret store backend.
func (c *Client) Close() error {
	return c.backend.Close()
}
