package session

import (
	"time"

	"github.com/rs/zerolog"
)

type Option func(*Manager)

func WithLogger(logger zerolog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

func WithMetrics(metrics *Metrics) Option {
	return func(m *Manager) {
		m.metrics = metrics
	}
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// WithExpirySkew overrides DefaultExpirySkew. Negative values are treated as zero.
func WithExpirySkew(skew time.Duration) Option {
	return func(m *Manager) {
		if skew < 0 {
			skew = 0
		}
		m.skew = skew
	}
}

// WithRefreshTimeout bounds each call to the RefreshFunc. Zero means no bound
// beyond whatever the RefreshFunc applies itself.
func WithRefreshTimeout(timeout time.Duration) Option {
	return func(m *Manager) {
		m.refreshTimeout = timeout
	}
}
