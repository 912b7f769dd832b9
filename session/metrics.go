package session

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	refreshSuccess    = "success"
	refreshFailure    = "failure"
	refreshSuperseded = "superseded"
)

// Metrics counts what a Manager does. A nil *Metrics records nothing.
type Metrics struct {
	cacheHits       prometheus.Counter
	waiters         prometheus.Counter
	refreshes       *prometheus.CounterVec
	refreshDuration prometheus.Histogram
}

// NewMetrics creates the collectors and registers them on reg when reg is non-nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "auth_session_cache_hits_total",
			Help: "Session requests answered from the stored session without a refresh.",
		}),
		waiters: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "auth_session_refresh_waiters_total",
			Help: "Session requests that joined a refresh already in flight.",
		}),
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_session_refresh_total",
			Help: "Refresh attempts by outcome.",
		}, []string{"result"}),
		refreshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "auth_session_refresh_duration_seconds",
			Help:    "Time spent in the refresh function.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	if reg != nil {
		reg.MustRegister(m.cacheHits, m.waiters, m.refreshes, m.refreshDuration)
	}
	return m
}

func (m *Metrics) cacheHit() {
	if m == nil {
		return
	}
	m.cacheHits.Inc()
}

func (m *Metrics) joined() {
	if m == nil {
		return
	}
	m.waiters.Inc()
}

func (m *Metrics) refreshed(result string, took time.Duration) {
	if m == nil {
		return
	}
	m.refreshes.WithLabelValues(result).Inc()
	m.refreshDuration.Observe(took.Seconds())
}
