package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-auth-session/secretstore"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// RefreshFunc exchanges a refresh token for a new Session. It is called at most
// once per refresh cycle and never retried by the Manager.
type RefreshFunc func(ctx context.Context, refreshToken string) (Session, error)

// Manager coordinates access to the persisted session.
//
// mu guards inflight, generation and every read or write of the persisted record.
// It is never held while the RefreshFunc runs.
type Manager struct {
	storage        *Storage
	refresh        RefreshFunc
	logger         zerolog.Logger
	metrics        *Metrics
	now            func() time.Time
	skew           time.Duration
	refreshTimeout time.Duration

	mu         sync.Mutex
	inflight   *refreshCall
	generation uint64
}

// refreshCall is the shared result of one refresh. done is closed exactly once,
// after session and err are set and inflight has been cleared.
type refreshCall struct {
	id         string
	generation uint64
	done       chan struct{}
	session    Session
	err        error
}

func NewManager(storage *Storage, refresh RefreshFunc, opts ...Option) *Manager {
	m := &Manager{
		storage: storage,
		refresh: refresh,
		logger:  log.Logger,
		now:     time.Now,
		skew:    DefaultExpirySkew,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// NewManagerWithStore is NewManager over NewStorage(store, namespace).
func NewManagerWithStore(store secretstore.Store, namespace string, refresh RefreshFunc, opts ...Option) *Manager {
	return NewManager(NewStorage(store, namespace), refresh, opts...)
}

// Session returns a usable session.
//
// If a refresh is in flight the caller waits for it and shares its result. Otherwise
// the stored session is returned when it is still valid, or refreshed when it is
// not. ErrSessionNotFound is returned when nothing is stored.
//
// ctx only bounds how long this caller waits: when it ends, Session returns
// ctx.Err() but a refresh it started keeps running for the other waiters.
func (m *Manager) Session(ctx context.Context) (Session, error) {
	m.mu.Lock()

	if call := m.inflight; call != nil {
		m.mu.Unlock()
		m.metrics.joined()
		return call.wait(ctx)
	}

	stored, err := m.storage.Load(ctx)
	if err != nil {
		m.mu.Unlock()
		return Session{}, err
	}
	if stored == nil {
		m.mu.Unlock()
		return Session{}, ErrSessionNotFound
	}
	if stored.IsValid(m.now(), m.skew) {
		m.mu.Unlock()
		m.metrics.cacheHit()
		m.logger.Debug().Time("expires", stored.ExpirationDate).Msg("Serving stored session")
		return stored.Session, nil
	}

	call := &refreshCall{
		id:         uuid.New().String(),
		generation: m.generation,
		done:       make(chan struct{}),
	}
	m.inflight = call
	m.mu.Unlock()

	go m.runRefresh(context.WithoutCancel(ctx), call, stored.Session.RefreshToken)
	return call.wait(ctx)
}

// Update persists s with a freshly computed expiration, replacing whatever is
// stored. A refresh still in flight will not overwrite it, and its waiters receive
// s as stored, without a validity check, even if s is already expired.
func (m *Manager) Update(ctx context.Context, s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.storage.Save(ctx, NewStoredSession(s, m.now())); err != nil {
		return err
	}
	m.generation++
	return nil
}

// Remove deletes the persisted session. It does not interrupt a refresh in flight,
// but that refresh's result is discarded and its waiters get ErrSessionNotFound.
func (m *Manager) Remove(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.storage.Delete(ctx); err != nil {
		return err
	}
	m.generation++
	return nil
}

func (m *Manager) runRefresh(ctx context.Context, call *refreshCall, refreshToken string) {
	logger := m.logger.With().Str("refresh_id", call.id).Logger()
	logger.Debug().Msg("Refreshing expired session")

	refreshCtx := ctx
	if m.refreshTimeout > 0 {
		var cancel context.CancelFunc
		refreshCtx, cancel = context.WithTimeout(ctx, m.refreshTimeout)
		defer cancel()
	}

	start := time.Now()
	session, err := m.callRefresh(refreshCtx, refreshToken)
	took := time.Since(start)

	m.mu.Lock()
	switch {
	case err != nil:
		call.err = &RefreshError{Err: err}
		m.metrics.refreshed(refreshFailure, took)
		logger.Err(err).Msg("Session refresh failed")

	case call.generation != m.generation:
		// Update or Remove ran while the refresh was outstanding; they win.
		call.session, call.err = m.currentLocked(ctx)
		m.metrics.refreshed(refreshSuperseded, took)
		logger.Warn().Msg("Discarding refreshed session superseded by a newer write")

	default:
		if err := m.storage.Save(ctx, NewStoredSession(session, m.now())); err != nil {
			call.err = err
			m.metrics.refreshed(refreshFailure, took)
			logger.Err(err).Msg("Failed to persist refreshed session")
			break
		}
		call.session = session
		m.metrics.refreshed(refreshSuccess, took)
		logger.Debug().Dur("took", took).Msg("Session refreshed")
	}
	m.inflight = nil
	m.mu.Unlock()

	close(call.done)
}

// callRefresh turns a panic in the RefreshFunc into an error so the in-flight
// marker is always cleared.
func (m *Manager) callRefresh(ctx context.Context, refreshToken string) (s Session, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("refresh panicked: %v", r)
		}
	}()
	return m.refresh(ctx, refreshToken)
}

// currentLocked returns whatever is stored now, without a validity check: it was
// written by Update moments ago. Must be called with mu held.
func (m *Manager) currentLocked(ctx context.Context) (Session, error) {
	stored, err := m.storage.Load(ctx)
	if err != nil {
		return Session{}, err
	}
	if stored == nil {
		return Session{}, ErrSessionNotFound
	}
	return stored.Session, nil
}

func (c *refreshCall) wait(ctx context.Context) (Session, error) {
	select {
	case <-c.done:
		return c.session, c.err
	case <-ctx.Done():
		return Session{}, ctx.Err()
	}
}
