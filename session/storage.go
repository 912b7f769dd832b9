package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jrsteele09/go-auth-session/secretstore"
)

// DefaultNamespace is used when NewStorage is given an empty namespace.
const DefaultNamespace = "auth"

// Storage reads and writes a single StoredSession through a secretstore.Store.
// Storage errors from the backend are returned unchanged.
type Storage struct {
	store secretstore.Store
	key   string
}

func NewStorage(store secretstore.Store, namespace string) *Storage {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &Storage{
		store: store,
		key:   namespace + ".session",
	}
}

// Key is the secret store key the session lives under.
func (s *Storage) Key() string {
	return s.key
}

// Load returns the persisted session, or nil when none is stored.
func (s *Storage) Load(ctx context.Context) (*StoredSession, error) {
	data, ok, err := s.store.Retrieve(ctx, s.key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	var stored StoredSession
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, &DecodeError{Key: s.key, Err: err}
	}
	if stored.ExpirationDate.IsZero() {
		return nil, &DecodeError{Key: s.key, Err: fmt.Errorf("missing expiration_date")}
	}
	return &stored, nil
}

func (s *Storage) Save(ctx context.Context, stored StoredSession) error {
	data, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return s.store.Store(ctx, s.key, data)
}

// Delete removes the persisted session. Deleting when nothing is stored succeeds.
func (s *Storage) Delete(ctx context.Context) error {
	return s.store.Remove(ctx, s.key)
}
