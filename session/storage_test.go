package session_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jrsteele09/go-auth-session/secretstore"
	"github.com/jrsteele09/go-auth-session/session"
	"github.com/stretchr/testify/require"
)

// faultyStore fails the operations it has an error for and delegates the rest.
type faultyStore struct {
	inner       secretstore.Store
	storeErr    error
	retrieveErr error
	removeErr   error
}

func (f *faultyStore) Store(ctx context.Context, key string, value []byte) error {
	if f.storeErr != nil {
		return &secretstore.StorageError{Op: "store", Key: key, Err: f.storeErr}
	}
	return f.inner.Store(ctx, key, value)
}

func (f *faultyStore) Retrieve(ctx context.Context, key string) ([]byte, bool, error) {
	if f.retrieveErr != nil {
		return nil, false, &secretstore.StorageError{Op: "retrieve", Key: key, Err: f.retrieveErr}
	}
	return f.inner.Retrieve(ctx, key)
}

func (f *faultyStore) Remove(ctx context.Context, key string) error {
	if f.removeErr != nil {
		return &secretstore.StorageError{Op: "remove", Key: key, Err: f.removeErr}
	}
	return f.inner.Remove(ctx, key)
}

func TestStorageKeyUsesNamespace(t *testing.T) {
	require.Equal(t, "supabase.session", session.NewStorage(secretstore.NewMemoryStore(), "supabase").Key())
	require.Equal(t, "auth.session", session.NewStorage(secretstore.NewMemoryStore(), "").Key())
}

func TestStorageLoadAbsent(t *testing.T) {
	stored, err := session.NewStorage(secretstore.NewMemoryStore(), "app").Load(context.Background())
	require.NoError(t, err)
	require.Nil(t, stored)
}

func TestStorageLoadCorruptIsDecodeError(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		payload string
	}{
		{"not json", "not json"},
		{"wrong shape", `{"session":"nope"}`},
		{"missing expiration", `{"session":{"access_token":"a"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := secretstore.NewMemoryStore()
			require.NoError(t, store.Store(ctx, "app.session", []byte(tt.payload)))

			_, err := session.NewStorage(store, "app").Load(ctx)
			require.ErrorIs(t, err, session.ErrDecode)
			require.NotErrorIs(t, err, secretstore.ErrStorage)

			var decodeErr *session.DecodeError
			require.ErrorAs(t, err, &decodeErr)
			require.Equal(t, "app.session", decodeErr.Key)
		})
	}
}

func TestStorageErrorsPassThrough(t *testing.T) {
	ctx := context.Background()
	denied := errors.New("permission denied")
	storage := session.NewStorage(&faultyStore{
		inner:       secretstore.NewMemoryStore(),
		storeErr:    denied,
		retrieveErr: denied,
		removeErr:   denied,
	}, "app")

	_, err := storage.Load(ctx)
	require.ErrorIs(t, err, secretstore.ErrStorage)
	require.ErrorIs(t, err, denied)

	require.ErrorIs(t, storage.Save(ctx, session.StoredSession{}), denied)
	require.ErrorIs(t, storage.Delete(ctx), denied)
}

func TestStorageDeleteAbsentSucceeds(t *testing.T) {
	require.NoError(t, session.NewStorage(secretstore.NewMemoryStore(), "app").Delete(context.Background()))
}
