package secretstore_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/jrsteele09/go-auth-session/secretstore"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return mr, rdb
}

func TestRedisStore(t *testing.T) {
	_, rdb := newTestRedis(t)
	store := secretstore.NewRedisStore(rdb, "secret:")
	t.Cleanup(func() { store.Close() })

	exerciseStore(t, store)
}

func TestRedisStoreUsesPrefix(t *testing.T) {
	mr, rdb := newTestRedis(t)
	store := secretstore.NewRedisStore(rdb, "tenant-a:")
	t.Cleanup(func() { store.Close() })

	require.NoError(t, store.Store(context.Background(), "auth.session", []byte("v")))

	got, err := mr.Get("tenant-a:auth.session")
	require.NoError(t, err)
	require.Equal(t, "v", got)
}

func TestRedisStoreUnavailableIsStorageError(t *testing.T) {
	mr, rdb := newTestRedis(t)
	store := secretstore.NewRedisStore(rdb, "secret:")
	t.Cleanup(func() { store.Close() })
	mr.Close()

	err := store.Store(context.Background(), "auth.session", []byte("v"))
	require.ErrorIs(t, err, secretstore.ErrStorage)

	_, _, err = store.Retrieve(context.Background(), "auth.session")
	require.ErrorIs(t, err, secretstore.ErrStorage)
}
