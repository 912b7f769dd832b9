package secretstore

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

var _ Backend = (*RedisStore)(nil)

// RedisStore keeps payloads as plain Redis strings under prefix+key.
// Single-key SET, GET and DEL are atomic on the server.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (rs *RedisStore) Store(ctx context.Context, key string, value []byte) error {
	return storageErr(opStore, key, rs.client.Set(ctx, rs.prefix+key, value, 0).Err())
}

func (rs *RedisStore) Retrieve(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := rs.client.Get(ctx, rs.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, storageErr(opRetrieve, key, err)
	}
	return value, true, nil
}

func (rs *RedisStore) Remove(ctx context.Context, key string) error {
	return storageErr(opRemove, key, rs.client.Del(ctx, rs.prefix+key).Err())
}

func (rs *RedisStore) Close() error {
	return rs.client.Close()
}
