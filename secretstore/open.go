package secretstore

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jrsteele09/go-auth-session/internal/config"
	"github.com/redis/go-redis/v9"
)

// Open builds the backend selected by cfg. The caller owns the returned Backend and
// must Close it.
func Open(ctx context.Context, cfg config.StoreConfig) (Backend, error) {
	switch cfg.GetStoreBackend() {
	case config.MemoryBackend:
		return NewMemoryStore(), nil

	case config.FileBackend:
		store, err := NewFileStore(cfg.GetFileDir(), cfg.GetFilePassphrase())
		if err != nil {
			return nil, fmt.Errorf("[secretstore Open] %w", err)
		}
		return store, nil

	case config.RedisBackend:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.GetRedisAddr(),
			Password: cfg.GetRedisPassword(),
			DB:       cfg.GetRedisDB(),
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("[secretstore Open] redis ping: %w", err)
		}
		return NewRedisStore(client, cfg.GetRedisPrefix()), nil

	case config.PostgresBackend:
		pool, err := pgxpool.New(ctx, cfg.GetPostgresURL())
		if err != nil {
			return nil, fmt.Errorf("[secretstore Open] postgres pool: %w", err)
		}
		store := NewPostgresStore(pool)
		if err := store.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("[secretstore Open] postgres schema: %w", err)
		}
		return store, nil

	case config.KeyringBackend:
		return NewKeyringStore(cfg.GetKeyringService(), cfg.GetKeyringAccessGroup()), nil

	default:
		return nil, fmt.Errorf("[secretstore Open] unknown store backend %q", cfg.GetStoreBackend())
	}
}
