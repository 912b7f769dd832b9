package secretstore

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ Backend = (*PostgresStore)(nil)

// PostgresStore keeps payloads in the auth_secret_store table, one row per key.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// EnsureSchema creates the backing table if it does not exist yet.
func (ps *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := ps.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS auth_secret_store (
			key        TEXT PRIMARY KEY,
			value      BYTEA NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	return err
}

func (ps *PostgresStore) Store(ctx context.Context, key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	_, err := ps.pool.Exec(ctx, `
		INSERT INTO auth_secret_store (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`, key, value)
	return storageErr(opStore, key, err)
}

func (ps *PostgresStore) Retrieve(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := ps.pool.QueryRow(ctx, `SELECT value FROM auth_secret_store WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, storageErr(opRetrieve, key, err)
	}
	return value, true, nil
}

func (ps *PostgresStore) Remove(ctx context.Context, key string) error {
	_, err := ps.pool.Exec(ctx, `DELETE FROM auth_secret_store WHERE key = $1`, key)
	return storageErr(opRemove, key, err)
}

func (ps *PostgresStore) Close() error {
	ps.pool.Close()
	return nil
}
