package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/taskflow/domain"
	"github.com/fastygo/taskflow/repository"
)

// DocumentStore keeps documents in the documents table, one row per (namespace, key).
type DocumentStore struct {
	pool      *pgxpool.Pool
	namespace string
}

// NewDocumentStore returns a Postgres-backed implementation of DocumentStore.
func NewDocumentStore(pool *pgxpool.Pool, namespace string) *DocumentStore {
	if namespace == "" {
		namespace = "taskflow"
	}
	return &DocumentStore{pool: pool, namespace: namespace}
}

func (r *DocumentStore) Get(ctx context.Context, key string) ([]byte, error) {
	const query = `
	SELECT value
	FROM documents
	WHERE namespace = $1 AND key = $2
	`
	var value []byte
	if err := r.pool.QueryRow(ctx, query, r.namespace, key).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, err
	}
	return value, nil
}

func (r *DocumentStore) Set(ctx context.Context, key string, doc []byte) error {
	if !validJSON(doc) {
		return domain.ErrInvalidPayload
	}

	const query = `
	INSERT INTO documents (namespace, key, value)
	VALUES ($1, $2, $3::jsonb)
	ON CONFLICT (namespace, key)
	DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`
	_, err := r.pool.Exec(ctx, query, r.namespace, key, string(doc))
	return err
}

func (r *DocumentStore) Delete(ctx context.Context, key string) error {
	const query = `DELETE FROM documents WHERE namespace = $1 AND key = $2`
	_, err := r.pool.Exec(ctx, query, r.namespace, key)
	return err
}

func (r *DocumentStore) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

var (
	_ repository.DocumentStore = (*DocumentStore)(nil)
	_ repository.Pinger        = (*DocumentStore)(nil)
)
