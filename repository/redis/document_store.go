package redis

import (
	"context"
	"errors"
	"fmt"

	redislib "github.com/redis/go-redis/v9"

	"github.com/fastygo/taskflow/domain"
	"github.com/fastygo/taskflow/repository"
)

type DocumentStore struct {
	client *redislib.Client
	prefix string
}

// NewDocumentStore creates a Redis-backed document store. Keys are stored as "<namespace>-<key>",
// matching the browser storage layout the documents were designed for.
func NewDocumentStore(client *redislib.Client, namespace string) *DocumentStore {
	if namespace == "" {
		namespace = "taskflow"
	}
	return &DocumentStore{
		client: client,
		prefix: namespace + "-",
	}
}

func (r *DocumentStore) Get(ctx context.Context, key string) ([]byte, error) {
	result, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, err
	}
	return result, nil
}

func (r *DocumentStore) Set(ctx context.Context, key string, doc []byte) error {
	return r.client.Set(ctx, r.key(key), doc, 0).Err()
}

func (r *DocumentStore) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.key(key)).Err()
}

func (r *DocumentStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *DocumentStore) key(key string) string {
	return fmt.Sprintf("%s%s", r.prefix, key)
}

var (
	_ repository.DocumentStore = (*DocumentStore)(nil)
	_ repository.Pinger        = (*DocumentStore)(nil)
)
