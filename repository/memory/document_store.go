package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/fastygo/taskflow/domain"
	"github.com/fastygo/taskflow/repository"
)

// DocumentStore keeps documents in process memory. It backs tests and STORE_DRIVER=memory.
type DocumentStore struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

func NewDocumentStore() *DocumentStore {
	return &DocumentStore{docs: make(map[string][]byte)}
}

func (s *DocumentStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[key]
	if !ok {
		return nil, domain.ErrDocumentNotFound
	}
	return append([]byte(nil), doc...), nil
}

func (s *DocumentStore) Set(_ context.Context, key string, doc []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[key] = append([]byte(nil), doc...)
	return nil
}

func (s *DocumentStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, key)
	return nil
}

func (s *DocumentStore) Ping(context.Context) error { return nil }

// Keys returns the stored keys in lexical order.
func (s *DocumentStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.docs))
	for k := range s.docs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var (
	_ repository.DocumentStore = (*DocumentStore)(nil)
	_ repository.Pinger        = (*DocumentStore)(nil)
)
