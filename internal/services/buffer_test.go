package services

import (
	"context"
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/fastygo/taskflow/domain"
	"github.com/fastygo/taskflow/internal/infrastructure/buffer"
	"github.com/fastygo/taskflow/internal/testutil"
	"github.com/fastygo/taskflow/repository"
	"github.com/fastygo/taskflow/repository/memory"
)

var errOffline = errors.New("dial tcp: connection refused")

// flakyStore is a memory store whose writes fail while down is set.
type flakyStore struct {
	*memory.DocumentStore
	down   atomic.Bool
	writes atomic.Int32
}

func (s *flakyStore) Set(ctx context.Context, key string, doc []byte) error {
	if s.down.Load() {
		return errOffline
	}
	s.writes.Add(1)
	return s.DocumentStore.Set(ctx, key, doc)
}

func (s *flakyStore) Delete(ctx context.Context, key string) error {
	if s.down.Load() {
		return errOffline
	}
	s.writes.Add(1)
	return s.DocumentStore.Delete(ctx, key)
}

type staticHealth bool

func (h staticHealth) IsOnline() bool { return bool(h) }

func newBridge(t *testing.T, health ConnectionHealth, cfg ProcessorConfig) (*BufferBridge, *BufferProcessor, *flakyStore) {
	t.Helper()
	buf, err := buffer.Open(filepath.Join(t.TempDir(), "buffer.db"), "")
	if err != nil {
		t.Fatalf("buffer.Open: %v", err)
	}
	t.Cleanup(func() { buf.Close() })

	primary := &flakyStore{DocumentStore: memory.NewDocumentStore()}
	processor := NewBufferProcessor(buf, health, primary, nil, cfg)
	return NewBufferBridge(primary, processor, nil), processor, primary
}

func TestBridgeSatisfiesDocumentStore(t *testing.T) {
	bridge, _, _ := newBridge(t, staticHealth(true), ProcessorConfig{})
	testutil.AssertDocumentStore(t, bridge)
}

func TestBridgeWritesThroughWhenPrimaryHealthy(t *testing.T) {
	bridge, processor, primary := newBridge(t, staticHealth(true), ProcessorConfig{})
	ctx := context.Background()

	if err := bridge.Set(ctx, repository.KeyTasks, []byte(`[]`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if processor.Size() != 0 {
		t.Errorf("buffer size = %d, want 0", processor.Size())
	}
	testutil.AssertDocument(t, primary.DocumentStore, repository.KeyTasks, `[]`)
}

func TestBridgeBuffersWhenPrimaryFails(t *testing.T) {
	bridge, processor, primary := newBridge(t, staticHealth(true), ProcessorConfig{})
	ctx := context.Background()
	primary.down.Store(true)

	if err := bridge.Set(ctx, repository.KeyUserCoins, []byte(`160`)); err != nil {
		t.Fatalf("Set while offline: %v", err)
	}
	if processor.Size() != 1 {
		t.Fatalf("buffer size = %d, want 1", processor.Size())
	}
	testutil.AssertDocument(t, bridge, repository.KeyUserCoins, `160`)

	if err := bridge.Delete(ctx, repository.KeyUserCoins); err != nil {
		t.Fatalf("Delete while offline: %v", err)
	}
	if _, err := bridge.Get(ctx, repository.KeyUserCoins); !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Errorf("Get after buffered delete = %v", err)
	}
}

func TestBridgeQueuesBehindPendingWrites(t *testing.T) {
	bridge, processor, primary := newBridge(t, staticHealth(true), ProcessorConfig{})
	ctx := context.Background()

	primary.down.Store(true)
	_ = bridge.Set(ctx, repository.KeyTasks, []byte(`[{"id":1}]`))
	primary.down.Store(false)

	if err := bridge.Set(ctx, repository.KeyTasks, []byte(`[{"id":1},{"id":2}]`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if primary.writes.Load() != 0 {
		t.Fatalf("primary written %d times before the buffer drained", primary.writes.Load())
	}
	if processor.Size() != 2 {
		t.Fatalf("buffer size = %d, want 2", processor.Size())
	}

	if err := processor.Drain(ctx); err != nil {
		t.Fatalf("Drain: %v", err)
	}
	if processor.Size() != 0 {
		t.Errorf("buffer size after drain = %d", processor.Size())
	}
	testutil.AssertDocument(t, primary.DocumentStore, repository.KeyTasks, `[{"id":1},{"id":2}]`)
}

func TestDrainSkippedWhileOffline(t *testing.T) {
	bridge, processor, primary := newBridge(t, staticHealth(false), ProcessorConfig{})
	ctx := context.Background()

	primary.down.Store(true)
	_ = bridge.Set(ctx, repository.KeySettings, []byte(`{}`))
	primary.down.Store(false)

	if err := processor.Drain(ctx); err != nil {
		t.Fatalf("Drain: %v", err)
	}
	if processor.Size() != 1 {
		t.Errorf("buffer size = %d, want 1", processor.Size())
	}
}

func TestDrainStopsAtFirstFailureAndDropsAfterMaxRetries(t *testing.T) {
	bridge, processor, primary := newBridge(t, staticHealth(true), ProcessorConfig{MaxRetries: 2})
	ctx := context.Background()

	primary.down.Store(true)
	_ = bridge.Set(ctx, repository.KeyTasks, []byte(`[]`))
	_ = bridge.Set(ctx, repository.KeyUserStats, []byte(`{}`))

	_ = processor.Drain(ctx)
	if processor.Size() != 2 {
		t.Fatalf("buffer size after first failure = %d, want 2", processor.Size())
	}
	pending, _, _ := processor.Pending(repository.KeyTasks)
	if pending.Retries != 1 {
		t.Errorf("retries = %d, want 1", pending.Retries)
	}

	// Second failure hits MaxRetries for the head; the next item fails and stays queued.
	_ = processor.Drain(ctx)
	if processor.Size() != 1 {
		t.Fatalf("buffer size after max retries = %d, want 1", processor.Size())
	}
	if _, ok, _ := processor.Pending(repository.KeyTasks); ok {
		t.Error("head write should have been dropped")
	}

	primary.down.Store(false)
	_ = processor.Drain(ctx)
	testutil.AssertDocument(t, primary.DocumentStore, repository.KeyUserStats, `{}`)
}

func TestBridgeReturnsDomainErrorsWithoutBuffering(t *testing.T) {
	buf, err := buffer.Open(filepath.Join(t.TempDir(), "buffer.db"), "")
	if err != nil {
		t.Fatal(err)
	}
	defer buf.Close()

	primary := rejectingStore{memory.NewDocumentStore()}
	processor := NewBufferProcessor(buf, staticHealth(true), primary, nil, ProcessorConfig{})
	bridge := NewBufferBridge(primary, processor, nil)

	err = bridge.Set(context.Background(), repository.KeyTasks, []byte(`{broken`))
	if !errors.Is(err, domain.ErrInvalidPayload) {
		t.Fatalf("Set = %v, want ErrInvalidPayload", err)
	}
	if processor.Size() != 0 {
		t.Errorf("invalid payload was buffered")
	}
}

type rejectingStore struct{ *memory.DocumentStore }

func (rejectingStore) Set(context.Context, string, []byte) error { return domain.ErrInvalidPayload }
