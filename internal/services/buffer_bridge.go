package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/fastygo/taskflow/domain"
	"github.com/fastygo/taskflow/internal/infrastructure/buffer"
	"github.com/fastygo/taskflow/repository"
)

// BufferBridge is a DocumentStore that writes through to a remote primary store and diverts
// writes into the local buffer when the primary fails. Reads prefer a pending buffered write
// over the primary copy.
type BufferBridge struct {
	primary   repository.DocumentStore
	processor *BufferProcessor
	logger    *zap.Logger
}

func NewBufferBridge(primary repository.DocumentStore, processor *BufferProcessor, logger *zap.Logger) *BufferBridge {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BufferBridge{
		primary:   primary,
		processor: processor,
		logger:    logger,
	}
}

func (b *BufferBridge) Get(ctx context.Context, key string) ([]byte, error) {
	item, ok, err := b.processor.Pending(key)
	if err != nil {
		b.logger.Warn("buffer lookup failed", zap.String("key", key), zap.Error(err))
	}
	if ok {
		if item.Operation == buffer.OperationDelete {
			return nil, domain.ErrDocumentNotFound
		}
		return append([]byte(nil), item.Data...), nil
	}
	return b.primary.Get(ctx, key)
}

func (b *BufferBridge) Set(ctx context.Context, key string, doc []byte) error {
	return b.write(ctx, buffer.Item{
		Key:       key,
		Operation: buffer.OperationSet,
		Data:      append([]byte(nil), doc...),
	})
}

func (b *BufferBridge) Delete(ctx context.Context, key string) error {
	return b.write(ctx, buffer.Item{
		Key:       key,
		Operation: buffer.OperationDelete,
	})
}

func (b *BufferBridge) Ping(ctx context.Context) error {
	if pinger, ok := b.primary.(repository.Pinger); ok {
		return pinger.Ping(ctx)
	}
	return nil
}

// write queues behind any pending writes; otherwise it tries the primary first.
func (b *BufferBridge) write(ctx context.Context, item buffer.Item) error {
	if b.processor.Size() == 0 {
		err := b.apply(ctx, item)
		if err == nil {
			return nil
		}
		var domainErr *domain.Error
		if errors.As(err, &domainErr) {
			return err
		}
		b.logger.Warn("primary store write failed, buffering",
			zap.String("key", item.Key),
			zap.Error(err))
	}
	if err := b.processor.BufferOperation(ctx, item); err != nil {
		return domain.WrapError(domain.ErrCodeUnavailable, "document store unavailable", err)
	}
	return nil
}

func (b *BufferBridge) apply(ctx context.Context, item buffer.Item) error {
	if item.Operation == buffer.OperationDelete {
		return b.primary.Delete(ctx, item.Key)
	}
	return b.primary.Set(ctx, item.Key, item.Data)
}

var _ repository.DocumentStore = (*BufferBridge)(nil)
