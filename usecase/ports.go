package usecase

import "context"

// Resetter is implemented by use cases that cache documents in memory and must drop the cache
// after the underlying documents are deleted.
type Resetter interface {
	Reset(ctx context.Context)
}
