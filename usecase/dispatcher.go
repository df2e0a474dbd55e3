package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/fastygo/taskflow/domain"
)

// EventHandler reacts to a published domain event.
type EventHandler func(ctx context.Context, event domain.Event) error

// EventPublisher is the narrow view use cases need to emit events.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
}

// Dispatcher delivers events synchronously to handlers in registration order.
type Dispatcher struct {
	handlers map[string][]EventHandler
	mu       sync.RWMutex
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		handlers: make(map[string][]EventHandler),
	}
}

func (d *Dispatcher) Subscribe(name string, handler EventHandler) {
	if handler == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[name] = append(d.handlers[name], handler)
}

// Publish runs every handler for the event and stops at the first failure.
func (d *Dispatcher) Publish(ctx context.Context, event domain.Event) error {
	if event == nil {
		return nil
	}
	d.mu.RLock()
	handlers := append([]EventHandler(nil), d.handlers[event.EventName()]...)
	d.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			return fmt.Errorf("event %s: %w", event.EventName(), err)
		}
	}
	return nil
}

var _ EventPublisher = (*Dispatcher)(nil)
