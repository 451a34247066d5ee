package events

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/fyrsmithlabs/cectoolkit/internal/logging"
	"go.uber.org/zap"
)

// Subscription errors.
var (
	ErrDuplicateSubscriber = errors.New("subscriber already registered")
	ErrInvalidSubscriber   = errors.New("subscriber name and handler are required")
)

// Handler receives published events.
type Handler interface {
	Handle(ctx context.Context, e Event) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, e Event) error

// Handle calls f.
func (f HandlerFunc) Handle(ctx context.Context, e Event) error { return f(ctx, e) }

type subscription struct {
	name    string
	handler Handler
}

// Bus delivers events to subscribers in registration order.
type Bus struct {
	mu     sync.RWMutex
	subs   []subscription
	logger *logging.Logger
}

// NewBus returns an empty Bus.
func NewBus(logger *logging.Logger) *Bus {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Bus{logger: logger.Named("events")}
}

// Subscribe appends h under name.
func (b *Bus) Subscribe(name string, h Handler) error {
	if name == "" || h == nil {
		return ErrInvalidSubscriber
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, s := range b.subs {
		if s.name == name {
			return fmt.Errorf("%w: %s", ErrDuplicateSubscriber, name)
		}
	}
	b.subs = append(b.subs, subscription{name: name, handler: h})
	return nil
}

// Unsubscribe removes the subscriber registered as name and reports whether
// it existed.
func (b *Bus) Unsubscribe(name string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s.name == name {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return true
		}
	}
	return false
}

// Subscribers returns subscriber names in delivery order.
func (b *Bus) Subscribers() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	names := make([]string, len(b.subs))
	for i, s := range b.subs {
		names[i] = s.name
	}
	return names
}

// Publish delivers e to every subscriber and returns the number that failed.
// Errors and panics are logged.
func (b *Bus) Publish(ctx context.Context, e Event) int {
	b.mu.RLock()
	subs := append([]subscription(nil), b.subs...)
	b.mu.RUnlock()

	failed := 0
	for _, s := range subs {
		if err := b.deliver(ctx, s, e); err != nil {
			failed++
			b.logger.Warn(ctx, "event subscriber failed",
				zap.String("subscriber", s.name),
				zap.String("event.id", e.ID),
				zap.Error(err))
		}
	}
	return failed
}

func (b *Bus) deliver(ctx context.Context, s subscription, e Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return s.handler.Handle(ctx, e)
}
