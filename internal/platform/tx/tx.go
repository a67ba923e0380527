package tx

import "context"

// Manager wraps a serialization boundary around a read-modify-write of persisted state.
type Manager interface {
	Within(ctx context.Context, fn func(context.Context) error) error
}

// NoopManager runs fn directly. Concurrent callers may interleave.
type NoopManager struct{}

func (NoopManager) Within(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

// SerialManager admits one fn at a time. Waiting callers give up when their context ends.
type SerialManager struct {
	slot chan struct{}
}

func NewSerialManager() *SerialManager {
	return &SerialManager{slot: make(chan struct{}, 1)}
}

func (m *SerialManager) Within(ctx context.Context, fn func(context.Context) error) error {
	select {
	case m.slot <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-m.slot }()
	return fn(ctx)
}
