package tx

import (
	"context"
	"sync"
)

// Manager wraps transactional boundaries for read-modify-write sequences.
type Manager interface {
	Within(ctx context.Context, fn func(context.Context) error) error
}

// MutexManager serializes fn calls inside one process.
type MutexManager struct {
	mu sync.Mutex
}

func NewMutexManager() *MutexManager {
	return &MutexManager{}
}

func (m *MutexManager) Within(ctx context.Context, fn func(context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx)
}
