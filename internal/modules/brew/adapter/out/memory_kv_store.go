package out

import (
	"context"
	"sync"

	brewout "brewlog/internal/modules/brew/port/out"
	apperrors "brewlog/internal/platform/errors"
)

type MemoryKVStore struct {
	mu     sync.RWMutex
	values map[string][]byte
}

func NewMemoryKVStore() *MemoryKVStore {
	return &MemoryKVStore{values: map[string][]byte{}}
}

var _ brewout.KeyValueStore = (*MemoryKVStore)(nil)

func (s *MemoryKVStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *MemoryKVStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = append([]byte(nil), value...)
	return nil
}
