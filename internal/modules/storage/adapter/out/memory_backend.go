package out

import (
	"context"
	"sort"
	"sync"

	"typetrack/internal/modules/storage/dto"
	storageout "typetrack/internal/modules/storage/port/out"
)

// MemoryBackend keeps every partition in process memory. Used by --ephemeral runs and tests.
type MemoryBackend struct {
	mu   sync.RWMutex
	data map[dto.Partition]map[string][]byte
}

func NewMemoryBackend() storageout.Backend {
	return &MemoryBackend{data: map[dto.Partition]map[string][]byte{
		dto.Session: {},
		dto.Sync:    {},
	}}
}

func (m *MemoryBackend) Get(_ context.Context, partition dto.Partition, key string) ([]byte, bool, error) {
	if err := partition.Validate(); err != nil {
		return nil, false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[partition][key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *MemoryBackend) Put(_ context.Context, partition dto.Partition, key string, value []byte) error {
	if err := partition.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[partition][key] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryBackend) Delete(_ context.Context, partition dto.Partition, key string) error {
	if err := partition.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data[partition], key)
	return nil
}

func (m *MemoryBackend) Keys(_ context.Context, partition dto.Partition) ([]string, error) {
	if err := partition.Validate(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.data[partition]))
	for k := range m.data[partition] {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *MemoryBackend) Clear(_ context.Context, partition dto.Partition) error {
	if err := partition.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[partition] = map[string][]byte{}
	return nil
}

func (m *MemoryBackend) Close() error { return nil }
