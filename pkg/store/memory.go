package store

import (
	"context"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// Memory is an in-memory KV store, used in tests and
// for workflows which don't need to survive restarts.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

var _ KV = &Memory{}

func NewMemory() *Memory {
	return &Memory{data: map[string][]byte{}}
}

func (m *Memory) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.data[key]
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "key %s", key)
	}
	return append([]byte{}, v...), nil
}

func (m *Memory) Put(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[key] = append([]byte{}, value...)
	return nil
}

func (m *Memory) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, key)
	return nil
}

func (m *Memory) List(ctx context.Context, prefix string) (map[string][]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := map[string][]byte{}
	for k, v := range m.data {
		if strings.HasPrefix(k, prefix) {
			out[k] = append([]byte{}, v...)
		}
	}
	return out, nil
}
