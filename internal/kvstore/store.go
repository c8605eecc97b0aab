// Package kvstore persists string key/value pairs per namespace. Sessions use one namespace per device.
package kvstore

import (
	"context"
	"sync"
)

// Store is a durable key/value store partitioned by namespace.
type Store interface {
	// Load returns every key of ns. A namespace that was never written is empty, not an error.
	Load(ctx context.Context, ns string) (map[string]string, error)
	// Apply writes set and removes del in one atomic step.
	Apply(ctx context.Context, ns string, set map[string]string, del []string) error
}

// Memory is a process-local Store.
type Memory struct {
	mu   sync.RWMutex
	data map[string]map[string]string
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]map[string]string)}
}

func (m *Memory) Load(_ context.Context, ns string) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string, len(m.data[ns]))
	for k, v := range m.data[ns] {
		out[k] = v
	}
	return out, nil
}

func (m *Memory) Apply(ctx context.Context, ns string, set map[string]string, del []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	bucket, ok := m.data[ns]
	if !ok {
		bucket = make(map[string]string, len(set))
		m.data[ns] = bucket
	}
	for _, k := range del {
		delete(bucket, k)
	}
	for k, v := range set {
		bucket[k] = v
	}
	return nil
}
