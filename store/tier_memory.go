// Memory tier: process-lifetime map, the tier of last resort and the
// backend every test runs on.
package store

import (
	"context"
	"sync"
)

type Memory struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{docs: make(map[string][]byte)}
}

func (m *Memory) Name() string { return "memory" }

func (m *Memory) Read(_ context.Context, doc string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.docs[doc]
	if !ok {
		return nil, ErrNoDocument
	}
	return append([]byte(nil), data...), nil
}

func (m *Memory) Write(_ context.Context, doc string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[doc] = append([]byte(nil), data...)
	return nil
}

func (m *Memory) Delete(_ context.Context, doc string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, doc)
	return nil
}
