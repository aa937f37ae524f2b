package fallback

import (
	"context"
	"sync"

	appErrors "github.com/noah-isme/school-portal/pkg/errors"
)

// Memory keeps snapshots in process. Used in tests and when no durable backend is
// configured.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemory returns an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

// Load returns a copy of the stored payload.
func (m *Memory) Load(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	raw, ok := m.data[key]
	if !ok {
		return nil, appErrors.ErrCacheMiss
	}
	return append([]byte(nil), raw...), nil
}

// Store saves a copy of payload.
func (m *Memory) Store(_ context.Context, key string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), payload...)
	return nil
}
