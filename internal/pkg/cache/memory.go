package cache

import (
	"context"
	"fmt"
	"sync"
	"time"
)

type memoryCache struct {
	mu          sync.RWMutex
	items       map[string]string
	serviceName string
}

// NewMemoryCache returns an in-process Cache. It is the default when no
// redis address is configured, and the implementation tests run against.
// TTLs are ignored: the only cached payload is immutable.
func NewMemoryCache(serviceName string) Cache {
	return &memoryCache{
		items:       make(map[string]string),
		serviceName: serviceName,
	}
}

func (m *memoryCache) Set(_ context.Context, key string, value string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}

func (m *memoryCache) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.items[key], nil
}

func (m *memoryCache) GenerateKey(operation, key string) string {
	return fmt.Sprintf("%s:%s:%s", m.serviceName, operation, key)
}
