package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"tldw-backend/internal/metrics"
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// Memory is a process-local Cache. Values are stored JSON-encoded so callers
// never share mutable state with the cache.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (m *Memory) Get(ctx context.Context, key string, dst any) (bool, error) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok || (!e.expiresAt.IsZero() && !m.now().Before(e.expiresAt)) {
		if ok {
			m.mu.Lock()
			if cur, still := m.entries[key]; still && cur.expiresAt.Equal(e.expiresAt) {
				delete(m.entries, key)
			}
			m.mu.Unlock()
		}
		metrics.CacheRequests.WithLabelValues(metrics.CacheMiss).Inc()
		return false, nil
	}

	if err := json.Unmarshal(e.data, dst); err != nil {
		metrics.CacheRequests.WithLabelValues(metrics.CacheError).Inc()
		return false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	metrics.CacheRequests.WithLabelValues(metrics.CacheHit).Inc()
	return true, nil
}

func (m *Memory) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = m.now().Add(ttl)
	}

	m.mu.Lock()
	m.entries[key] = memoryEntry{data: data, expiresAt: expiresAt}
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Flush(ctx context.Context) error {
	m.mu.Lock()
	m.entries = make(map[string]memoryEntry)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
