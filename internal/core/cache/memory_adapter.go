package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time // zero means no expiration
}

// MemoryAdapter implements the Cache interface with a process-local map.
// It is the default backend: the snapshot cache is a rate-limiting cache,
// not a system of record, so nothing needs to survive a restart.
type MemoryAdapter struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	clock   clock.Clock
	closed  bool
}

// NewMemoryAdapter creates a new in-memory cache adapter.
func NewMemoryAdapter(clk clock.Clock) *MemoryAdapter {
	return &MemoryAdapter{
		entries: make(map[string]memoryEntry),
		clock:   clk,
	}
}

// Get retrieves a value by key. Expired entries are treated as missing
// and removed lazily.
func (m *MemoryAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()

	if ok && !entry.expiresAt.IsZero() && !m.clock.Now().Before(entry.expiresAt) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		ok = false
	}

	if !ok {
		return nil, fmt.Errorf("key not found: %s", key)
	}
	return entry.value, nil
}

// Set stores a value with the specified TTL. TTL of 0 means no expiration.
func (m *MemoryAdapter) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	entry := memoryEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = m.clock.Now().Add(ttl)
	}

	m.mu.Lock()
	m.entries[key] = entry
	m.mu.Unlock()
	return nil
}

// Delete removes a value by key.
func (m *MemoryAdapter) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}

// Ping reports whether the adapter is usable.
func (m *MemoryAdapter) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return fmt.Errorf("memory cache is closed")
	}
	return nil
}

// Close discards all entries.
func (m *MemoryAdapter) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]memoryEntry)
	m.closed = true
	return nil
}
