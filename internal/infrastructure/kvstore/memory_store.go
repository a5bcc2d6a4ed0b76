package kvstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"loan-portal/internal/pkg/apperrors"
)

type memoryEntry struct {
	value     []byte
	fields    map[string]string
	expiresAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// MemoryStore keeps session values in process memory. Expired entries are
// invisible to Get and are removed by PurgeExpired.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]memoryEntry
	ttl  time.Duration
	now  func() time.Time
}

// NewMemoryStore creates a store whose entries live for ttl. A zero ttl
// keeps entries until they are deleted.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		data: make(map[string]memoryEntry),
		ttl:  ttl,
		now:  time.Now,
	}
}

func (m *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	entry, ok := m.data[key]
	m.mu.RUnlock()

	if !ok || entry.expired(m.now()) {
		return nil, fmt.Errorf("%w: key %s", apperrors.ErrNotFound, key)
	}
	out := make([]byte, len(entry.value))
	copy(out, entry.value)
	return out, nil
}

func (m *MemoryStore) Set(ctx context.Context, key string, value []byte) error {
	entry := memoryEntry{value: make([]byte, len(value))}
	copy(entry.value, value)
	if m.ttl > 0 {
		entry.expiresAt = m.now().Add(m.ttl)
	}

	m.mu.Lock()
	m.data[key] = entry
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) AddFields(ctx context.Context, key string, fields map[string]string) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	entry, ok := m.data[key]
	if !ok || entry.expired(now) {
		entry = memoryEntry{}
	}
	if entry.fields == nil {
		entry.fields = make(map[string]string, len(fields))
	}

	added := false
	for f, v := range fields {
		if _, exists := entry.fields[f]; !exists {
			entry.fields[f] = v
			added = true
		}
	}
	if added {
		if m.ttl > 0 {
			entry.expiresAt = now.Add(m.ttl)
		}
		m.data[key] = entry
	}

	out := make(map[string]string, len(entry.fields))
	for f, v := range entry.fields {
		out[f] = v
	}
	return out, nil
}

// PurgeExpired drops every entry whose TTL has passed and reports how many
// were removed.
func (m *MemoryStore) PurgeExpired(ctx context.Context) (int, error) {
	now := m.now()
	removed := 0

	m.mu.Lock()
	defer m.mu.Unlock()
	for key, entry := range m.data {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		if entry.expired(now) {
			delete(m.data, key)
			removed++
		}
	}
	return removed, nil
}

func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}
