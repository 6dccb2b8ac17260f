package cache

import (
	"context"
	"sync"
	"time"

	"github.com/golang/groupcache/lru"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryStore is an in-process LRU store. Entries are evicted when capacity
// is exceeded or when their TTL has elapsed.
type MemoryStore struct {
	mu    sync.Mutex
	lru   *lru.Cache
	ttl   time.Duration
	now   func() time.Time
	stats Stats
}

// Stats counts store activity. Evictions includes expired and deleted entries.
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
}

// NewMemoryStore creates a store holding at most capacity entries for ttl each.
func NewMemoryStore(capacity int, ttl time.Duration) *MemoryStore {
	s := &MemoryStore{
		lru: lru.New(capacity),
		ttl: ttl,
		now: time.Now,
	}
	s.lru.OnEvicted = func(lru.Key, interface{}) {
		s.stats.Evictions++
	}
	return s
}

// Get returns the value for key or ErrMiss.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.lru.Get(key)
	if !ok {
		s.stats.Misses++
		return nil, ErrMiss
	}
	entry := v.(memoryEntry)
	if !s.now().Before(entry.expiresAt) {
		s.lru.Remove(key)
		s.stats.Misses++
		return nil, ErrMiss
	}
	s.stats.Hits++
	return entry.value, nil
}

// Set stores value under key, replacing any previous entry.
func (s *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lru.Add(key, memoryEntry{value: value, expiresAt: s.now().Add(s.ttl)})
	return nil
}

// Delete removes key.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lru.Remove(key)
	return nil
}

// Len returns the number of entries, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lru.Len()
}

// Stats returns a snapshot of the counters.
func (s *MemoryStore) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}
