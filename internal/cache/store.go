// Package cache provides the fingerprinted, TTL-bound result cache.
//
// Entries are keyed by hash(sourceID, normalized query). An entry older
// than its ttl is treated as absent and purged on the read that finds it.
// All mutation goes through Get/Set under one lock; last-writer-wins is
// acceptable because content for a fingerprint is idempotent within the
// ttl window.
package cache

import (
	"sync"
	"time"

	"github.com/RafalekS/MCP-Search/internal/shared/types"
	"github.com/RafalekS/MCP-Search/internal/shared/utils"
)

// DefaultTTL bounds how long cached results stay servable.
const DefaultTTL = 24 * time.Hour

type entry struct {
	records   []types.ResultRecord
	createdAt time.Time
	ttl       time.Duration
}

func (e entry) expired(now time.Time) bool {
	return now.Sub(e.createdAt) >= e.ttl
}

// readable guards against entries that lost their payload; such entries
// are treated as absent and evicted on access.
func (e entry) readable() bool {
	return e.records != nil && !e.createdAt.IsZero() && e.ttl > 0
}

// Store is an in-memory cache of extraction results.
type Store struct {
	ttl time.Duration

	mu      sync.RWMutex
	entries map[string]entry

	// clock is swappable for expiry tests.
	clock func() time.Time

	// OnEvict, when set, observes evictions (expiry or corruption).
	OnEvict func()
}

// New creates a store with the given ttl; ttl <= 0 selects DefaultTTL.
func New(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		ttl:     ttl,
		entries: make(map[string]entry),
		clock:   time.Now,
	}
}

// Get returns the cached records for (sourceID, query), honoring ttl.
// Expired or unreadable entries are evicted and reported as absent.
func (s *Store) Get(sourceID, query string) ([]types.ResultRecord, bool) {
	key := utils.Fingerprint(sourceID, query)

	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if !e.readable() || e.expired(s.clock()) {
		s.evict(key)
		return nil, false
	}

	out := make([]types.ResultRecord, len(e.records))
	copy(out, e.records)
	return out, true
}

// Set stores records for (sourceID, query) with the store's ttl.
func (s *Store) Set(sourceID, query string, records []types.ResultRecord) {
	key := utils.Fingerprint(sourceID, query)

	stored := make([]types.ResultRecord, len(records))
	copy(stored, records)

	s.mu.Lock()
	s.entries[key] = entry{
		records:   stored,
		createdAt: s.clock(),
		ttl:       s.ttl,
	}
	s.mu.Unlock()
}

// Invalidate drops one (sourceID, query) slot.
func (s *Store) Invalidate(sourceID, query string) {
	s.evict(utils.Fingerprint(sourceID, query))
}

// Purge sweeps every expired entry and returns how many were removed.
func (s *Store) Purge() int {
	now := s.clock()

	s.mu.Lock()
	removed := 0
	for key, e := range s.entries {
		if !e.readable() || e.expired(now) {
			delete(s.entries, key)
			removed++
		}
	}
	s.mu.Unlock()

	if s.OnEvict != nil {
		for i := 0; i < removed; i++ {
			s.OnEvict()
		}
	}
	return removed
}

// Len returns the entry count, expired entries included.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *Store) evict(key string) {
	s.mu.Lock()
	_, existed := s.entries[key]
	delete(s.entries, key)
	s.mu.Unlock()

	if existed && s.OnEvict != nil {
		s.OnEvict()
	}
}
