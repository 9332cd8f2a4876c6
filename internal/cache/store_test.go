package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RafalekS/MCP-Search/internal/shared/types"
)

func records(names ...string) []types.ResultRecord {
	out := make([]types.ResultRecord, 0, len(names))
	for _, n := range names {
		out = append(out, types.ResultRecord{Name: n, URL: "https://example.com/" + n})
	}
	return out
}

func TestStoreRoundTrip(t *testing.T) {
	s := New(time.Hour)
	s.Set("src", "memory", records("Foo", "Bar"))

	got, ok := s.Get("src", "memory")
	require.True(t, ok)
	require.Len(t, got, 2)
	assert.Equal(t, "Foo", got[0].Name)
}

func TestStoreMissForUnknownKey(t *testing.T) {
	s := New(time.Hour)
	_, ok := s.Get("src", "memory")
	assert.False(t, ok)
}

func TestStoreQueryNormalizationSharesSlot(t *testing.T) {
	s := New(time.Hour)
	s.Set("src", "Memory  Server", records("Foo"))

	got, ok := s.Get("src", " memory server ")
	require.True(t, ok)
	assert.Len(t, got, 1)
}

func TestStoreExpiryIsAMiss(t *testing.T) {
	s := New(time.Hour)
	now := time.Now()
	s.clock = func() time.Time { return now }

	s.Set("src", "q", records("Foo"))

	now = now.Add(2 * time.Hour)
	_, ok := s.Get("src", "q")
	assert.False(t, ok)
	// Expired entry is purged by the read that found it.
	assert.Equal(t, 0, s.Len())
}

func TestStoreEntryJustInsideTTLSurvives(t *testing.T) {
	s := New(time.Hour)
	now := time.Now()
	s.clock = func() time.Time { return now }

	s.Set("src", "q", records("Foo"))
	now = now.Add(59 * time.Minute)

	_, ok := s.Get("src", "q")
	assert.True(t, ok)
}

func TestStoreGetReturnsCopy(t *testing.T) {
	s := New(time.Hour)
	s.Set("src", "q", records("Foo"))

	got, _ := s.Get("src", "q")
	got[0].Name = "mutated"

	again, _ := s.Get("src", "q")
	assert.Equal(t, "Foo", again[0].Name)
}

func TestStoreLastWriterWins(t *testing.T) {
	s := New(time.Hour)
	s.Set("src", "q", records("Old"))
	s.Set("src", "q", records("New"))

	got, _ := s.Get("src", "q")
	require.Len(t, got, 1)
	assert.Equal(t, "New", got[0].Name)
}

func TestStoreInvalidate(t *testing.T) {
	s := New(time.Hour)
	s.Set("src", "q", records("Foo"))
	s.Invalidate("src", "q")

	_, ok := s.Get("src", "q")
	assert.False(t, ok)
}

func TestStorePurgeSweepsExpired(t *testing.T) {
	s := New(time.Hour)
	now := time.Now()
	s.clock = func() time.Time { return now }

	evictions := 0
	s.OnEvict = func() { evictions++ }

	s.Set("a", "q", records("A"))
	s.Set("b", "q", records("B"))
	now = now.Add(2 * time.Hour)
	s.Set("c", "q", records("C"))

	assert.Equal(t, 2, s.Purge())
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 2, evictions)
}

func TestStoreUnreadableEntryIsAbsent(t *testing.T) {
	s := New(time.Hour)
	// Simulate a corrupted slot: payload lost.
	s.mu.Lock()
	s.entries["deadbeef"] = entry{}
	s.mu.Unlock()

	s.mu.RLock()
	e := s.entries["deadbeef"]
	s.mu.RUnlock()
	assert.False(t, e.readable())

	assert.Equal(t, 1, s.Purge())
}

func TestStoreEmptyResultSetIsCacheable(t *testing.T) {
	// Write-through of empty results is the client's decision; the store
	// itself must distinguish "cached empty" from "absent".
	s := New(time.Hour)
	s.Set("src", "q", []types.ResultRecord{})

	got, ok := s.Get("src", "q")
	assert.True(t, ok)
	assert.Empty(t, got)
}
