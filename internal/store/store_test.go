package store

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusweb/content-server/internal/record"
)

func TestMemoryStore_ReplaceAndGet(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore()

	_, ok := s.Get("awards")
	assert.False(t, ok)

	first := s.Replace("awards", []record.Record{{"id": "1"}}, "h1")
	assert.Equal(t, uint64(1), first.Version)
	assert.Equal(t, 1, first.Len())
	assert.False(t, first.FetchedAt.IsZero())

	second := s.Replace("awards", []record.Record{{"id": "2"}, {"id": "3"}}, "h2")
	assert.Equal(t, uint64(2), second.Version)

	got, ok := s.Get("awards")
	require.True(t, ok)
	assert.Same(t, second, got)
	assert.Equal(t, "h2", got.Hash)

	assert.Equal(t, 1, first.Len(), "earlier snapshot is unaffected by replacement")
}

func TestMemoryStore_ReplaceCopiesSlice(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore()
	records := []record.Record{{"id": "1"}, {"id": "2"}}
	snap := s.Replace("alumni", records, "")

	records[0] = record.Record{"id": "changed"}
	assert.Equal(t, "1", snap.Records[0]["id"])
}

func TestMemoryStore_EmptyCollection(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore()
	snap := s.Replace("events", nil, "")
	assert.NotNil(t, snap.Records)
	assert.Zero(t, snap.Len())

	var missing *Snapshot
	assert.Zero(t, missing.Len())
}

func TestMemoryStore_Resources(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore()
	s.Replace("sports", nil, "")
	s.Replace("achievements", nil, "")
	assert.Equal(t, []string{"achievements", "sports"}, s.Resources())
}

func TestMemoryStore_ConcurrentReplaceAndGet(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore()
	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.Replace("faculty", []record.Record{{"id": fmt.Sprint(i)}}, "")
		}()
		go func() {
			defer wg.Done()
			if snap, ok := s.Get("faculty"); ok {
				assert.Len(t, snap.Records, 1)
			}
		}()
	}
	wg.Wait()

	snap, ok := s.Get("faculty")
	require.True(t, ok)
	assert.Equal(t, uint64(20), snap.Version)
}
