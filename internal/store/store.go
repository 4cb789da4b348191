// Package store holds the current in-memory snapshot of every served collection.
//
// A snapshot is replaced wholesale after each successful fetch. Readers get the
// snapshot pointer and never observe a partially replaced collection; the
// records inside a published snapshot are never modified.
package store

import (
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/campusweb/content-server/internal/record"
)

// Snapshot is an immutable view of one collection as last fetched
type Snapshot struct {
	Resource  string
	Records   []record.Record
	Hash      string
	FetchedAt time.Time

	// Version increases by one on every replacement of the resource
	Version uint64
}

// Len returns the number of records in the snapshot
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Records)
}

// Store keeps the latest snapshot per resource
type Store interface {
	// Replace publishes a new snapshot for resource and returns it
	Replace(resource string, records []record.Record, hash string) *Snapshot

	// Get returns the current snapshot for resource
	Get(resource string) (*Snapshot, bool)

	// Resources returns the names of resources with a snapshot, sorted
	Resources() []string
}

type memoryStore struct {
	mu        sync.RWMutex
	snapshots map[string]*Snapshot
	now       func() time.Time
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() Store {
	return &memoryStore{
		snapshots: make(map[string]*Snapshot),
		now:       time.Now,
	}
}

func (m *memoryStore) Replace(resource string, records []record.Record, hash string) *Snapshot {
	snap := &Snapshot{
		Resource:  resource,
		Records:   slices.Clone(records),
		Hash:      hash,
		FetchedAt: m.now(),
	}
	if snap.Records == nil {
		snap.Records = []record.Record{}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if prev, ok := m.snapshots[resource]; ok {
		snap.Version = prev.Version + 1
	} else {
		snap.Version = 1
	}
	m.snapshots[resource] = snap
	return snap
}

func (m *memoryStore) Get(resource string) (*Snapshot, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap, ok := m.snapshots[resource]
	return snap, ok
}

func (m *memoryStore) Resources() []string {
	m.mu.RLock()
	names := make([]string, 0, len(m.snapshots))
	for name := range m.snapshots {
		names = append(names, name)
	}
	m.mu.RUnlock()
	sort.Strings(names)
	return names
}
