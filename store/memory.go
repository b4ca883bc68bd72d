package store

import (
	"context"
	"maps"
	"sync"

	"github.com/stevemurr/media-library/media"
)

// MemoryStore keeps the collection in memory. Data is lost on restart.
// Safe for concurrent use.
type MemoryStore struct {
	mu   sync.RWMutex
	coll media.Collection
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{coll: media.Collection{}}
}

// Load returns a copy, so callers mutating it do not touch stored state.
func (m *MemoryStore) Load(_ context.Context) (media.Collection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return maps.Clone(m.coll), nil
}

func (m *MemoryStore) Save(_ context.Context, c media.Collection) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c == nil {
		c = media.Collection{}
	}
	m.coll = maps.Clone(c)
	return nil
}

func (m *MemoryStore) Close() error { return nil }
