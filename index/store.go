package index

import (
	"sync"

	"github.com/opd-ai/vidstego/av/video"
)

// Store persists one frame selection.
type Store interface {
	// Put replaces the stored selection.
	Put(sel video.Selection) error
	// Get returns the stored selection in its original order.
	Get() (video.Selection, error)
}

// MemoryStore keeps a selection in memory.
type MemoryStore struct {
	mu  sync.RWMutex
	sel video.Selection
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Put stores a copy of sel.
func (m *MemoryStore) Put(sel video.Selection) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sel = sel.Clone()
	return nil
}

// Get returns a copy of the stored selection, or ErrNoIndex.
func (m *MemoryStore) Get() (video.Selection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.sel == nil {
		return nil, ErrNoIndex
	}
	return m.sel.Clone(), nil
}
