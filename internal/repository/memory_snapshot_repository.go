package repository

import (
	"context"
	"slices"
	"sync"
	"time"
)

// MemorySnapshotRepository keeps snapshots for the life of the process.
type MemorySnapshotRepository struct {
	mu    sync.RWMutex
	items map[string]Snapshot
	now   func() time.Time
}

func NewMemorySnapshotRepository() *MemorySnapshotRepository {
	return &MemorySnapshotRepository{items: make(map[string]Snapshot), now: time.Now}
}

var _ SnapshotRepository = (*MemorySnapshotRepository)(nil)

func (r *MemorySnapshotRepository) Save(_ context.Context, key string, payload []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[key] = Snapshot{Key: key, Payload: slices.Clone(payload), SavedAt: r.now()}
	return nil
}

func (r *MemorySnapshotRepository) Load(_ context.Context, key string) (*Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.items[key]
	if !ok {
		return nil, ErrNotFound
	}
	s.Payload = slices.Clone(s.Payload)
	return &s, nil
}
