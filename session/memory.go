package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps sessions in-process. Expired entries are swept lazily on
// read and in bulk on Put, so the map stays bounded by the active population.
type MemoryStore struct {
	mu   sync.RWMutex
	recs map[string]Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{recs: make(map[string]Record)}
}

func (m *MemoryStore) Put(_ context.Context, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	for id, r := range m.recs {
		if r.ExpiresAt.Before(now) {
			delete(m.recs, id)
		}
	}
	m.recs[rec.ID] = rec
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (*Record, error) {
	m.mu.RLock()
	rec, ok := m.recs[id]
	m.mu.RUnlock()
	if !ok || rec.ExpiresAt.Before(time.Now()) {
		return nil, ErrNotFound
	}
	out := rec
	return &out, nil
}

func (m *MemoryStore) Revoke(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.recs, id)
	m.mu.Unlock()
	return nil
}
