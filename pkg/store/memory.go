package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/mhuels/gridpack/pkg/dashboard"
)

// MemoryStore keeps dashboards in an in-process map.
// Intended for development and tests; contents are lost on exit.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]*dashboard.Dashboard
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]*dashboard.Dashboard)}
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*dashboard.Dashboard, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.docs[id]
	if !ok {
		return nil, fmt.Errorf("dashboard %s: %w", id, ErrNotFound)
	}
	return d.Clone(), nil
}

func (s *MemoryStore) Put(ctx context.Context, d *dashboard.Dashboard) error {
	if d.ID == "" {
		return fmt.Errorf("dashboard id is empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Stored copies never alias caller memory.
	s.docs[d.ID] = d.Clone()
	return nil
}

func (s *MemoryStore) List(ctx context.Context) ([]*dashboard.Dashboard, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*dashboard.Dashboard, 0, len(s.docs))
	for _, d := range s.docs {
		out = append(out, d.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[id]; !ok {
		return fmt.Errorf("dashboard %s: %w", id, ErrNotFound)
	}
	delete(s.docs, id)
	return nil
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
