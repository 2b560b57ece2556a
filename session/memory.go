package session

import (
	"context"
	"sync"

	"github.com/ray-remotestate/comandas/models"
)

type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]Data
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]Data)}
}

func (s *MemoryStore) Get(_ context.Context, id string) (Data, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.data[id]), nil
}

func (s *MemoryStore) Save(_ context.Context, id string, data Data) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[id] = clone(data)
	return nil
}

// clone keeps callers from sharing slices with the stored copy.
func clone(d Data) Data {
	out := Data{}
	if len(d.Cart.Entries) > 0 {
		out.Cart.Entries = append([]models.CartEntry(nil), d.Cart.Entries...)
	}
	if len(d.Flashes) > 0 {
		out.Flashes = append([]string(nil), d.Flashes...)
	}
	return out
}
