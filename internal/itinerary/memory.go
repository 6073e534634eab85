package itinerary

import (
	"context"
	"slices"
	"sync"

	"github.com/pkordes/tourbook/internal/domain"
)

// MemoryPersister keeps snapshots in process memory.
// It backs PERSISTENCE_BACKEND=memory and stands in for real backends in tests.
type MemoryPersister struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewMemoryPersister returns an empty MemoryPersister.
func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{data: map[string][]byte{}}
}

func (p *MemoryPersister) Load(_ context.Context, key string) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	d, ok := p.data[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return slices.Clone(d), nil
}

func (p *MemoryPersister) Save(_ context.Context, key string, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.data[key] = slices.Clone(data)
	return nil
}

// Len returns the number of stored keys.
func (p *MemoryPersister) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.data)
}
