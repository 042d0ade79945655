package skillcache

import (
	"context"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]map[string][]byte
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]map[string][]byte)}
}

func (r *MemoryRepo) Get(ctx context.Context, ownerID, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	val, ok := r.data[ownerID][key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), val...), nil
}

func (r *MemoryRepo) Put(ctx context.Context, ownerID, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	entries := r.data[ownerID]
	if entries == nil {
		entries = make(map[string][]byte)
		r.data[ownerID] = entries
	}
	entries[key] = append([]byte(nil), value...)
	return nil
}

func (r *MemoryRepo) DeleteOwner(ctx context.Context, ownerID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.data, ownerID)
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
