package resumes

import (
	"context"
	"sort"
	"sync"
)

// MemoryDraftRepo is an in-memory DraftRepo.
type MemoryDraftRepo struct {
	mu   sync.RWMutex
	data map[string]Draft
}

// NewMemoryDraftRepo constructs a MemoryDraftRepo.
func NewMemoryDraftRepo() *MemoryDraftRepo {
	return &MemoryDraftRepo{data: make(map[string]Draft)}
}

func (r *MemoryDraftRepo) Create(ctx context.Context, draft Draft) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	draft.Data = draft.Data.Clone()
	r.data[draft.ID] = draft
	return nil
}

func (r *MemoryDraftRepo) Get(ctx context.Context, ownerID, draftID string) (Draft, error) {
	if err := ctx.Err(); err != nil {
		return Draft{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	draft, ok := r.data[draftID]
	if !ok || draft.OwnerID != ownerID {
		return Draft{}, ErrNotFound
	}
	draft.Data = draft.Data.Clone()
	return draft, nil
}

func (r *MemoryDraftRepo) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]Draft, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := []Draft{}
	for _, draft := range r.data {
		if draft.OwnerID == ownerID {
			draft.Data = draft.Data.Clone()
			out = append(out, draft)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	if offset < 0 {
		offset = 0
	}
	if offset >= len(out) {
		return []Draft{}, nil
	}
	end := len(out)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return out[offset:end], nil
}

func (r *MemoryDraftRepo) Update(ctx context.Context, draft Draft) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.data[draft.ID]
	if !ok || existing.OwnerID != draft.OwnerID {
		return ErrNotFound
	}
	draft.CreatedAt = existing.CreatedAt
	draft.Data = draft.Data.Clone()
	r.data[draft.ID] = draft
	return nil
}

func (r *MemoryDraftRepo) Delete(ctx context.Context, ownerID, draftID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	draft, ok := r.data[draftID]
	if !ok || draft.OwnerID != ownerID {
		return ErrNotFound
	}
	delete(r.data, draftID)
	return nil
}

// MemoryJobRepo is an in-memory JobRepo.
type MemoryJobRepo struct {
	mu   sync.RWMutex
	data map[string]ParseJob
}

// NewMemoryJobRepo constructs a MemoryJobRepo.
func NewMemoryJobRepo() *MemoryJobRepo {
	return &MemoryJobRepo{data: make(map[string]ParseJob)}
}

func (r *MemoryJobRepo) Create(ctx context.Context, job ParseJob) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[job.ID] = job
	return nil
}

func (r *MemoryJobRepo) Get(ctx context.Context, ownerID, jobID string) (ParseJob, error) {
	if err := ctx.Err(); err != nil {
		return ParseJob{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	job, ok := r.data[jobID]
	if !ok || job.OwnerID != ownerID {
		return ParseJob{}, ErrNotFound
	}
	return job, nil
}

func (r *MemoryJobRepo) Update(ctx context.Context, job ParseJob) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[job.ID]; !ok {
		return ErrNotFound
	}
	r.data[job.ID] = job
	return nil
}

var (
	_ DraftRepo = (*MemoryDraftRepo)(nil)
	_ JobRepo   = (*MemoryJobRepo)(nil)
)
