package resumes

import "context"

// DraftRepo persists drafts.
type DraftRepo interface {
	Create(ctx context.Context, draft Draft) error
	Get(ctx context.Context, ownerID, draftID string) (Draft, error)
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]Draft, error)
	Update(ctx context.Context, draft Draft) error
	Delete(ctx context.Context, ownerID, draftID string) error
}

// JobRepo persists parse jobs.
type JobRepo interface {
	Create(ctx context.Context, job ParseJob) error
	Get(ctx context.Context, ownerID, jobID string) (ParseJob, error)
	Update(ctx context.Context, job ParseJob) error
}
