package documents

import "context"

// Repo defines persistence operations for uploaded documents.
type Repo interface {
	Create(ctx context.Context, doc Document) error
	GetByID(ctx context.Context, ownerID, documentID string) (Document, error)
	GetLatestByOwner(ctx context.Context, ownerID string) (Document, error)
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]Document, error)
	Delete(ctx context.Context, ownerID, documentID string) error
}
