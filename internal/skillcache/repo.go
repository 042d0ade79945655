package skillcache

import "context"

// Repo stores raw JSON values per owner and key.
type Repo interface {
	Get(ctx context.Context, ownerID, key string) ([]byte, error)
	Put(ctx context.Context, ownerID, key string, value []byte) error
	DeleteOwner(ctx context.Context, ownerID string) error
}
