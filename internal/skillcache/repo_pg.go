package skillcache

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// PGRepo implements Repo on the skill_cache table.
type PGRepo struct {
	DB  *sql.DB
	Now func() time.Time
}

func (r *PGRepo) Get(ctx context.Context, ownerID, key string) ([]byte, error) {
	const query = `SELECT value FROM skill_cache WHERE owner_id = $1 AND cache_key = $2`
	var raw []byte
	if err := r.DB.QueryRowContext(ctx, query, ownerID, key).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return raw, nil
}

func (r *PGRepo) Put(ctx context.Context, ownerID, key string, value []byte) error {
	const query = `
INSERT INTO skill_cache (owner_id, cache_key, value, updated_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (owner_id, cache_key)
DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	_, err := r.DB.ExecContext(ctx, query, ownerID, key, value, now().UTC())
	return err
}

func (r *PGRepo) DeleteOwner(ctx context.Context, ownerID string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM skill_cache WHERE owner_id = $1`, ownerID)
	return err
}

var _ Repo = (*PGRepo)(nil)
