package resumes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"careerprep-backend/resume/model"
)

// PGDraftRepo implements DraftRepo using Postgres. The document is stored as jsonb.
type PGDraftRepo struct {
	DB *sql.DB
}

const draftColumns = `id, owner_id, template_id, data, created_at, updated_at`

func (r *PGDraftRepo) Create(ctx context.Context, draft Draft) error {
	data, err := json.Marshal(draft.Data)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	const query = `
INSERT INTO resume_drafts (` + draftColumns + `)
VALUES ($1, $2, $3, $4, $5, $6)`
	_, err = r.DB.ExecContext(ctx, query,
		draft.ID,
		draft.OwnerID,
		draft.TemplateID,
		data,
		draft.CreatedAt,
		draft.UpdatedAt,
	)
	return err
}

func (r *PGDraftRepo) Get(ctx context.Context, ownerID, draftID string) (Draft, error) {
	const query = `
SELECT ` + draftColumns + `
FROM resume_drafts
WHERE owner_id = $1 AND id = $2`
	return scanDraft(r.DB.QueryRowContext(ctx, query, ownerID, draftID))
}

func (r *PGDraftRepo) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]Draft, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
SELECT ` + draftColumns + `
FROM resume_drafts
WHERE owner_id = $1
ORDER BY updated_at DESC
LIMIT $2 OFFSET $3`
	rows, err := r.DB.QueryContext(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Draft{}
	for rows.Next() {
		draft, err := scanDraft(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, draft)
	}
	return out, rows.Err()
}

func (r *PGDraftRepo) Update(ctx context.Context, draft Draft) error {
	data, err := json.Marshal(draft.Data)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	const query = `
UPDATE resume_drafts
SET template_id = $3, data = $4, updated_at = $5
WHERE owner_id = $1 AND id = $2`
	res, err := r.DB.ExecContext(ctx, query, draft.OwnerID, draft.ID, draft.TemplateID, data, draft.UpdatedAt)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGDraftRepo) Delete(ctx context.Context, ownerID, draftID string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM resume_drafts WHERE owner_id = $1 AND id = $2`, ownerID, draftID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDraft(row rowScanner) (Draft, error) {
	var draft Draft
	var data []byte
	err := row.Scan(
		&draft.ID,
		&draft.OwnerID,
		&draft.TemplateID,
		&data,
		&draft.CreatedAt,
		&draft.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Draft{}, ErrNotFound
		}
		return Draft{}, err
	}
	doc := model.New()
	if len(data) > 0 {
		if err := json.Unmarshal(data, &doc); err != nil {
			return Draft{}, fmt.Errorf("decode draft %s: %w", draft.ID, err)
		}
	}
	doc.Normalize()
	draft.Data = doc
	return draft, nil
}

// PGJobRepo implements JobRepo using Postgres.
type PGJobRepo struct {
	DB *sql.DB
}

const jobColumns = `id, owner_id, document_id, draft_id, status, source, error_code, error_message, created_at, started_at, completed_at`

func (r *PGJobRepo) Create(ctx context.Context, job ParseJob) error {
	const query = `
INSERT INTO parse_jobs (` + jobColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.DB.ExecContext(ctx, query,
		job.ID,
		job.OwnerID,
		job.DocumentID,
		nullString(job.DraftID),
		job.Status,
		job.Source,
		nullString(job.ErrorCode),
		nullString(job.ErrorMessage),
		job.CreatedAt,
		nullTime(job.StartedAt),
		nullTime(job.CompletedAt),
	)
	return err
}

func (r *PGJobRepo) Get(ctx context.Context, ownerID, jobID string) (ParseJob, error) {
	const query = `
SELECT ` + jobColumns + `
FROM parse_jobs
WHERE owner_id = $1 AND id = $2`
	var (
		job                    ParseJob
		draftID, code, message sql.NullString
		startedAt, completedAt sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx, query, ownerID, jobID).Scan(
		&job.ID,
		&job.OwnerID,
		&job.DocumentID,
		&draftID,
		&job.Status,
		&job.Source,
		&code,
		&message,
		&job.CreatedAt,
		&startedAt,
		&completedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ParseJob{}, ErrNotFound
		}
		return ParseJob{}, err
	}
	job.DraftID = draftID.String
	job.ErrorCode = code.String
	job.ErrorMessage = message.String
	if startedAt.Valid {
		t := startedAt.Time
		job.StartedAt = &t
	}
	if completedAt.Valid {
		t := completedAt.Time
		job.CompletedAt = &t
	}
	return job, nil
}

func (r *PGJobRepo) Update(ctx context.Context, job ParseJob) error {
	const query = `
UPDATE parse_jobs
SET status = $3, source = $4, error_code = $5, error_message = $6, started_at = $7, completed_at = $8
WHERE owner_id = $1 AND id = $2`
	res, err := r.DB.ExecContext(ctx, query,
		job.OwnerID,
		job.ID,
		job.Status,
		job.Source,
		nullString(job.ErrorCode),
		nullString(job.ErrorMessage),
		nullTime(job.StartedAt),
		nullTime(job.CompletedAt),
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

var (
	_ DraftRepo = (*PGDraftRepo)(nil)
	_ JobRepo   = (*PGJobRepo)(nil)
)
