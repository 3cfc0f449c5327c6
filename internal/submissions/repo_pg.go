package submissions

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new submission.
func (r *PGRepo) Create(ctx context.Context, sub Submission) error {
	const query = `
INSERT INTO profile_submissions (
	id, role, seniority, team_size, provider, model, prompt_version, prompt_hash,
	status, error_kind, document_key, document_pages, duration_ms, created_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.DB.ExecContext(ctx, query,
		sub.ID,
		sub.Role,
		sub.Seniority,
		sub.TeamSize,
		sub.Provider,
		sub.Model,
		sub.PromptVersion,
		sub.PromptHash,
		sub.Status,
		nullString(sub.ErrorKind),
		nullString(sub.DocumentKey),
		sub.DocumentPages,
		sub.DurationMs,
		sub.CreatedAt,
	)
	return err
}

// GetByID returns a submission by ID.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Submission, error) {
	const query = `
SELECT id, role, seniority, team_size, provider, model, prompt_version, prompt_hash,
       status, error_kind, document_key, document_pages, duration_ms, created_at
FROM profile_submissions
WHERE id = $1
LIMIT 1`
	var sub Submission
	var errorKind, documentKey sql.NullString
	var documentPages sql.NullInt64
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&sub.ID,
		&sub.Role,
		&sub.Seniority,
		&sub.TeamSize,
		&sub.Provider,
		&sub.Model,
		&sub.PromptVersion,
		&sub.PromptHash,
		&sub.Status,
		&errorKind,
		&documentKey,
		&documentPages,
		&sub.DurationMs,
		&sub.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Submission{}, ErrNotFound
		}
		return Submission{}, err
	}
	sub.ErrorKind = errorKind.String
	sub.DocumentKey = documentKey.String
	sub.DocumentPages = int(documentPages.Int64)
	return sub, nil
}

func nullString(v string) any {
	if v == "" {
		return nil
	}
	return v
}
