package submissions

import "context"

// Repo defines persistence operations for submissions.
type Repo interface {
	Create(ctx context.Context, sub Submission) error
	GetByID(ctx context.Context, id string) (Submission, error)
}
