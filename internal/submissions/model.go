package submissions

import "time"

const (
	StatusCompleted    = "completed"
	StatusFailed       = "failed"
	StatusRenderFailed = "render_failed"
)

// Submission is the ledger row for one profile request. Only metadata is
// kept; the generated text and the free-text answers are never stored.
type Submission struct {
	ID            string    `json:"id"`
	Role          string    `json:"role"`
	Seniority     string    `json:"seniority"`
	TeamSize      int       `json:"teamSize"`
	Provider      string    `json:"provider"`
	Model         string    `json:"model"`
	PromptVersion string    `json:"promptVersion"`
	PromptHash    string    `json:"promptHash"`
	Status        string    `json:"status"`
	ErrorKind     string    `json:"errorKind,omitempty"`
	DocumentKey   string    `json:"documentKey,omitempty"`
	DocumentPages int       `json:"documentPages,omitempty"`
	DurationMs    int64     `json:"durationMs"`
	CreatedAt     time.Time `json:"createdAt"`
}

// HasDocument reports whether a rendered PDF was stored for the submission.
func (s Submission) HasDocument() bool {
	return s.DocumentKey != ""
}
