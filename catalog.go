package corpus

import (
	"context"
	"time"
)

// Status is the outcome of processing one issue.
type Status string

// Status values recorded in the catalog.
const (
	StatusOK      Status = "ok"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// Run represents one invocation of the corpus builder.
type Run struct {
	ID         string    `json:"id"`
	InputRoot  string    `json:"inputRoot"`
	Issues     int       `json:"issues"`
	Failed     int       `json:"failed"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
}

// Validate returns an error if the run contains invalid fields.
func (r *Run) Validate() error {
	if r.InputRoot == "" {
		return Errorf(EINVALID, "run input root required")
	}
	return nil
}

// Entry records the outcome of one issue within a run.
type Entry struct {
	ID          string    `json:"id"`
	RunID       string    `json:"runId"`
	IssueDir    string    `json:"issueDir"`
	SourceHash  string    `json:"sourceHash"`
	OutputPath  string    `json:"outputPath"`
	Date        string    `json:"date"`
	Articles    int       `json:"articles"`
	ContentHash string    `json:"contentHash"`
	Status      Status    `json:"status"`
	Error       string    `json:"error"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Validate returns an error if the entry contains invalid fields.
func (e *Entry) Validate() error {
	if e.RunID == "" {
		return Errorf(EINVALID, "entry run ID required")
	}
	if e.IssueDir == "" {
		return Errorf(EINVALID, "entry issue directory required")
	}
	switch e.Status {
	case StatusOK, StatusFailed, StatusSkipped:
	default:
		return Errorf(EINVALID, "entry status %q invalid", e.Status)
	}
	return nil
}

// EntryFilter represents a filter for FindEntries.
type EntryFilter struct {
	RunID    *string `json:"runId"`
	IssueDir *string `json:"issueDir"`
	Status   *Status `json:"status"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// CatalogService records builder runs and per-issue outcomes.
type CatalogService interface {
	// CreateRun starts a new run, assigning its ID and start time.
	CreateRun(ctx context.Context, run *Run) error

	// FinishRun stores the final counts of a run.
	// Returns ENOTFOUND if run does not exist.
	FinishRun(ctx context.Context, id string, issues, failed int) error

	// FindRuns returns runs, most recent first.
	FindRuns(ctx context.Context, limit int) ([]*Run, error)

	// CreateEntry records the outcome of one issue.
	CreateEntry(ctx context.Context, entry *Entry) error

	// FindEntries retrieves entries matching the filter in insertion order.
	FindEntries(ctx context.Context, filter EntryFilter) ([]*Entry, error)

	// FindLatestEntry returns the most recent non-skipped entry for an issue.
	// Returns ENOTFOUND if the issue was never processed.
	FindLatestEntry(ctx context.Context, issueDir string) (*Entry, error)
}
