package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	corpus "github.com/pulibrary/corpus-generator"
)

// Compile-time interface verification.
var _ corpus.CatalogService = (*CatalogService)(nil)

// CatalogService implements corpus.CatalogService using SQLite.
type CatalogService struct {
	db *DB
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(db *DB) *CatalogService {
	return &CatalogService{db: db}
}

// CreateRun creates a new run.
func (s *CatalogService) CreateRun(ctx context.Context, run *corpus.Run) error {
	if err := run.Validate(); err != nil {
		return err
	}

	run.ID = uuid.New().String()
	run.StartedAt = time.Now().UTC().Truncate(time.Second)
	run.FinishedAt = time.Time{}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, input_root, issues, failed, started_at)
		VALUES (?, ?, ?, ?, ?)
	`, run.ID, run.InputRoot, run.Issues, run.Failed, formatTime(run.StartedAt))

	return err
}

// FinishRun stores the final counts of a run and marks it finished.
func (s *CatalogService) FinishRun(ctx context.Context, id string, issues, failed int) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE runs SET issues = ?, failed = ?, finished_at = ?
		WHERE id = ?
	`, issues, failed, formatTime(time.Now()), id)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return corpus.Errorf(corpus.ENOTFOUND, "run not found")
	}
	return nil
}

// FindRuns retrieves runs, most recent first. A limit of zero returns all runs.
func (s *CatalogService) FindRuns(ctx context.Context, limit int) ([]*corpus.Run, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`
		SELECT id, input_root, issues, failed, started_at, finished_at
		FROM runs
		ORDER BY started_at DESC, rowid DESC`)
	appendPagination(&query, &args, limit, 0)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*corpus.Run
	for rows.Next() {
		var run corpus.Run
		var startedAt, finishedAt string

		if err := rows.Scan(&run.ID, &run.InputRoot, &run.Issues, &run.Failed, &startedAt, &finishedAt); err != nil {
			return nil, err
		}
		if run.StartedAt, err = parseRFC3339(startedAt, "started_at"); err != nil {
			return nil, err
		}
		if run.FinishedAt, err = parseRFC3339(finishedAt, "finished_at"); err != nil {
			return nil, err
		}

		runs = append(runs, &run)
	}

	return runs, rows.Err()
}

// CreateEntry records the outcome of one issue.
// Returns ENOTFOUND if the entry's run does not exist.
func (s *CatalogService) CreateEntry(ctx context.Context, entry *corpus.Entry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	var exists int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM runs WHERE id = ?", entry.RunID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return corpus.Errorf(corpus.ENOTFOUND, "run not found")
	} else if err != nil {
		return err
	}

	entry.ID = uuid.New().String()
	entry.CreatedAt = time.Now().UTC().Truncate(time.Second)

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO entries (id, run_id, issue_dir, source_hash, output_path, date, articles, content_hash, status, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.RunID, entry.IssueDir, entry.SourceHash, entry.OutputPath, entry.Date,
		entry.Articles, entry.ContentHash, string(entry.Status), entry.Error, formatTime(entry.CreatedAt))

	return err
}

const entryColumns = `id, run_id, issue_dir, source_hash, output_path, date, articles, content_hash, status, error, created_at`

// FindEntries retrieves entries matching the filter in insertion order.
func (s *CatalogService) FindEntries(ctx context.Context, filter corpus.EntryFilter) ([]*corpus.Entry, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + entryColumns + " FROM entries WHERE 1=1")

	if filter.RunID != nil {
		query.WriteString(" AND run_id = ?")
		args = append(args, *filter.RunID)
	}
	if filter.IssueDir != nil {
		query.WriteString(" AND issue_dir = ?")
		args = append(args, *filter.IssueDir)
	}
	if filter.Status != nil {
		query.WriteString(" AND status = ?")
		args = append(args, string(*filter.Status))
	}

	query.WriteString(" ORDER BY seq ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*corpus.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// FindLatestEntry returns the most recent ok or failed entry for an issue.
func (s *CatalogService) FindLatestEntry(ctx context.Context, issueDir string) (*corpus.Entry, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+entryColumns+`
		FROM entries
		WHERE issue_dir = ? AND status != ?
		ORDER BY seq DESC
		LIMIT 1
	`, issueDir, string(corpus.StatusSkipped))

	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, corpus.Errorf(corpus.ENOTFOUND, "no entry for issue %s", issueDir)
	}
	return entry, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (*corpus.Entry, error) {
	var entry corpus.Entry
	var status, createdAt string

	if err := row.Scan(&entry.ID, &entry.RunID, &entry.IssueDir, &entry.SourceHash, &entry.OutputPath,
		&entry.Date, &entry.Articles, &entry.ContentHash, &status, &entry.Error, &createdAt); err != nil {
		return nil, err
	}
	entry.Status = corpus.Status(status)

	var err error
	if entry.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}
	return &entry, nil
}
