// Package slog provides logging decorators for corpus services.
package slog

import (
	"context"
	"log/slog"
	"time"

	corpus "github.com/pulibrary/corpus-generator"
)

// Ensure LoggingIssueSource implements corpus.IssueSource.
var _ corpus.IssueSource = (*LoggingIssueSource)(nil)

// LoggingIssueSource wraps an IssueSource with logging.
type LoggingIssueSource struct {
	next   corpus.IssueSource
	logger *slog.Logger
}

// NewLoggingIssueSource creates a new LoggingIssueSource.
func NewLoggingIssueSource(next corpus.IssueSource, logger *slog.Logger) *LoggingIssueSource {
	return &LoggingIssueSource{next: next, logger: logger}
}

// Discover delegates to the wrapped source and logs the operation.
func (s *LoggingIssueSource) Discover(ctx context.Context, root string) (refs []*corpus.IssueRef, err error) {
	defer func(begin time.Time) {
		s.logger.Info("issue discovery",
			"root", root,
			"count", len(refs),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Discover(ctx, root)
}

// Ensure LoggingIssueReader implements corpus.IssueReader.
var _ corpus.IssueReader = (*LoggingIssueReader)(nil)

// LoggingIssueReader wraps an IssueReader with debug logging.
type LoggingIssueReader struct {
	next   corpus.IssueReader
	logger *slog.Logger
}

// NewLoggingIssueReader creates a new LoggingIssueReader.
func NewLoggingIssueReader(next corpus.IssueReader, logger *slog.Logger) *LoggingIssueReader {
	return &LoggingIssueReader{next: next, logger: logger}
}

// ReadIssue delegates to the wrapped reader and logs the operation.
func (r *LoggingIssueReader) ReadIssue(ctx context.Context, dir string) (issue *corpus.Issue, err error) {
	defer func(begin time.Time) {
		attrs := []any{"dir", dir}
		if issue != nil {
			attrs = append(attrs, "articles", issue.Articles())
			if issue.Date != nil {
				attrs = append(attrs, "date", *issue.Date)
			}
		}
		attrs = append(attrs, "duration", time.Since(begin))
		if err != nil {
			r.logger.Warn("read issue", append(attrs, "err", err)...)
			return
		}
		r.logger.Debug("read issue", attrs...)
	}(time.Now())
	return r.next.ReadIssue(ctx, dir)
}

// Ensure LoggingIssueWriter implements corpus.IssueWriter.
var _ corpus.IssueWriter = (*LoggingIssueWriter)(nil)

// LoggingIssueWriter wraps an IssueWriter with logging.
type LoggingIssueWriter struct {
	next   corpus.IssueWriter
	logger *slog.Logger
}

// NewLoggingIssueWriter creates a new LoggingIssueWriter.
func NewLoggingIssueWriter(next corpus.IssueWriter, logger *slog.Logger) *LoggingIssueWriter {
	return &LoggingIssueWriter{next: next, logger: logger}
}

// WriteIssue delegates to the wrapped writer and logs the operation.
func (w *LoggingIssueWriter) WriteIssue(ctx context.Context, relDir string, issue *corpus.Issue) (out *corpus.Output, err error) {
	defer func(begin time.Time) {
		attrs := []any{"dir", relDir}
		if out != nil {
			attrs = append(attrs, "path", out.Path, "records", out.Records, "bytes", out.Bytes)
		}
		w.logger.Info("write issue", append(attrs, "duration", time.Since(begin), "err", err)...)
	}(time.Now())
	return w.next.WriteIssue(ctx, relDir, issue)
}
