package mock

import (
	"context"

	corpus "github.com/pulibrary/corpus-generator"
)

var _ corpus.IssueSource = (*IssueSource)(nil)

// IssueSource is a mock implementation of corpus.IssueSource.
type IssueSource struct {
	DiscoverFn func(ctx context.Context, root string) ([]*corpus.IssueRef, error)
}

func (s *IssueSource) Discover(ctx context.Context, root string) ([]*corpus.IssueRef, error) {
	return s.DiscoverFn(ctx, root)
}

var _ corpus.IssueReader = (*IssueReader)(nil)

// IssueReader is a mock implementation of corpus.IssueReader.
type IssueReader struct {
	ReadIssueFn func(ctx context.Context, dir string) (*corpus.Issue, error)
}

func (r *IssueReader) ReadIssue(ctx context.Context, dir string) (*corpus.Issue, error) {
	return r.ReadIssueFn(ctx, dir)
}

var _ corpus.IssueWriter = (*IssueWriter)(nil)

// IssueWriter is a mock implementation of corpus.IssueWriter.
type IssueWriter struct {
	WriteIssueFn func(ctx context.Context, relDir string, issue *corpus.Issue) (*corpus.Output, error)
}

func (w *IssueWriter) WriteIssue(ctx context.Context, relDir string, issue *corpus.Issue) (*corpus.Output, error) {
	return w.WriteIssueFn(ctx, relDir, issue)
}
