package mock

import (
	"context"

	corpus "github.com/pulibrary/corpus-generator"
)

var _ corpus.CatalogService = (*CatalogService)(nil)

// CatalogService is a mock implementation of corpus.CatalogService.
type CatalogService struct {
	CreateRunFn       func(ctx context.Context, run *corpus.Run) error
	FinishRunFn       func(ctx context.Context, id string, issues, failed int) error
	FindRunsFn        func(ctx context.Context, limit int) ([]*corpus.Run, error)
	CreateEntryFn     func(ctx context.Context, entry *corpus.Entry) error
	FindEntriesFn     func(ctx context.Context, filter corpus.EntryFilter) ([]*corpus.Entry, error)
	FindLatestEntryFn func(ctx context.Context, issueDir string) (*corpus.Entry, error)
}

func (s *CatalogService) CreateRun(ctx context.Context, run *corpus.Run) error {
	return s.CreateRunFn(ctx, run)
}

func (s *CatalogService) FinishRun(ctx context.Context, id string, issues, failed int) error {
	return s.FinishRunFn(ctx, id, issues, failed)
}

func (s *CatalogService) FindRuns(ctx context.Context, limit int) ([]*corpus.Run, error) {
	return s.FindRunsFn(ctx, limit)
}

func (s *CatalogService) CreateEntry(ctx context.Context, entry *corpus.Entry) error {
	return s.CreateEntryFn(ctx, entry)
}

func (s *CatalogService) FindEntries(ctx context.Context, filter corpus.EntryFilter) ([]*corpus.Entry, error) {
	return s.FindEntriesFn(ctx, filter)
}

func (s *CatalogService) FindLatestEntry(ctx context.Context, issueDir string) (*corpus.Entry, error) {
	return s.FindLatestEntryFn(ctx, issueDir)
}
