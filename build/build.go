// Package build turns a tree of newspaper issues into a JSONL corpus.
// It coordinates discovery, resolution, output and cataloguing of issues.
package build

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync/atomic"

	corpus "github.com/pulibrary/corpus-generator"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of issues processed at once when
// Builder.Concurrency is unset.
const DefaultConcurrency = 4

// Builder orchestrates the conversion of every issue below a root directory.
type Builder struct {
	Source      corpus.IssueSource
	Reader      corpus.IssueReader
	Writer      corpus.IssueWriter
	Catalog     corpus.CatalogService // optional
	Concurrency int

	// Resume skips issues whose latest catalog entry succeeded with the
	// same source hash and whose output still exists. Requires Catalog.
	Resume bool
}

// Result holds the outcome of a build.
type Result struct {
	RunID    string
	Issues   int
	Written  int
	Skipped  int
	Failed   int
	Articles int
	Bytes    int64
}

// ProgressEvent reports progress during a build.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	Dir       string
	Articles  int
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressSkipped
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting build progress. It is always
// called from the goroutine running Build.
type ProgressFunc func(event ProgressEvent)

// issueResult holds the outcome of processing a single issue.
type issueResult struct {
	position int
	ref      *corpus.IssueRef
	date     string
	output   *corpus.Output
	skipped  bool
	err      error
}

func (r *issueResult) status() corpus.Status {
	switch {
	case r.err != nil:
		return corpus.StatusFailed
	case r.skipped:
		return corpus.StatusSkipped
	default:
		return corpus.StatusOK
	}
}

// Build converts every issue below root. A failing issue is counted and
// reported but does not stop the others. Cancelling ctx stops scheduling
// new issues and returns ctx.Err().
func (b *Builder) Build(ctx context.Context, root string, progress ProgressFunc) (*Result, error) {
	if b.Resume && b.Catalog == nil {
		return nil, corpus.Errorf(corpus.EINVALID, "resume requires a catalog")
	}

	refs, err := b.Source.Discover(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("issue discovery: %w", err)
	}

	result := &Result{Issues: len(refs)}
	var run *corpus.Run
	if b.Catalog != nil {
		run = &corpus.Run{InputRoot: root}
		if err := b.Catalog.CreateRun(ctx, run); err != nil {
			return nil, fmt.Errorf("create run: %w", err)
		}
		result.RunID = run.ID
	}

	concurrency := b.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	resultCh := make(chan issueResult, len(refs))
	var completed atomic.Int64
	total := len(refs)

	if progress != nil {
		progress(ProgressEvent{
			Type:  ProgressStarted,
			Total: total,
		})
	}

	var g errgroup.Group
	g.SetLimit(concurrency)

	go func() {
		for i, ref := range refs {
			if ctx.Err() != nil {
				break
			}
			g.Go(func() error {
				resultCh <- b.processIssue(ctx, i, ref)
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	// Collect results, then restore discovery order.
	results := make([]*issueResult, len(refs))
	for r := range resultCh {
		n := int(completed.Add(1))
		results[r.position] = &r

		if progress == nil {
			continue
		}
		event := ProgressEvent{
			Completed: n,
			Total:     total,
			Dir:       r.ref.RelDir,
		}
		switch r.status() {
		case corpus.StatusFailed:
			event.Type = ProgressFailed
			event.Error = r.err
		case corpus.StatusSkipped:
			event.Type = ProgressSkipped
		default:
			event.Type = ProgressCompleted
			event.Articles = r.output.Records
		}
		progress(event)
	}

	for _, r := range results {
		if r == nil {
			continue
		}
		switch r.status() {
		case corpus.StatusFailed:
			result.Failed++
		case corpus.StatusSkipped:
			result.Skipped++
		default:
			result.Written++
			result.Articles += r.output.Records
			result.Bytes += r.output.Bytes
		}
	}

	if run != nil {
		// Record outcomes even when cancelled, so a resumed run can skip
		// what was already written.
		cctx := context.WithoutCancel(ctx)
		for _, r := range results {
			if r == nil || (ctx.Err() != nil && errors.Is(r.err, ctx.Err())) {
				continue
			}
			if err := b.Catalog.CreateEntry(cctx, newEntry(run.ID, r)); err != nil {
				return nil, fmt.Errorf("record %s: %w", r.ref.Dir, err)
			}
		}
		if err := b.Catalog.FinishRun(cctx, run.ID, result.Issues, result.Failed); err != nil {
			return nil, fmt.Errorf("finish run: %w", err)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if progress != nil {
		progress(ProgressEvent{
			Type:      ProgressFinished,
			Completed: total,
			Total:     total,
		})
	}

	return result, nil
}

// processIssue resolves and writes a single issue.
func (b *Builder) processIssue(ctx context.Context, position int, ref *corpus.IssueRef) issueResult {
	result := issueResult{
		position: position,
		ref:      ref,
	}
	if err := ctx.Err(); err != nil {
		result.err = err
		return result
	}

	if b.Resume {
		prev, ok, err := b.previous(ctx, ref)
		if err != nil {
			result.err = err
			return result
		}
		if ok {
			result.skipped = true
			result.date = prev.Date
			result.output = &corpus.Output{
				Path:    prev.OutputPath,
				Records: prev.Articles,
				Hash:    prev.ContentHash,
			}
			return result
		}
	}

	issue, err := b.Reader.ReadIssue(ctx, ref.Dir)
	if err != nil {
		result.err = err
		return result
	}
	if issue.Date != nil {
		result.date = *issue.Date
	}

	out, err := b.Writer.WriteIssue(ctx, ref.RelDir, issue)
	if err != nil {
		result.err = err
		return result
	}
	result.output = out
	return result
}

// previous returns the latest successful entry for ref if the issue is
// unchanged since and its output is still present.
func (b *Builder) previous(ctx context.Context, ref *corpus.IssueRef) (*corpus.Entry, bool, error) {
	entry, err := b.Catalog.FindLatestEntry(ctx, ref.Dir)
	if corpus.ErrorCode(err) == corpus.ENOTFOUND {
		return nil, false, nil
	} else if err != nil {
		return nil, false, err
	}

	if entry.Status != corpus.StatusOK || entry.SourceHash != ref.SourceHash {
		return nil, false, nil
	}
	if _, err := os.Stat(entry.OutputPath); errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	} else if err != nil {
		return nil, false, err
	}
	return entry, true, nil
}

func newEntry(runID string, r *issueResult) *corpus.Entry {
	entry := &corpus.Entry{
		RunID:      runID,
		IssueDir:   r.ref.Dir,
		SourceHash: r.ref.SourceHash,
		Date:       r.date,
		Status:     r.status(),
	}
	if r.output != nil {
		entry.OutputPath = r.output.Path
		entry.Articles = r.output.Records
		entry.ContentHash = r.output.Hash
	}
	if r.err != nil {
		entry.Error = r.err.Error()
	}
	return entry
}
