package fs

import (
	"bufio"
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	corpus "github.com/pulibrary/corpus-generator"
	"github.com/segmentio/encoding/json"
)

// OutputExt is the file extension of issue streams.
const OutputExt = ".jsonl"

// WriteRecords encodes records to w as JSON lines, one record per line.
func WriteRecords(w io.Writer, records []*corpus.Record) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, r := range records {
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	return nil
}

// Ensure Writer implements corpus.IssueWriter at compile time.
var _ corpus.IssueWriter = (*Writer)(nil)

// Writer writes issues as JSON lines files below a base directory.
// Files are written to a temporary name and renamed into place, so a
// reader never observes a partially written stream.
type Writer struct {
	baseDir string
}

// NewWriter creates a new Writer that writes to the given base directory.
func NewWriter(baseDir string) *Writer {
	return &Writer{baseDir: baseDir}
}

// Path returns the output path of an issue written below relDir.
func (w *Writer) Path(relDir string, issue *corpus.Issue) string {
	return filepath.Join(w.baseDir, relDir, issue.Name()+OutputExt)
}

// WriteIssue writes issue to <baseDir>/<relDir>/<name>.jsonl, replacing any
// existing file.
func (w *Writer) WriteIssue(ctx context.Context, relDir string, issue *corpus.Issue) (*corpus.Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if issue == nil || issue.METSPath == "" {
		return nil, corpus.Errorf(corpus.EINVALID, "issue structure document path required")
	}
	if relDir == "" {
		relDir = "."
	}
	if !filepath.IsLocal(relDir) {
		return nil, corpus.Errorf(corpus.EINVALID, "output directory %q escapes %s", relDir, w.baseDir)
	}

	path := w.Path(relDir, issue)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	h := xxhash.New()
	buf := bufio.NewWriter(tmp)
	if err := WriteRecords(io.MultiWriter(buf, h), issue.Records); err != nil {
		return nil, err
	}
	if err := buf.Flush(); err != nil {
		return nil, err
	}
	info, err := tmp.Stat()
	if err != nil {
		return nil, err
	}
	if err := tmp.Chmod(0644); err != nil {
		return nil, err
	}
	if err := tmp.Close(); err != nil {
		return nil, err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return nil, err
	}
	committed = true

	return &corpus.Output{
		Path:    path,
		Records: len(issue.Records),
		Bytes:   info.Size(),
		Hash:    formatHash(h.Sum64()),
	}, nil
}
