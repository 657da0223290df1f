package corpus

import (
	"context"
	"path/filepath"
	"strings"
)

// StructureSuffix is the file name suffix identifying an issue's METS
// structure document.
const StructureSuffix = "METS.xml"

// Issue represents a resolved newspaper issue.
type Issue struct {
	Dir      string
	METSPath string
	Date     *string
	Records  []*Record
}

// Name returns the base name used for the issue's output stream: the
// structure document's file name without its "-METS.xml" suffix.
func (i *Issue) Name() string {
	name := filepath.Base(i.METSPath)
	name = strings.TrimSuffix(name, "-"+StructureSuffix)
	name = strings.TrimSuffix(name, StructureSuffix)
	if name == "" || name == "." {
		return "issue"
	}
	return name
}

// Articles returns the number of records in the issue.
func (i *Issue) Articles() int {
	return len(i.Records)
}

// IssueRef locates one issue found during discovery.
type IssueRef struct {
	Dir        string
	RelDir     string // Dir relative to the discovery root
	METSPath   string
	SourceHash string // hash of the structure document's bytes
}

// Output describes one written issue stream.
type Output struct {
	Path    string
	Records int
	Bytes   int64
	Hash    string
}

// IssueSource discovers issue directories below a root directory.
type IssueSource interface {
	// Discover returns one reference per directory holding a structure
	// document, in a deterministic order.
	Discover(ctx context.Context, root string) ([]*IssueRef, error)
}

// IssueReader resolves an issue directory into its article records.
type IssueReader interface {
	// ReadIssue resolves every article of the issue stored in dir.
	// Returns ENOTFOUND if dir holds no structure document.
	ReadIssue(ctx context.Context, dir string) (*Issue, error)
}

// IssueWriter persists an issue's records as one stream.
type IssueWriter interface {
	// WriteIssue writes the issue below relDir and reports what was written.
	WriteIssue(ctx context.Context, relDir string, issue *Issue) (*Output, error)
}
