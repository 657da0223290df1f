// Package fs provides file-based discovery and output of issues.
package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
	corpus "github.com/pulibrary/corpus-generator"
)

// Ensure IssueSource implements corpus.IssueSource at compile time.
var _ corpus.IssueSource = (*IssueSource)(nil)

// IssueSource finds issue directories by walking a directory tree for
// structure documents.
type IssueSource struct{}

// NewIssueSource creates a new IssueSource.
func NewIssueSource() *IssueSource {
	return &IssueSource{}
}

// Discover walks root in lexical order and returns one reference per
// directory holding a file ending in corpus.StructureSuffix. The first such
// file of a directory becomes the reference's METSPath.
func (s *IssueSource) Discover(ctx context.Context, root string) ([]*corpus.IssueRef, error) {
	info, err := os.Stat(root)
	if errors.Is(err, iofs.ErrNotExist) {
		return nil, corpus.WrapError(corpus.ENOTFOUND, err, "input directory %s not found", root)
	} else if err != nil {
		return nil, corpus.WrapError(corpus.EACCESS, err, "reading input directory %s", root)
	} else if !info.IsDir() {
		return nil, corpus.Errorf(corpus.EINVALID, "input %s is not a directory", root)
	}

	var refs []*corpus.IssueRef
	seen := make(map[string]bool)
	err = filepath.WalkDir(root, func(path string, d iofs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), corpus.StructureSuffix) {
			return nil
		}

		dir := filepath.Dir(path)
		if seen[dir] {
			return nil
		}
		seen[dir] = true

		rel, err := filepath.Rel(root, dir)
		if err != nil {
			return err
		}
		hash, err := hashFile(path)
		if err != nil {
			return err
		}
		refs = append(refs, &corpus.IssueRef{
			Dir:        dir,
			RelDir:     rel,
			METSPath:   path,
			SourceHash: hash,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return refs, nil
}

// hashFile returns the hex xxHash of the file's content.
func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", corpus.WrapError(corpus.EACCESS, err, "hashing %s", path)
	}
	defer f.Close()

	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", corpus.WrapError(corpus.EACCESS, err, "hashing %s", path)
	}
	return formatHash(h.Sum64()), nil
}

func formatHash(sum uint64) string {
	return fmt.Sprintf("%016x", sum)
}
