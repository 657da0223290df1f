package mets

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	corpus "github.com/pulibrary/corpus-generator"
)

// Issue is a directory holding one structure document and the ALTO pages
// it references.
type Issue struct {
	dir      string
	doc      func() (*Document, error)
	articles func() ([]*Article, error)
}

// NewIssue returns an Issue for the directory dir.
func NewIssue(dir string) *Issue {
	i := &Issue{dir: dir}
	i.doc = sync.OnceValues(i.findDocument)
	i.articles = sync.OnceValues(i.buildArticles)
	return i
}

// Dir returns the issue directory.
func (i *Issue) Dir() string {
	return i.dir
}

// Document returns the issue's structure document.
// Returns ENOTFOUND if the directory holds none and EINVALID if it holds
// more than one.
func (i *Issue) Document() (*Document, error) {
	return i.doc()
}

// Articles returns one Article per ARTICLE node, in node order.
func (i *Issue) Articles() ([]*Article, error) {
	return i.articles()
}

// Date returns the issue date, or nil if the structure document has none.
func (i *Issue) Date() (*string, error) {
	doc, err := i.doc()
	if err != nil {
		return nil, err
	}
	return doc.Date()
}

// Records resolves every article of the issue into an output record.
func (i *Issue) Records() ([]*corpus.Record, error) {
	articles, err := i.articles()
	if err != nil {
		return nil, err
	}
	records := make([]*corpus.Record, 0, len(articles))
	for _, a := range articles {
		record, err := a.Record()
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

func (i *Issue) findDocument() (*Document, error) {
	entries, err := os.ReadDir(i.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, corpus.WrapError(corpus.ENOTFOUND, err, "issue directory %s not found", i.dir)
	} else if err != nil {
		return nil, corpus.WrapError(corpus.EACCESS, err, "reading issue directory %s", i.dir)
	}

	var matches []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), corpus.StructureSuffix) {
			matches = append(matches, entry.Name())
		}
	}

	switch len(matches) {
	case 0:
		return nil, corpus.Errorf(corpus.ENOTFOUND, "no structure document in %s", i.dir)
	case 1:
		return NewDocument(filepath.Join(i.dir, matches[0])), nil
	default:
		return nil, corpus.Errorf(corpus.EINVALID, "%d structure documents in %s: %s",
			len(matches), i.dir, strings.Join(matches, ", "))
	}
}

func (i *Issue) buildArticles() ([]*Article, error) {
	doc, err := i.doc()
	if err != nil {
		return nil, err
	}
	nodes, err := doc.Articles()
	if err != nil {
		return nil, err
	}
	articles := make([]*Article, 0, len(nodes))
	for _, n := range nodes {
		articles = append(articles, &Article{node: n, doc: doc})
	}
	return articles, nil
}
