package mets

import (
	"context"

	corpus "github.com/pulibrary/corpus-generator"
)

// Ensure Reader implements corpus.IssueReader.
var _ corpus.IssueReader = (*Reader)(nil)

// Reader resolves issue directories into records.
type Reader struct{}

// NewReader creates a new Reader.
func NewReader() *Reader {
	return &Reader{}
}

// ReadIssue resolves every article of the issue stored in dir.
func (r *Reader) ReadIssue(ctx context.Context, dir string) (*corpus.Issue, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	issue := NewIssue(dir)
	doc, err := issue.Document()
	if err != nil {
		return nil, err
	}
	date, err := issue.Date()
	if err != nil {
		return nil, err
	}
	articles, err := issue.Articles()
	if err != nil {
		return nil, err
	}

	records := make([]*corpus.Record, 0, len(articles))
	for _, a := range articles {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := a.Record()
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return &corpus.Issue{
		Dir:      dir,
		METSPath: doc.Path(),
		Date:     date,
		Records:  records,
	}, nil
}
