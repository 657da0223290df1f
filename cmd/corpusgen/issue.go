package main

import (
	"fmt"

	corpus "github.com/pulibrary/corpus-generator"
	"github.com/pulibrary/corpus-generator/fs"
)

// Run executes the issue command.
func (c *IssueCmd) Run(deps *Dependencies) error {
	issue, err := deps.Reader.ReadIssue(deps.Ctx, c.Dir)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", corpus.ErrorMessage(err))
		return err
	}
	return fs.WriteRecords(deps.Stdout, issue.Records)
}
