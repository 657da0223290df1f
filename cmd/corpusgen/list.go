package main

import (
	"fmt"

	corpus "github.com/pulibrary/corpus-generator"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	runID := c.RunID
	if runID == "" {
		runs, err := deps.Catalog.FindRuns(deps.Ctx, 1)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", corpus.ErrorMessage(err))
			return err
		}
		if len(runs) == 0 {
			fmt.Fprintln(deps.Stdout, "No runs found. Use 'corpusgen build' to create one.")
			return nil
		}
		run := runs[0]
		runID = run.ID
		fmt.Fprintf(deps.Stdout, "Run %s  %s  %s  %d issues, %d failed\n",
			run.ID, run.StartedAt.Format("2006-01-02 15:04"), run.InputRoot, run.Issues, run.Failed)
	}

	filter := corpus.EntryFilter{RunID: &runID}
	if c.Failed {
		status := corpus.StatusFailed
		filter.Status = &status
	}

	entries, err := deps.Catalog.FindEntries(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", corpus.ErrorMessage(err))
		return err
	}

	if len(entries) == 0 {
		fmt.Fprintln(deps.Stdout, "No issues found.")
		return nil
	}

	for _, e := range entries {
		date := e.Date
		if date == "" {
			date = "-"
		}
		line := fmt.Sprintf("%-7s  %-10s  %4d  %s", e.Status, date, e.Articles, e.IssueDir)
		if e.Error != "" {
			line += "  " + e.Error
		}
		fmt.Fprintln(deps.Stdout, line)
	}

	return nil
}
