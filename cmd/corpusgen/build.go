package main

import (
	"fmt"

	corpus "github.com/pulibrary/corpus-generator"
	"github.com/pulibrary/corpus-generator/build"
)

// Run executes the build command.
func (c *BuildCmd) Run(deps *Dependencies) error {
	if c.Concurrency > 0 {
		deps.Builder.Concurrency = c.Concurrency
	}
	deps.Builder.Resume = c.Resume

	progress := func(event build.ProgressEvent) {
		switch event.Type {
		case build.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "Found %d issues\n", event.Total)
		case build.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  skip %s: %s\n", event.Dir, failure(event.Error))
		}
	}

	result, err := deps.Builder.Build(deps.Ctx, c.Input, progress)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", corpus.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Wrote %d issues (%d articles, %s)\n",
		result.Written, result.Articles, build.FormatBytes(result.Bytes))
	if result.Skipped > 0 {
		fmt.Fprintf(deps.Stdout, "Skipped %d unchanged issues\n", result.Skipped)
	}
	if result.Failed > 0 {
		fmt.Fprintf(deps.Stdout, "Failed %d issues\n", result.Failed)
	}
	if result.RunID != "" {
		fmt.Fprintf(deps.Stdout, "Run %s\n", result.RunID)
	}
	return nil
}

// failure describes a per-issue error. Application errors carry their
// message; anything else is shown as is.
func failure(err error) string {
	if corpus.ErrorCode(err) == corpus.EINTERNAL {
		return err.Error()
	}
	return corpus.ErrorMessage(err)
}
