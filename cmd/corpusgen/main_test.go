package main_test

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	main "github.com/pulibrary/corpus-generator/cmd/corpusgen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixtureRoot holds a single issue directory, 06_01, with 30 articles.
var fixtureRoot = filepath.Join("..", "..", "mets", "testdata")

const fixtureStream = "Princetonian_1968-05-06_v92_n061_0001.jsonl"

func TestCLI_HelpShowsAllCommands(t *testing.T) {
	t.Parallel()

	cli := &main.CLI{}
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	// Use kong.Exit to prevent os.Exit from being called during tests
	parser, err := kong.New(cli,
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	require.NoError(t, err)

	_, _ = parser.Parse([]string{"--help"})

	helpOutput := stdout.String()
	for _, cmd := range []string{"build", "issue", "list"} {
		assert.Contains(t, helpOutput, cmd, "Help should mention %s command", cmd)
	}
}

func TestMain_Run(t *testing.T) {
	t.Parallel()

	t.Run("shows help", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := main.NewMain().Run(context.Background(), []string{"--help"}, stdout, stderr)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Usage:")
		assert.Contains(t, stdout.String(), "build")
	})

	t.Run("returns error without command", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := main.NewMain().Run(context.Background(), nil, stdout, stderr)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "no command specified")
	})

	t.Run("builds fixture and lists the run", func(t *testing.T) {
		t.Parallel()

		out := t.TempDir()
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := main.NewMain().Run(context.Background(), []string{"build", fixtureRoot, out, "-c", "2"}, stdout, stderr)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Found 1 issues")
		assert.Contains(t, stdout.String(), "Wrote 1 issues (30 articles")
		assert.FileExists(t, filepath.Join(out, "06_01", fixtureStream))
		assert.FileExists(t, filepath.Join(out, "catalog.db"))

		stdout.Reset()
		err = main.NewMain().Run(context.Background(), []string{"list", "--db", filepath.Join(out, "catalog.db")}, stdout, stderr)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "ok")
		assert.Contains(t, stdout.String(), "1968-05-06")
		assert.Contains(t, stdout.String(), "06_01")
	})

	t.Run("resumes from the catalog", func(t *testing.T) {
		t.Parallel()

		out := t.TempDir()
		db := filepath.Join(t.TempDir(), "catalog.db")
		args := []string{"build", fixtureRoot, out, "--db", db, "--resume"}
		require.NoError(t, main.NewMain().Run(context.Background(), args, &bytes.Buffer{}, &bytes.Buffer{}))

		stdout := &bytes.Buffer{}
		err := main.NewMain().Run(context.Background(), args, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Wrote 0 issues")
		assert.Contains(t, stdout.String(), "Skipped 1 unchanged issues")
	})

	t.Run("logs writes with -v", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}

		err := main.NewMain().Run(context.Background(), []string{"build", "-v", fixtureRoot, t.TempDir()}, &bytes.Buffer{}, stderr)

		require.NoError(t, err)
		assert.Contains(t, stderr.String(), "write issue")
		assert.Contains(t, stderr.String(), "records=30")
		assert.NotContains(t, stderr.String(), "level=DEBUG")
	})

	t.Run("logs reads with -vv", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}

		err := main.NewMain().Run(context.Background(), []string{"build", "-vv", fixtureRoot, t.TempDir()}, &bytes.Buffer{}, stderr)

		require.NoError(t, err)
		assert.Contains(t, stderr.String(), "level=DEBUG")
		assert.Contains(t, stderr.String(), "read issue")
	})

	t.Run("stays quiet by default", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}

		err := main.NewMain().Run(context.Background(), []string{"build", fixtureRoot, t.TempDir()}, &bytes.Buffer{}, stderr)

		require.NoError(t, err)
		assert.Empty(t, stderr.String())
	})

	t.Run("prints one issue", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}

		err := main.NewMain().Run(context.Background(), []string{"issue", filepath.Join(fixtureRoot, "06_01")}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		lines := strings.Split(strings.TrimSuffix(stdout.String(), "\n"), "\n")
		assert.Len(t, lines, 30)
		assert.Contains(t, lines[0], `"title":"Faculty to consider IDA, student power potentials"`)
		assert.Contains(t, lines[0], `"date":"1968-05-06"`)
	})

	t.Run("requires a catalog for list", func(t *testing.T) {
		t.Parallel()

		err := main.NewMain().Run(context.Background(), []string{"list", "--db", filepath.Join(t.TempDir(), "missing.db")}, &bytes.Buffer{}, &bytes.Buffer{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "catalog database")
	})

	t.Run("reports missing input directory", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}

		err := main.NewMain().Run(context.Background(), []string{"build", filepath.Join(t.TempDir(), "missing"), t.TempDir()}, &bytes.Buffer{}, stderr)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "not found")
	})
}
