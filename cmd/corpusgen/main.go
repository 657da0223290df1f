package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	corpus "github.com/pulibrary/corpus-generator"
	"github.com/pulibrary/corpus-generator/build"
	"github.com/pulibrary/corpus-generator/fs"
	"github.com/pulibrary/corpus-generator/mets"
	corpusslog "github.com/pulibrary/corpus-generator/slog"
	"github.com/pulibrary/corpus-generator/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// SQLite database used by the catalog. Opened by commands that need it.
	DB *sqlite.DB

	// Catalog for end-to-end testing.
	Catalog corpus.CatalogService
}

// NewMain returns a new instance of Main.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("corpusgen"),
		kong.Description("Convert digitized newspaper issues (METS/ALTO) into a JSONL corpus."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'corpusgen --help' to see available commands")
	}

	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: logLevel(cli.Verbose)}))
	deps.Reader = corpusslog.NewLoggingIssueReader(mets.NewReader(), deps.Logger)

	switch cmd := strings.Fields(kongCtx.Command())[0]; cmd {
	case "build":
		dbPath := cli.Build.DB
		if dbPath == "" {
			if err := os.MkdirAll(cli.Build.Output, 0755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
			dbPath = filepath.Join(cli.Build.Output, "catalog.db")
		}
		if err := m.openCatalog(dbPath, stderr); err != nil {
			return err
		}
		defer m.Close()

		deps.Catalog = m.Catalog
		deps.Builder = &build.Builder{
			Source:  corpusslog.NewLoggingIssueSource(fs.NewIssueSource(), deps.Logger),
			Reader:  deps.Reader,
			Writer:  corpusslog.NewLoggingIssueWriter(fs.NewWriter(cli.Build.Output), deps.Logger),
			Catalog: m.Catalog,
		}

	case "list":
		if cli.List.DB == "" {
			return fmt.Errorf("no catalog database. Pass --db or set CORPUSGEN_DB")
		}
		if _, err := os.Stat(cli.List.DB); err != nil {
			return fmt.Errorf("catalog database %q: %w", cli.List.DB, err)
		}
		if err := m.openCatalog(cli.List.DB, stderr); err != nil {
			return err
		}
		defer m.Close()

		deps.Catalog = m.Catalog
	}

	return kongCtx.Run(deps)
}

func (m *Main) openCatalog(path string, stderr io.Writer) error {
	m.DB = sqlite.NewDB(path)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set CORPUSGEN_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", path, err)
	}
	m.Catalog = sqlite.NewCatalogService(m.DB)
	return nil
}
