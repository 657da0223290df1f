package main

import (
	"context"
	"io"
	"log/slog"

	corpus "github.com/pulibrary/corpus-generator"
	"github.com/pulibrary/corpus-generator/build"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx     context.Context
	Stdout  io.Writer
	Stderr  io.Writer
	Logger  *slog.Logger
	Builder *build.Builder
	Reader  corpus.IssueReader
	Catalog corpus.CatalogService
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose int `short:"v" type:"counter" help:"Increase log verbosity (-v info, -vv debug)"`

	Build BuildCmd `cmd:"" help:"Convert every issue below a directory into JSONL"`
	Issue IssueCmd `cmd:"" help:"Print the records of one issue as JSONL"`
	List  ListCmd  `cmd:"" help:"List catalogued issues of a build run"`
}

// BuildCmd is the "build" subcommand.
type BuildCmd struct {
	Input       string `arg:"" name:"inpath" help:"Directory holding issue directories"`
	Output      string `arg:"" name:"outpath" help:"Directory receiving the JSONL files"`
	Concurrency int    `short:"c" default:"4" help:"Issues processed concurrently"`
	DB          string `name:"db" env:"CORPUSGEN_DB" help:"Catalog database path (default: <outpath>/catalog.db)"`
	Resume      bool   `help:"Skip issues unchanged since their last successful build"`
}

// IssueCmd is the "issue" subcommand.
type IssueCmd struct {
	Dir string `arg:"" help:"Issue directory"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct {
	RunID  string `name:"run" help:"Run ID (default: latest run)"`
	Failed bool   `help:"Only show failed issues"`
	DB     string `name:"db" env:"CORPUSGEN_DB" help:"Catalog database path"`
}

// logLevel maps a -v count to a log level.
func logLevel(verbose int) slog.Level {
	switch {
	case verbose >= 2:
		return slog.LevelDebug
	case verbose == 1:
		return slog.LevelInfo
	default:
		return slog.LevelWarn
	}
}
