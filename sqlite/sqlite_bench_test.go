package sqlite_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	corpus "github.com/pulibrary/corpus-generator"
	"github.com/pulibrary/corpus-generator/sqlite"
	"github.com/stretchr/testify/require"
)

// BenchmarkWALMode compares write performance between WAL and rollback journal modes.
// This simulates a build workload: creating a run and recording many issues.
func BenchmarkWALMode(b *testing.B) {
	b.Run("rollback_journal", func(b *testing.B) {
		benchmarkEntryInserts(b, false)
	})

	b.Run("wal_mode", func(b *testing.B) {
		benchmarkEntryInserts(b, true)
	})
}

func benchmarkEntryInserts(b *testing.B, useWAL bool) {
	b.Helper()

	// Create a temporary file for the database
	tmpDir := b.TempDir()
	dbPath := filepath.Join(tmpDir, "bench.db")

	db := sqlite.NewDB(dbPath)
	require.NoError(b, db.Open())

	// Enable WAL mode if requested
	if useWAL {
		ctx := context.Background()
		_, err := db.ExecContext(ctx, "PRAGMA journal_mode = WAL")
		require.NoError(b, err)
	}

	defer func() {
		db.Close()
		// Clean up WAL files if they exist
		os.Remove(dbPath + "-wal")
		os.Remove(dbPath + "-shm")
	}()

	// Create a run for the entries
	ctx := context.Background()
	svc := sqlite.NewCatalogService(db)
	run := &corpus.Run{InputRoot: "/data/princetonian"}
	require.NoError(b, svc.CreateRun(ctx, run))

	// Reset timer to exclude setup time
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		entry := &corpus.Entry{
			RunID:       run.ID,
			IssueDir:    fmt.Sprintf("1968/%02d/%02d_01", i%12+1, i%28+1),
			SourceHash:  fmt.Sprintf("%016x", i),
			OutputPath:  fmt.Sprintf("/out/issue%d.jsonl", i),
			Date:        "1968-05-06",
			Articles:    30,
			ContentHash: fmt.Sprintf("%016x", i*7),
			Status:      corpus.StatusOK,
		}
		if err := svc.CreateEntry(ctx, entry); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkBulkInserts tests recording a batch of issues (simulating a full build).
func BenchmarkBulkInserts(b *testing.B) {
	const issuesPerBuild = 100

	b.Run("rollback_journal", func(b *testing.B) {
		benchmarkBulkInserts(b, false, issuesPerBuild)
	})

	b.Run("wal_mode", func(b *testing.B) {
		benchmarkBulkInserts(b, true, issuesPerBuild)
	})
}

func benchmarkBulkInserts(b *testing.B, useWAL bool, issuesPerBuild int) {
	b.Helper()

	for i := 0; i < b.N; i++ {
		b.StopTimer()

		tmpDir := b.TempDir()
		dbPath := filepath.Join(tmpDir, fmt.Sprintf("bench%d.db", i))

		db := sqlite.NewDB(dbPath)
		require.NoError(b, db.Open())

		if useWAL {
			ctx := context.Background()
			_, err := db.ExecContext(ctx, "PRAGMA journal_mode = WAL")
			require.NoError(b, err)
		}

		ctx := context.Background()
		svc := sqlite.NewCatalogService(db)
		run := &corpus.Run{InputRoot: "/data/princetonian"}
		require.NoError(b, svc.CreateRun(ctx, run))

		b.StartTimer()

		// Record batch of issues
		for j := 0; j < issuesPerBuild; j++ {
			entry := &corpus.Entry{
				RunID:      run.ID,
				IssueDir:   fmt.Sprintf("issue%d", j),
				SourceHash: fmt.Sprintf("%016x", j),
				Articles:   j,
				Status:     corpus.StatusOK,
			}
			if err := svc.CreateEntry(ctx, entry); err != nil {
				b.Fatal(err)
			}
		}

		b.StopTimer()
		db.Close()
		os.Remove(dbPath + "-wal")
		os.Remove(dbPath + "-shm")
	}
}
