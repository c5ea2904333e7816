package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sukibk/textractor/internal/common"
	"github.com/sukibk/textractor/internal/extract"
	"github.com/sukibk/textractor/internal/ingest"
	"github.com/sukibk/textractor/internal/pipeline"
	"github.com/sukibk/textractor/internal/registry"
	"github.com/sukibk/textractor/internal/store"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		dir = flag.String("dir", "", "directory of stored detection results (required)")
		out = flag.String("out", "", "output workbook path (defaults to WORKBOOK_PATH)")
		dsn = flag.String("dsn", "", "SQL DSN; when set the registry/ledger live in a database instead of a workbook")
	)
	flag.Parse()

	if *dir == "" {
		printError("Error: --dir is required\n")
		os.Exit(1)
	}

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	ctx := context.Background()

	cfg := common.LoadConfig()
	if *out != "" {
		cfg.Store.WorkbookPath = *out
	}
	if *dsn != "" {
		cfg.Store.DSN = *dsn
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Open durable registry/ledger state
	var (
		st  store.Store
		err error
	)
	if cfg.Store.DSN != "" {
		st, err = store.OpenSQL(ctx, cfg.Store.DSN, logger)
	} else {
		st, err = store.OpenXLSX(cfg.Store.WorkbookPath, logger)
	}
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}

	rows, err := st.LoadRegistry(ctx)
	if err != nil {
		logger.Error("failed to load registry", "error", err)
		os.Exit(1)
	}
	logger.Info("registry loaded", "rows", len(rows))

	reg := registry.New(rows, logger)
	extractor := extract.NewExtractor(cfg.Source, logger)
	processor := pipeline.NewProcessor(logger, extractor, reg, st)

	paths, stats, err := ingest.ScanDirectory(*dir, true)
	if err != nil {
		logger.Error("failed to scan directory", "dir", *dir, "error", err)
		os.Exit(1)
	}
	logger.Info("scan complete", "scanned", stats.Scanned, "matched", stats.Matched)

	processed := 0
	failures := 0
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Error("failed to read result", "path", path, "error", err)
			failures++
			continue
		}
		key := cfg.Source.JSONPrefix + filepath.Base(path)
		if _, _, err := processor.ProcessResult(ctx, key, data); err != nil {
			logger.Error("failed to process document", "path", path, "error", err)
			failures++
			continue
		}
		processed++
	}

	if err := st.Close(); err != nil {
		logger.Error("failed to close store", "error", err)
		os.Exit(1)
	}

	logger.Info("batch processing complete",
		"documents_matched", stats.Matched,
		"documents_processed", processed,
		"failures", failures,
		"registry_rows", reg.Len(),
	)

	fmt.Printf("Batch processing complete!\n")
	fmt.Printf("- Documents matched: %d\n", stats.Matched)
	fmt.Printf("- Documents processed: %d\n", processed)
	fmt.Printf("- Failures: %d\n", failures)
	if cfg.Store.DSN == "" {
		fmt.Printf("- Output: %s\n", cfg.Store.WorkbookPath)
	}
}
