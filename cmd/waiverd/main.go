package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/sukibk/textractor/internal/common"
	"github.com/sukibk/textractor/internal/extract"
	"github.com/sukibk/textractor/internal/ingest"
	"github.com/sukibk/textractor/internal/pipeline"
	"github.com/sukibk/textractor/internal/registry"
	"github.com/sukibk/textractor/internal/store"
)

// waiverd watches the stored-results directory and processes each detection
// result as it arrives.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

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
	defer func() {
		if err := st.Close(); err != nil {
			logger.Error("failed to close store", "error", err)
		}
	}()

	rows, err := st.LoadRegistry(ctx)
	if err != nil {
		logger.Error("failed to load registry", "error", err)
		os.Exit(1)
	}
	logger.Info("registry loaded", "rows", len(rows))

	reg := registry.New(rows, logger)
	extractor := extract.NewExtractor(cfg.Source, logger)
	processor := pipeline.NewProcessor(logger, extractor, reg, st)

	events, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
		Roots:       []string{cfg.Ingest.ResultsDir},
		InitialScan: true,
		Debounce:    cfg.Ingest.WatchDebounce,
		QueueSize:   cfg.Ingest.WatchQueue,
	}, logger)
	if err != nil {
		logger.Error("failed to start watcher", "dir", cfg.Ingest.ResultsDir, "error", err)
		os.Exit(1)
	}
	logger.Info("watching for detection results", "dir", cfg.Ingest.ResultsDir)

	flusher, _ := st.(interface{ Flush() error })

	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down")
			return
		case err, ok := <-errs:
			if !ok {
				return
			}
			logger.Error("watcher error", "error", err)
		case path, ok := <-events:
			if !ok {
				return
			}
			data, err := os.ReadFile(path)
			if err != nil {
				logger.Error("failed to read result", "path", path, "error", err)
				continue
			}
			key := cfg.Source.JSONPrefix + filepath.Base(path)
			if _, _, err := processor.ProcessResult(ctx, key, data); err != nil {
				logger.Error("failed to process document", "path", path, "error", err)
				continue
			}
			if flusher != nil {
				if err := flusher.Flush(); err != nil {
					logger.Error("failed to flush store", "error", err)
				}
			}
		}
	}
}
