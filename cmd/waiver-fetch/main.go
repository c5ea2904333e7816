package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/sukibk/textractor/internal/blob"
	"github.com/sukibk/textractor/internal/common"
	"github.com/sukibk/textractor/internal/fetch"
)

// waiver-fetch scrapes the waiver listing page and downloads any PDF not
// already present in blob storage.
func main() {
	var (
		page = flag.String("page", "", "listing page URL (defaults to WAIVER_PAGE_URL)")
		data = flag.String("data", ".", "blob storage root directory")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	ctx := context.Background()

	cfg := common.LoadConfig()
	if *page != "" {
		cfg.Fetch.PageURL = *page
	}

	blobs := blob.NewDirStore(*data)
	fetcher := fetch.NewFetcher(cfg.Fetch.SiteBase, logger)

	links, err := fetcher.ListPDFLinks(ctx, cfg.Fetch.PageURL)
	if err != nil {
		logger.Error("failed to list waiver links", "page", cfg.Fetch.PageURL, "error", err)
		os.Exit(1)
	}
	logger.Info("listing scraped", "page", cfg.Fetch.PageURL, "links", len(links))

	stats, err := fetcher.Download(ctx, links, blobs, cfg.Textract.RawPrefix)
	if err != nil {
		logger.Error("download pass failed", "error", err)
		os.Exit(1)
	}

	logger.Info("fetch complete",
		"listed", stats.Listed,
		"downloaded", stats.Downloaded,
		"skipped", stats.Skipped,
		"failures", stats.Failed,
	)

	fmt.Printf("Fetch complete!\n")
	fmt.Printf("- Links listed: %d\n", stats.Listed)
	fmt.Printf("- Downloaded: %d\n", stats.Downloaded)
	fmt.Printf("- Already present: %d\n", stats.Skipped)
	fmt.Printf("- Failures: %d\n", stats.Failed)
}
