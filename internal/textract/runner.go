package textract

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/sukibk/textractor/constants"
	"github.com/sukibk/textractor/internal/blob"
)

// Runner walks the raw-document prefix, starts text detection for every
// document that does not yet have a stored result, polls to completion, and
// persists each result under the result prefix.
type Runner struct {
	Client       Client
	Blobs        blob.Store
	RawPrefix    string
	ResultPrefix string
	PollInterval time.Duration
	Logger       *slog.Logger
}

func NewRunner(c Client, blobs blob.Store, rawPrefix, resultPrefix string, interval time.Duration, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Runner{
		Client:       c,
		Blobs:        blobs,
		RawPrefix:    rawPrefix,
		ResultPrefix: resultPrefix,
		PollInterval: interval,
		Logger:       logger,
	}
}

// RunStats aggregates one Run pass.
type RunStats struct {
	Seen      int
	Skipped   int
	Succeeded int
	Failed    int
}

// Run processes every supported document under the raw prefix once.
// Individual document failures are logged and counted, not fatal.
func (r *Runner) Run(ctx context.Context) (RunStats, error) {
	var stats RunStats

	keys, err := r.Blobs.List(ctx, r.RawPrefix)
	if err != nil {
		return stats, fmt.Errorf("list documents: %w", err)
	}

	for _, key := range keys {
		if !constants.IsDocument(key) {
			continue
		}
		stats.Seen++

		resultKey := r.ResultKey(key)
		exists, err := r.Blobs.Exists(ctx, resultKey)
		if err != nil {
			return stats, fmt.Errorf("probe %s: %w", resultKey, err)
		}
		if exists {
			r.Logger.Info("textract.document.skipped", "key", key, "result", resultKey)
			stats.Skipped++
			continue
		}

		if err := r.processDocument(ctx, key, resultKey); err != nil {
			if ctx.Err() != nil {
				return stats, ctx.Err()
			}
			r.Logger.Error("textract.document.failed", "key", key, "err", err)
			stats.Failed++
			continue
		}
		stats.Succeeded++
	}
	return stats, nil
}

func (r *Runner) processDocument(ctx context.Context, key, resultKey string) error {
	r.Logger.Info("textract.document.start", "key", key)

	jobID, err := r.Client.StartTextDetection(ctx, key)
	if err != nil {
		return fmt.Errorf("start text detection: %w", err)
	}

	res, err := Poll(ctx, r.Client, jobID, r.PollInterval, r.Logger)
	if err != nil {
		return err
	}

	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	if err := r.Blobs.Put(ctx, resultKey, data); err != nil {
		return fmt.Errorf("store result: %w", err)
	}

	r.Logger.Info("textract.document.ok", "key", key, "result", resultKey, "blocks", len(res.Blocks))
	return nil
}

// ResultKey maps a document key to its stored-result key:
// "waivers-raw-pdf/x.pdf" -> "waivers-json/x.json".
func (r *Runner) ResultKey(documentKey string) string {
	base := path.Base(documentKey)
	if i := strings.LastIndex(base, "."); i >= 0 {
		base = base[:i]
	}
	return r.ResultPrefix + base + ".json"
}
