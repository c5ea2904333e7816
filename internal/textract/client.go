package textract

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sukibk/textractor/constants"
)

// Client starts and fetches asynchronous text-detection jobs. The AWS-backed
// implementation lives outside this module; the pipeline only depends on this
// contract.
type Client interface {
	StartTextDetection(ctx context.Context, key string) (jobID string, err error)
	GetTextDetection(ctx context.Context, jobID string) (*Result, error)
}

// Poll fetches the job result until it reaches a terminal status, waiting
// interval between attempts.
func Poll(ctx context.Context, c Client, jobID string, interval time.Duration, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.Default()
	}
	for {
		res, err := c.GetTextDetection(ctx, jobID)
		if err != nil {
			return nil, fmt.Errorf("get text detection: %w", err)
		}
		switch constants.JobStatus(res.JobStatus) {
		case constants.JobStatusSucceeded, constants.JobStatusPartial:
			return res, nil
		case constants.JobStatusFailed:
			return nil, fmt.Errorf("text detection job %s failed", jobID)
		}
		logger.Info("textract.job.waiting", "job_id", jobID, "status", res.JobStatus)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(interval):
		}
	}
}
