package services

import (
	"context"
	"errors"

	"tldw-backend/internal/cache"
	"tldw-backend/internal/models"
	"tldw-backend/internal/transcript"
	"tldw-backend/internal/worker"
	"tldw-backend/internal/youtube"
)

// JobHandlers wires every background job type to the service that runs it.
func JobHandlers(popular *PopularService, trending *TrendingService, summarizer *Summarizer, c cache.Cache) worker.Handlers {
	return worker.Handlers{
		models.JobRefreshPopular: func(ctx context.Context, job *models.Job) error {
			_, err := popular.Refresh(ctx)
			return err
		},
		models.JobTrendingSnapshot: func(ctx context.Context, job *models.Job) error {
			_, err := trending.Snapshot(ctx)
			if errors.Is(err, ErrTrendingDisabled) {
				return worker.Permanent(err)
			}
			return err
		},
		models.JobFlushCache: func(ctx context.Context, job *models.Job) error {
			if err := c.Flush(ctx); err != nil {
				return err
			}
			_, err := popular.Refresh(ctx)
			return err
		},
		models.JobWarmSummary: func(ctx context.Context, job *models.Job) error {
			var p models.WarmSummaryPayload
			if err := worker.DecodePayload(job.Payload, &p); err != nil {
				return err
			}
			_, err := summarizer.Summarize(ctx, models.SummarizeRequest{URL: youtube.WatchURL(p.VideoID), Refresh: true})
			if isClientError(err) {
				return worker.Permanent(err)
			}
			return err
		},
	}
}

// isClientError reports errors that retrying cannot fix.
func isClientError(err error) bool {
	var (
		validation *ValidationError
		notFound   *NotFoundError
		tooLong    *VideoTooLongError
	)
	return errors.As(err, &validation) ||
		errors.As(err, &notFound) ||
		errors.As(err, &tooLong) ||
		errors.Is(err, transcript.ErrNoTranscript)
}
