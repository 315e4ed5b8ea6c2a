// Package worker runs background jobs, either from a Redis list queue shared
// by several processes or inline in the current process.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"tldw-backend/internal/metrics"
	"tldw-backend/internal/models"
)

const maxAttempts = 3

// Handler executes one job type.
type Handler func(ctx context.Context, job *models.Job) error

// Handlers maps job types to their handler.
type Handlers map[string]Handler

// Dispatcher accepts jobs for asynchronous execution. Pool and Inline
// implement it.
type Dispatcher interface {
	Enqueue(ctx context.Context, jobType string, payload any) (*models.Job, error)
}

// JobStore records job status; *repository.JobRepo implements it.
type JobStore interface {
	Create(ctx context.Context, j *models.Job) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	UpdateError(ctx context.Context, id uuid.UUID, errMsg string, retryCount int) error
}

// Notifier is told about every job status change; *websocket.Hub
// implements it.
type Notifier interface {
	JobChanged(ctx context.Context, job *models.Job)
}

type permanentError struct{ err error }

func (e permanentError) Error() string { return e.err.Error() }
func (e permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return permanentError{err: err}
}

func IsPermanent(err error) bool {
	var p permanentError
	return errors.As(err, &p)
}

// runner holds what Pool and Inline share: job creation, dispatch to the
// registered handler and status bookkeeping.
type runner struct {
	store    JobStore
	handlers Handlers
	notifier Notifier
}

// SetNotifier registers n to receive status changes. Call before Run.
func (r *runner) SetNotifier(n Notifier) {
	r.notifier = n
}

func (r *runner) newJob(ctx context.Context, jobType string, payload any) (*models.Job, error) {
	if _, ok := r.handlers[jobType]; !ok {
		return nil, fmt.Errorf("unknown job type: %s", jobType)
	}

	job := &models.Job{
		ID:        uuid.New(),
		Type:      jobType,
		Status:    models.JobPending,
		CreatedAt: time.Now().UTC(),
	}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode job payload: %w", err)
		}
		job.Payload = data
	}

	if r.store != nil {
		if err := r.store.Create(ctx, job); err != nil {
			return nil, fmt.Errorf("record job: %w", err)
		}
	}
	return job, nil
}

// execute runs the job's handler and reports whether it should be retried.
func (r *runner) execute(ctx context.Context, job *models.Job) (retry bool) {
	logger := log.With().Str("job_id", job.ID.String()).Str("job_type", job.Type).Logger()
	r.updateStatus(ctx, job, models.JobProcessing)

	handler, ok := r.handlers[job.Type]
	var err error
	if !ok {
		err = Permanent(fmt.Errorf("unknown job type: %s", job.Type))
	} else {
		start := time.Now()
		err = handler(logger.WithContext(ctx), job)
		logger.Debug().Dur("took", time.Since(start)).Msg("job handler returned")
	}

	if err == nil {
		r.updateStatus(ctx, job, models.JobCompleted)
		metrics.JobsProcessed.WithLabelValues(job.Type, metrics.OutcomeSuccess).Inc()
		logger.Info().Msg("job completed")
		return false
	}

	job.RetryCount++
	errMsg := err.Error()
	job.ErrorMessage = &errMsg
	if r.store != nil {
		if uerr := r.store.UpdateError(ctx, job.ID, errMsg, job.RetryCount); uerr != nil {
			logger.Warn().Err(uerr).Msg("failed to record job error")
		}
	}

	if job.RetryCount < maxAttempts && !IsPermanent(err) && ctx.Err() == nil {
		logger.Warn().Err(err).Int("attempt", job.RetryCount).Msg("job failed, retrying")
		r.updateStatus(ctx, job, models.JobPending)
		return true
	}

	logger.Error().Err(err).Int("attempts", job.RetryCount).Msg("job failed permanently")
	r.updateStatus(ctx, job, models.JobFailed)
	metrics.JobsProcessed.WithLabelValues(job.Type, metrics.OutcomeError).Inc()
	return false
}

func (r *runner) updateStatus(ctx context.Context, job *models.Job, status string) {
	job.Status = status
	if status == models.JobCompleted || status == models.JobFailed {
		now := time.Now().UTC()
		job.CompletedAt = &now
	}
	if r.store != nil {
		if err := r.store.UpdateStatus(ctx, job.ID, status); err != nil {
			log.Warn().Err(err).Str("job_id", job.ID.String()).Str("status", status).Msg("failed to update job status")
		}
	}
	if r.notifier != nil {
		r.notifier.JobChanged(ctx, job)
	}
}

// backoff is the delay before retry n (1-based): 2s, 4s, 8s...
func backoff(retry int) time.Duration {
	return time.Duration(1<<uint(retry)) * time.Second
}
