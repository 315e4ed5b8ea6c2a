package worker

import (
	"context"
	"sync"
	"time"

	"tldw-backend/internal/models"
)

// Inline runs each job in its own goroutine inside this process. It is used
// when no Redis is configured.
type Inline struct {
	runner
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	retryDelay func(retry int) time.Duration
}

func NewInline(store JobStore, handlers Handlers) *Inline {
	ctx, cancel := context.WithCancel(context.Background())
	return &Inline{
		runner:     runner{store: store, handlers: handlers},
		ctx:        ctx,
		cancel:     cancel,
		retryDelay: backoff,
	}
}

func (i *Inline) Enqueue(ctx context.Context, jobType string, payload any) (*models.Job, error) {
	job, err := i.newJob(ctx, jobType, payload)
	if err != nil {
		return nil, err
	}

	i.wg.Add(1)
	go func() {
		defer i.wg.Done()
		i.process(job)
	}()
	return job, nil
}

func (i *Inline) process(job *models.Job) {
	for i.execute(i.ctx, job) {
		select {
		case <-i.ctx.Done():
			return
		case <-time.After(i.retryDelay(job.RetryCount)):
		}
	}
}

// Run blocks until ctx is cancelled, then stops in-flight jobs and waits
// for them to return.
func (i *Inline) Run(ctx context.Context) error {
	<-ctx.Done()
	i.cancel()
	i.wg.Wait()
	return nil
}

// Wait blocks until every enqueued job has finished.
func (i *Inline) Wait() {
	i.wg.Wait()
}
