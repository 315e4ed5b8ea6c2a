package services

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"tldw-backend/internal/worker"
)

type scheduledJob struct {
	jobType    string
	interval   time.Duration
	runAtStart bool
}

// Scheduler enqueues periodic jobs on every tick, and optionally once at
// start. Runs are not deduplicated; a slow job may overlap the next one.
type Scheduler struct {
	dispatcher worker.Dispatcher
	jobs       []scheduledJob
}

func NewScheduler(dispatcher worker.Dispatcher) *Scheduler {
	return &Scheduler{dispatcher: dispatcher}
}

// Every registers jobType to be enqueued at the given interval.
func (s *Scheduler) Every(interval time.Duration, jobType string, runAtStart bool) *Scheduler {
	if interval > 0 {
		s.jobs = append(s.jobs, scheduledJob{jobType: jobType, interval: interval, runAtStart: runAtStart})
	}
	return s
}

// Run blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	for _, j := range s.jobs {
		wg.Add(1)
		go func(j scheduledJob) {
			defer wg.Done()
			s.loop(ctx, j.interval, j.runAtStart, func(ctx context.Context) { s.enqueue(ctx, j.jobType) })
		}(j)
	}
	log.Info().Int("jobs", len(s.jobs)).Msg("scheduler started")
	wg.Wait()
	return nil
}

func (s *Scheduler) loop(ctx context.Context, interval time.Duration, runAtStart bool, runFn func(ctx context.Context)) {
	if runAtStart {
		runFn(ctx)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runFn(ctx)
		}
	}
}

func (s *Scheduler) enqueue(ctx context.Context, jobType string) {
	job, err := s.dispatcher.Enqueue(ctx, jobType, nil)
	if err != nil {
		if ctx.Err() == nil {
			log.Error().Err(err).Str("job_type", jobType).Msg("scheduler: failed to enqueue job")
		}
		return
	}
	log.Debug().Str("job_type", jobType).Str("job_id", job.ID.String()).Msg("scheduler: job enqueued")
}
