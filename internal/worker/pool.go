package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"tldw-backend/internal/models"
)

const (
	defaultPopTimeout = 5 * time.Second
	lockTTL           = 10 * time.Minute
)

// Pool consumes jobs from Redis lists. Several server processes may share
// one Redis; a SETNX lock keeps a job from running twice.
type Pool struct {
	runner
	redis       *redis.Client
	workerCount int
	popTimeout  time.Duration
	retryDelay  func(retry int) time.Duration
}

func NewPool(redisClient *redis.Client, store JobStore, handlers Handlers, workerCount int) *Pool {
	if workerCount < 1 {
		workerCount = 1
	}
	return &Pool{
		runner:      runner{store: store, handlers: handlers},
		redis:       redisClient,
		workerCount: workerCount,
		popTimeout:  defaultPopTimeout,
		retryDelay:  backoff,
	}
}

func (p *Pool) Enqueue(ctx context.Context, jobType string, payload any) (*models.Job, error) {
	job, err := p.newJob(ctx, jobType, payload)
	if err != nil {
		return nil, err
	}
	if err := p.push(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

func (p *Pool) push(ctx context.Context, job *models.Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode job: %w", err)
	}
	if err := p.redis.LPush(ctx, queueName(job.Type), data).Err(); err != nil {
		return fmt.Errorf("enqueue %s: %w", job.Type, err)
	}
	return nil
}

// Run starts the workers and blocks until ctx is cancelled and every worker
// has finished its current job.
func (p *Pool) Run(ctx context.Context) error {
	queues := make([]string, 0, len(p.handlers))
	for jobType := range p.handlers {
		queues = append(queues, queueName(jobType))
	}

	var wg sync.WaitGroup
	for i := 0; i < p.workerCount; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			p.worker(ctx, id, queues)
		}(i)
	}
	log.Info().Int("workers", p.workerCount).Msg("worker pool started")

	wg.Wait()
	log.Info().Msg("worker pool stopped")
	return nil
}

func (p *Pool) worker(ctx context.Context, id int, queues []string) {
	for {
		if ctx.Err() != nil {
			return
		}

		result, err := p.redis.BLPop(ctx, p.popTimeout, queues...).Result()
		if err != nil {
			if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
				log.Warn().Err(err).Int("worker", id).Msg("queue pop failed")
				time.Sleep(time.Second)
			}
			continue
		}
		if len(result) < 2 {
			continue
		}

		var job models.Job
		if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
			log.Error().Err(err).Int("worker", id).Msg("failed to parse job")
			continue
		}

		lockKey := "job_lock:" + job.ID.String()
		locked, err := p.redis.SetNX(ctx, lockKey, id, lockTTL).Result()
		if err != nil || !locked {
			continue
		}

		retry := p.execute(ctx, &job)
		// release before requeueing so another worker can take the retry
		p.redis.Del(context.WithoutCancel(ctx), lockKey)
		if retry {
			p.requeue(&job)
		}
	}
}

func (p *Pool) requeue(job *models.Job) {
	delay := p.retryDelay(job.RetryCount)
	time.AfterFunc(delay, func() {
		if err := p.push(context.Background(), job); err != nil {
			log.Error().Err(err).Str("job_id", job.ID.String()).Msg("failed to requeue job")
		}
	})
}

func queueName(jobType string) string {
	return "queue:" + jobType
}
