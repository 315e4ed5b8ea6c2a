// Package llm turns transcripts into structured summaries through a
// pluggable completion backend.
package llm

import (
	"context"
	"time"

	"tldw-backend/internal/metrics"
)

// Client sends a single prompt and returns the model's text response.
type Client interface {
	Name() string
	Complete(ctx context.Context, prompt string) (string, error)
}

type instrumented struct {
	Client
}

// Instrument records call latency and outcome for c.
func Instrument(c Client) Client {
	return instrumented{Client: c}
}

func (i instrumented) Complete(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	text, err := i.Client.Complete(ctx, prompt)

	outcome := metrics.OutcomeSuccess
	if err != nil {
		outcome = metrics.OutcomeError
	}
	metrics.LLMDuration.WithLabelValues(i.Name(), outcome).Observe(time.Since(start).Seconds())
	return text, err
}

// limiter is a token channel bounding concurrent calls to a backend.
type limiter chan struct{}

func newLimiter(n int) limiter {
	if n < 1 {
		n = 1
	}
	l := make(limiter, n)
	for i := 0; i < n; i++ {
		l <- struct{}{}
	}
	return l
}

func (l limiter) acquire(ctx context.Context) error {
	select {
	case <-l:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l limiter) release() {
	l <- struct{}{}
}
