package transcript

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"tldw-backend/internal/logger"
	"tldw-backend/internal/metrics"
)

// Fallback tries its providers in rotation. The rotation pointer is shared by
// all callers and advances after every attempt, so consecutive requests start
// at different providers.
type Fallback struct {
	providers []Provider
	next      atomic.Uint64
}

func NewFallback(providers ...Provider) *Fallback {
	return &Fallback{providers: providers}
}

func (f *Fallback) Providers() []string {
	names := make([]string, len(f.providers))
	for i, p := range f.providers {
		names[i] = p.Name()
	}
	return names
}

// Fetch returns the first non-empty transcript. Each provider is tried at
// most once per call.
func (f *Fallback) Fetch(ctx context.Context, videoID string) (string, error) {
	n := uint64(len(f.providers))
	if n == 0 {
		return "", fmt.Errorf("%w: no providers configured", ErrNoTranscript)
	}

	log := logger.FromContext(ctx)
	start := f.next.Load()
	errs := []error{ErrNoTranscript}

	for i := uint64(0); i < n; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		p := f.providers[(start+i)%n]
		f.next.Add(1)

		text, err := p.Fetch(ctx, videoID)
		if err != nil {
			metrics.TranscriptAttempts.WithLabelValues(p.Name(), metrics.OutcomeError).Inc()
			log.Warn().Err(err).Str("provider", p.Name()).Str("video_id", videoID).Msg("transcript provider failed")
			errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
			continue
		}

		text = strings.TrimSpace(text)
		if text == "" {
			metrics.TranscriptAttempts.WithLabelValues(p.Name(), metrics.OutcomeEmpty).Inc()
			log.Warn().Str("provider", p.Name()).Str("video_id", videoID).Msg("transcript provider returned empty text")
			errs = append(errs, fmt.Errorf("%s: empty transcript", p.Name()))
			continue
		}

		metrics.TranscriptAttempts.WithLabelValues(p.Name(), metrics.OutcomeSuccess).Inc()
		log.Debug().Str("provider", p.Name()).Str("video_id", videoID).Int("chars", len(text)).Msg("transcript fetched")
		return text, nil
	}

	return "", errors.Join(errs...)
}
