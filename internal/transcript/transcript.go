// Package transcript fetches video transcripts from a rotating set of
// providers. Each provider is an independent source (YouTube's own caption
// endpoints or a third-party scraping API); Fallback spreads load across
// them and moves on when one fails.
package transcript

import (
	"context"
	"errors"
)

// ErrNoTranscript is returned when no provider produced a usable transcript.
var ErrNoTranscript = errors.New("no transcript available")

// Provider returns the plain-text transcript of a video.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, videoID string) (string, error)
}

// Fetcher is what callers of this package depend on; Fallback implements it.
type Fetcher interface {
	Fetch(ctx context.Context, videoID string) (string, error)
}
