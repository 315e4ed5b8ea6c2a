package transcript

import (
	"context"
	"fmt"
	"strings"

	ytapi "github.com/hightemp/youtube-transcript-api-go/api"
	yt "github.com/kkdai/youtube/v2"
)

var preferredLanguages = []string{"en", "en-US", "en-GB"}

// TranscriptAPI uses the youtube-transcript-api port, preferring English
// tracks and falling back to whatever language is available.
type TranscriptAPI struct {
	api   *ytapi.YouTubeTranscriptApi
	fetch func(videoID string) (string, error)
}

func NewTranscriptAPI() *TranscriptAPI {
	t := &TranscriptAPI{api: ytapi.NewYouTubeTranscriptApi()}
	t.fetch = t.fetchTranscript
	return t
}

func (t *TranscriptAPI) Name() string { return "transcriptapi" }

type fetchResult struct {
	text string
	err  error
}

// Fetch returns as soon as ctx is done. The underlying client takes no
// context, so an abandoned request finishes in the background.
func (t *TranscriptAPI) Fetch(ctx context.Context, videoID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	done := make(chan fetchResult, 1)
	go func() {
		text, err := t.fetch(videoID)
		done <- fetchResult{text: text, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.text, r.err
	}
}

func (t *TranscriptAPI) fetchTranscript(videoID string) (string, error) {
	transcript, err := t.api.GetTranscript(videoID, preferredLanguages)
	if err != nil {
		transcript, err = t.api.GetTranscript(videoID, nil)
		if err != nil {
			return "", fmt.Errorf("no subtitles available: %w", err)
		}
	}

	var b strings.Builder
	for _, entry := range transcript.Entries {
		text := strings.TrimSpace(entry.Text)
		if text == "" {
			continue
		}
		b.WriteString(text)
		b.WriteString(" ")
	}
	return strings.TrimSpace(b.String()), nil
}

// Innertube resolves the video through the player API client and reads its
// transcript panel.
type Innertube struct {
	client *yt.Client
}

func NewInnertube() *Innertube {
	return &Innertube{client: &yt.Client{}}
}

func (i *Innertube) Name() string { return "innertube" }

func (i *Innertube) Fetch(ctx context.Context, videoID string) (string, error) {
	video, err := i.client.GetVideoContext(ctx, videoID)
	if err != nil {
		return "", fmt.Errorf("failed to fetch video: %w", err)
	}

	var lastErr error
	for _, lang := range preferredLanguages {
		segments, err := i.client.GetTranscriptCtx(ctx, video, lang)
		if err != nil {
			lastErr = err
			continue
		}

		parts := make([]string, 0, len(segments))
		for _, seg := range segments {
			if text := strings.TrimSpace(seg.Text); text != "" {
				parts = append(parts, text)
			}
		}
		return strings.Join(parts, " "), nil
	}
	return "", fmt.Errorf("failed to fetch transcript: %w", lastErr)
}
