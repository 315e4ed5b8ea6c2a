package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tldw-backend/internal/cache"
	"tldw-backend/internal/llm"
	"tldw-backend/internal/logger"
	"tldw-backend/internal/models"
	"tldw-backend/internal/repository"
	"tldw-backend/internal/transcript"
	"tldw-backend/internal/youtube"
)

const maxQuestions = 3

// SummaryStore is the persistence the summarizer needs; *repository.SummaryRepo
// implements it.
type SummaryStore interface {
	Upsert(ctx context.Context, s *models.Summary) error
	GetByVideoID(ctx context.Context, videoID string) (*models.Summary, error)
	IncrementTimesSummarized(ctx context.Context, videoID string) error
}

type SummarizerConfig struct {
	MaxVideoDuration   time.Duration
	MaxTranscriptRunes int
	DefaultQuestions   []string
	CacheTTL           time.Duration
}

type Summarizer struct {
	cache       cache.Cache
	store       SummaryStore
	metadata    youtube.MetadataProvider
	transcripts transcript.Fetcher
	llm         llm.Client
	cfg         SummarizerConfig
}

func NewSummarizer(
	c cache.Cache,
	store SummaryStore,
	metadata youtube.MetadataProvider,
	transcripts transcript.Fetcher,
	client llm.Client,
	cfg SummarizerConfig,
) *Summarizer {
	return &Summarizer{
		cache:       c,
		store:       store,
		metadata:    metadata,
		transcripts: transcripts,
		llm:         client,
		cfg:         cfg,
	}
}

type Result struct {
	Summary *models.Summary
	Cached  bool
}

// Summarize runs the whole pipeline for one URL. A cached summary for the
// same video and questions is returned without contacting any provider.
func (s *Summarizer) Summarize(ctx context.Context, req models.SummarizeRequest) (*Result, error) {
	videoID, ok := youtube.ExtractVideoID(req.URL)
	if !ok {
		return nil, &ValidationError{
			Message: "not a valid YouTube URL",
			Fields:  map[string]string{"url": "must be a YouTube watch, share, shorts or embed link"},
		}
	}

	questions := s.questions(req.Questions)
	ctx = logger.WithContext(ctx, logger.FromContext(ctx).With().Str("video_id", videoID).Logger())
	log := logger.FromContext(ctx)

	if !req.Refresh {
		if cached, ok := s.lookup(ctx, videoID); ok && sameQuestions(cached.FAQs, questions) {
			if err := s.store.IncrementTimesSummarized(ctx, videoID); err != nil && !errors.Is(err, repository.ErrNotFound) {
				log.Warn().Err(err).Msg("failed to bump times_summarized for cached summary")
			}
			log.Info().Msg("served summary from cache")
			return &Result{Summary: cached, Cached: true}, nil
		}
	}

	meta, err := s.metadata.GetMetadata(ctx, videoID)
	if errors.Is(err, youtube.ErrVideoNotFound) {
		return nil, &NotFoundError{Message: fmt.Sprintf("video %s not found", videoID)}
	}
	if err != nil {
		return nil, fmt.Errorf("metadata lookup: %w", err)
	}
	// live streams and pages without a length report zero
	if s.cfg.MaxVideoDuration > 0 && (meta.Duration <= 0 || meta.Duration > s.cfg.MaxVideoDuration) {
		return nil, &VideoTooLongError{VideoID: videoID, Duration: meta.Duration, Limit: s.cfg.MaxVideoDuration}
	}

	text, err := s.transcripts.Fetch(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("transcript for %s: %w", videoID, err)
	}
	if truncated, cut := llm.TruncateRunes(text, s.cfg.MaxTranscriptRunes); cut {
		log.Info().Int("limit", s.cfg.MaxTranscriptRunes).Msg("transcript truncated before prompting")
		text = truncated
	}

	raw, err := s.llm.Complete(ctx, llm.BuildPrompt(text, questions))
	if err != nil {
		return nil, fmt.Errorf("%s completion: %w", s.llm.Name(), err)
	}
	parsed, err := llm.ParseSummary(raw, questions)
	if err != nil {
		return nil, err
	}

	summary := &models.Summary{
		VideoID:     videoID,
		Title:       meta.Title,
		Description: parsed.Description,
		KeyPoints:   parsed.KeyPoints,
		FAQs:        parsed.FAQs,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	if err := s.store.Upsert(ctx, summary); err != nil {
		log.Error().Err(err).Msg("failed to persist summary")
	}
	if err := s.cache.Set(ctx, cache.SummaryKey(videoID), summary, s.cfg.CacheTTL); err != nil {
		log.Warn().Err(err).Msg("failed to cache summary")
	}

	log.Info().Int("key_points", len(summary.KeyPoints)).Str("llm", s.llm.Name()).Msg("summary generated")
	return &Result{Summary: summary}, nil
}

// Get returns a stored summary, from cache when possible.
func (s *Summarizer) Get(ctx context.Context, videoID string) (*models.Summary, error) {
	if cached, ok := s.lookup(ctx, videoID); ok {
		return cached, nil
	}

	summary, err := s.store.GetByVideoID(ctx, videoID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &NotFoundError{Message: fmt.Sprintf("no summary for video %s", videoID)}
	}
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, cache.SummaryKey(videoID), summary, s.cfg.CacheTTL); err != nil {
		logger.FromContext(ctx).Warn().Err(err).Str("video_id", videoID).Msg("failed to cache summary")
	}
	return summary, nil
}

// Invalidate drops the cached summary so the next request regenerates it.
func (s *Summarizer) Invalidate(ctx context.Context, videoID string) error {
	return s.cache.Delete(ctx, cache.SummaryKey(videoID))
}

func (s *Summarizer) lookup(ctx context.Context, videoID string) (*models.Summary, bool) {
	var cached models.Summary
	hit, err := s.cache.Get(ctx, cache.SummaryKey(videoID), &cached)
	if err != nil {
		logger.FromContext(ctx).Warn().Err(err).Str("video_id", videoID).Msg("summary cache lookup failed")
		return nil, false
	}
	if !hit {
		return nil, false
	}
	return &cached, true
}

func (s *Summarizer) questions(requested []string) []string {
	var out []string
	for _, q := range requested {
		if q = strings.TrimSpace(q); q != "" {
			out = append(out, q)
		}
		if len(out) == maxQuestions {
			break
		}
	}
	if len(out) == 0 {
		out = s.cfg.DefaultQuestions
	}
	if len(out) > maxQuestions {
		out = out[:maxQuestions]
	}
	return out
}

func sameQuestions(faqs []models.FAQ, questions []string) bool {
	if len(faqs) != len(questions) {
		return false
	}
	for i, f := range faqs {
		if f.Question != questions[i] {
			return false
		}
	}
	return true
}
