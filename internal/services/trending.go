package services

import (
	"context"
	"errors"
	"math/rand/v2"
	"sort"
	"time"

	"tldw-backend/internal/logger"
	"tldw-backend/internal/models"
)

var ErrTrendingDisabled = errors.New("trending snapshots need YOUTUBE_DATA_API_KEY")

// VideoSource is the part of the YouTube Data API the snapshot uses;
// *youtube.DataAPI implements it.
type VideoSource interface {
	TopVideoIDs(ctx context.Context, channelID string, max int64, publishedAfter time.Time) ([]string, error)
	VideoDetails(ctx context.Context, ids []string) ([]*models.VideoMetadata, error)
}

type TrendingStore interface {
	UpsertMany(ctx context.Context, videos []models.TrendingVideo) error
	List(ctx context.Context, channelID string, limit int) ([]models.TrendingVideo, error)
}

type TrendingConfig struct {
	Channels       []models.Channel
	ChannelsPerRun int
	TopPerChannel  int
	MinDuration    time.Duration
	Lookback       time.Duration
}

type TrendingService struct {
	source  VideoSource
	store   TrendingStore
	cfg     TrendingConfig
	now     func() time.Time
	shuffle func(n int, swap func(i, j int))
}

// NewTrendingService builds the service; source may be nil, in which case
// snapshots are disabled but stored rows can still be listed.
func NewTrendingService(source VideoSource, store TrendingStore, cfg TrendingConfig) *TrendingService {
	return &TrendingService{
		source:  source,
		store:   store,
		cfg:     cfg,
		now:     time.Now,
		shuffle: rand.Shuffle,
	}
}

func (s *TrendingService) Enabled() bool {
	return s.source != nil
}

// Snapshot samples monitored channels, keeps each one's most viewed recent
// videos that are long enough, and stores them. A failing channel is
// skipped. It returns the number of videos stored.
func (s *TrendingService) Snapshot(ctx context.Context) (int, error) {
	if s.source == nil {
		return 0, ErrTrendingDisabled
	}

	log := logger.FromContext(ctx)
	now := s.now().UTC()
	publishedAfter := now.Add(-s.cfg.Lookback)

	var videos []models.TrendingVideo
	for _, ch := range s.sampleChannels() {
		ids, err := s.source.TopVideoIDs(ctx, ch.ID, int64(s.cfg.TopPerChannel), publishedAfter)
		if err != nil {
			if ctx.Err() != nil {
				return 0, ctx.Err()
			}
			log.Warn().Err(err).Str("channel_id", ch.ID).Msg("trending: channel search failed")
			continue
		}
		if len(ids) == 0 {
			continue
		}

		details, err := s.source.VideoDetails(ctx, ids)
		if err != nil {
			if ctx.Err() != nil {
				return 0, ctx.Err()
			}
			log.Warn().Err(err).Str("channel_id", ch.ID).Msg("trending: video details failed")
			continue
		}

		for _, d := range details {
			if d.Duration < s.cfg.MinDuration {
				continue
			}
			videos = append(videos, toTrendingVideo(d, ch, now))
		}
	}

	sort.SliceStable(videos, func(i, j int) bool { return videos[i].Views > videos[j].Views })

	if err := s.store.UpsertMany(ctx, videos); err != nil {
		return 0, err
	}
	log.Info().Int("videos", len(videos)).Msg("trending snapshot stored")
	return len(videos), nil
}

func (s *TrendingService) List(ctx context.Context, channelID string, limit int) ([]models.TrendingVideo, error) {
	return s.store.List(ctx, channelID, limit)
}

func (s *TrendingService) sampleChannels() []models.Channel {
	channels := append([]models.Channel(nil), s.cfg.Channels...)
	n := s.cfg.ChannelsPerRun
	if n <= 0 || n >= len(channels) {
		return channels
	}
	s.shuffle(len(channels), func(i, j int) { channels[i], channels[j] = channels[j], channels[i] })
	return channels[:n]
}

func toTrendingVideo(d *models.VideoMetadata, ch models.Channel, now time.Time) models.TrendingVideo {
	v := models.TrendingVideo{
		VideoID:         d.VideoID,
		Title:           d.Title,
		ChannelID:       d.ChannelID,
		ChannelName:     d.ChannelName,
		DurationMinutes: d.Duration.Minutes(),
		Views:           d.Views,
		Likes:           d.Likes,
		Comments:        d.Comments,
		PublishedAt:     now,
		FetchedAt:       now,
	}
	if v.ChannelID == "" {
		v.ChannelID = ch.ID
	}
	if v.ChannelName == "" {
		v.ChannelName = ch.Name
	}
	if d.PublishedAt != nil {
		v.PublishedAt = d.PublishedAt.UTC()
	}
	return v
}
