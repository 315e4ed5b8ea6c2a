package services

import (
	"context"
	"time"

	"tldw-backend/internal/cache"
	"tldw-backend/internal/logger"
	"tldw-backend/internal/models"
)

// popularListSize is how many entries are kept under the popular-videos key;
// requests for fewer are served by slicing.
const popularListSize = 50

type PopularStore interface {
	ListPopular(ctx context.Context, limit int) ([]models.PopularVideo, error)
}

// PopularService serves the most summarized videos.
type PopularService struct {
	cache cache.Cache
	store PopularStore
	ttl   time.Duration
}

func NewPopularService(c cache.Cache, store PopularStore, ttl time.Duration) *PopularService {
	return &PopularService{cache: c, store: store, ttl: ttl}
}

func (s *PopularService) Popular(ctx context.Context, limit int) ([]models.PopularVideo, error) {
	var videos []models.PopularVideo
	hit, err := s.cache.Get(ctx, cache.PopularVideosKey, &videos)
	if err != nil {
		logger.FromContext(ctx).Warn().Err(err).Msg("popular videos cache lookup failed")
	}
	if !hit {
		videos, err = s.Refresh(ctx)
		if err != nil {
			return nil, err
		}
	}

	if limit > 0 && len(videos) > limit {
		videos = videos[:limit]
	}
	return videos, nil
}

// Refresh recomputes the popular list from the database and caches it.
func (s *PopularService) Refresh(ctx context.Context) ([]models.PopularVideo, error) {
	videos, err := s.store.ListPopular(ctx, popularListSize)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, cache.PopularVideosKey, videos, s.ttl); err != nil {
		logger.FromContext(ctx).Warn().Err(err).Msg("failed to cache popular videos")
	}
	return videos, nil
}
