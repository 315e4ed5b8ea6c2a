package handlers

import (
	"context"
	"net/http"

	"tldw-backend/internal/models"
)

type popularLister interface {
	Popular(ctx context.Context, limit int) ([]models.PopularVideo, error)
}

type trendingLister interface {
	List(ctx context.Context, channelID string, limit int) ([]models.TrendingVideo, error)
}

type VideoHandler struct {
	popular  popularLister
	trending trendingLister
}

func NewVideoHandler(popular popularLister, trending trendingLister) *VideoHandler {
	return &VideoHandler{popular: popular, trending: trending}
}

func (h *VideoHandler) Popular(w http.ResponseWriter, r *http.Request) {
	limit := queryLimit(r, 10, 50)

	videos, err := h.popular.Popular(r.Context(), limit)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	if videos == nil {
		videos = []models.PopularVideo{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"videos": videos,
		"limit":  limit,
	})
}

func (h *VideoHandler) Trending(w http.ResponseWriter, r *http.Request) {
	limit := queryLimit(r, 20, 100)
	channelID := r.URL.Query().Get("channel_id")

	videos, err := h.trending.List(r.Context(), channelID, limit)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	if videos == nil {
		videos = []models.TrendingVideo{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"videos": videos,
		"limit":  limit,
	})
}
