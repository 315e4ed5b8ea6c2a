package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"tldw-backend/internal/models"
	"tldw-backend/internal/services"
	"tldw-backend/internal/worker"
	"tldw-backend/internal/youtube"
)

type tokenIssuer interface {
	IssueToken(key string) (string, time.Time, error)
}

type summaryInvalidator interface {
	Invalidate(ctx context.Context, videoID string) error
}

type AdminHandler struct {
	tokens     tokenIssuer
	dispatcher worker.Dispatcher
	summaries  summaryInvalidator
}

func NewAdminHandler(tokens tokenIssuer, dispatcher worker.Dispatcher, summaries summaryInvalidator) *AdminHandler {
	return &AdminHandler{tokens: tokens, dispatcher: dispatcher, summaries: summaries}
}

func (h *AdminHandler) Token(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Key string `json:"key"`
	}
	if err := decodeJSON(r, &req); err != nil {
		handleServiceError(w, r, err)
		return
	}

	token, expires, err := h.tokens.IssueToken(req.Key)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"access_token": token,
		"token_type":   "Bearer",
		"expires_at":   expires,
	})
}

func (h *AdminHandler) RefreshPopular(w http.ResponseWriter, r *http.Request) {
	h.enqueue(w, r, models.JobRefreshPopular, nil)
}

func (h *AdminHandler) TrendingSnapshot(w http.ResponseWriter, r *http.Request) {
	h.enqueue(w, r, models.JobTrendingSnapshot, nil)
}

func (h *AdminHandler) FlushCache(w http.ResponseWriter, r *http.Request) {
	h.enqueue(w, r, models.JobFlushCache, nil)
}

// WarmSummary drops the cached summary and regenerates it in the background.
func (h *AdminHandler) WarmSummary(w http.ResponseWriter, r *http.Request) {
	videoID, ok := youtube.ExtractVideoID(chi.URLParam(r, "videoID"))
	if !ok {
		handleServiceError(w, r, &services.ValidationError{Message: "invalid video id"})
		return
	}

	if err := h.summaries.Invalidate(r.Context(), videoID); err != nil {
		handleServiceError(w, r, err)
		return
	}
	h.enqueue(w, r, models.JobWarmSummary, models.WarmSummaryPayload{VideoID: videoID})
}

func (h *AdminHandler) enqueue(w http.ResponseWriter, r *http.Request, jobType string, payload any) {
	job, err := h.dispatcher.Enqueue(r.Context(), jobType, payload)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, models.JobAccepted{JobID: job.ID, Type: job.Type})
}
