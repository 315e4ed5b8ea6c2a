package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"tldw-backend/internal/models"
	"tldw-backend/internal/services"
	"tldw-backend/internal/youtube"
)

type summarizer interface {
	Summarize(ctx context.Context, req models.SummarizeRequest) (*services.Result, error)
	Get(ctx context.Context, videoID string) (*models.Summary, error)
}

type SummaryHandler struct {
	summarizer summarizer
}

func NewSummaryHandler(s summarizer) *SummaryHandler {
	return &SummaryHandler{summarizer: s}
}

func (h *SummaryHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	var req models.SummarizeRequest
	if err := decodeJSON(r, &req); err != nil {
		handleServiceError(w, r, err)
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		handleServiceError(w, r, &services.ValidationError{
			Message: "YouTube URL is required",
			Fields:  map[string]string{"url": "required"},
		})
		return
	}

	res, err := h.summarizer.Summarize(r.Context(), req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	s := res.Summary
	writeJSON(w, http.StatusOK, models.SummarizeResponse{
		VideoID:     s.VideoID,
		Title:       s.Title,
		Description: s.Description,
		KeyPoints:   s.KeyPoints,
		FAQs:        s.FAQs,
		Cached:      res.Cached,
	})
}

func (h *SummaryHandler) Get(w http.ResponseWriter, r *http.Request) {
	videoID, ok := youtube.ExtractVideoID(chi.URLParam(r, "videoID"))
	if !ok {
		handleServiceError(w, r, &services.ValidationError{Message: "invalid video id"})
		return
	}

	summary, err := h.summarizer.Get(r.Context(), videoID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
