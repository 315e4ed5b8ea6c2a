package handlers

import (
	"context"
	"net/http"

	"tldw-backend/internal/models"
)

type eventLogger interface {
	Log(ctx context.Context, e *models.EventLog) error
}

type LogHandler struct {
	events eventLogger
}

func NewLogHandler(events eventLogger) *LogHandler {
	return &LogHandler{events: events}
}

func (h *LogHandler) Create(w http.ResponseWriter, r *http.Request) {
	var e models.EventLog
	if err := decodeJSON(r, &e); err != nil {
		handleServiceError(w, r, err)
		return
	}

	if err := h.events.Log(r.Context(), &e); err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}
