package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"tldw-backend/internal/models"
	"tldw-backend/internal/repository"
	"tldw-backend/internal/services"
)

type jobGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error)
}

type JobHandler struct {
	jobs jobGetter
}

func NewJobHandler(jobs jobGetter) *JobHandler {
	return &JobHandler{jobs: jobs}
}

func (h *JobHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, &services.ValidationError{Message: "invalid job id", Fields: map[string]string{"id": "must be a UUID"}})
		return
	}

	job, err := h.jobs.GetByID(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		handleServiceError(w, r, &services.NotFoundError{Message: "job not found"})
		return
	}
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}
