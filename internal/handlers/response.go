package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"strconv"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"tldw-backend/internal/logger"
	"tldw-backend/internal/models"
	"tldw-backend/internal/services"
	"tldw-backend/internal/transcript"
)

const maxBodyBytes = 64 << 10

// Shown to users instead of the raw error; the technical cause goes in detail.
var errorMessages = []string{
	"The hamsters powering our servers need a break. Try again in a moment.",
	"This video is playing hard to get.",
	"Our summarizer tripped over its own shoelaces.",
	"Even our AI could not sit through this one.",
	"Something went sideways. We are looking the other way too.",
	"The robots are on strike. Negotiations are ongoing.",
}

func randomMessage() string {
	return errorMessages[rand.IntN(len(errorMessages))]
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResp(code string, err error, r *http.Request) models.ErrorResponse {
	apiErr := models.APIError{
		Code:      code,
		Message:   randomMessage(),
		RequestID: chimiddleware.GetReqID(r.Context()),
	}
	if err != nil {
		apiErr.Detail = err.Error()
	}
	return models.ErrorResponse{Error: apiErr}
}

func errorRespWithFields(code string, err error, fields map[string]string, r *http.Request) models.ErrorResponse {
	resp := errorResp(code, err, r)
	resp.Error.Fields = fields
	return resp
}

func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validation   *services.ValidationError
		tooLong      *services.VideoTooLongError
		notFound     *services.NotFoundError
		unauthorized *services.UnauthorizedError
	)

	switch {
	case errors.As(err, &validation):
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", err, validation.Fields, r))
	case errors.As(err, &tooLong):
		writeJSON(w, http.StatusBadRequest, errorResp("VIDEO_TOO_LONG", err, r))
	case errors.Is(err, transcript.ErrNoTranscript):
		writeJSON(w, http.StatusBadRequest, errorResp("NO_TRANSCRIPT", transcript.ErrNoTranscript, r))
	case errors.As(err, &notFound):
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", err, r))
	case errors.As(err, &unauthorized):
		writeJSON(w, http.StatusUnauthorized, errorResp("UNAUTHORIZED", err, r))
	default:
		logger.FromContext(r.Context()).Error().Err(err).Msg("request failed")
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", err, r))
	}
}

// decodeJSON reads a bounded JSON body into dst. An empty body leaves dst
// untouched.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return &services.ValidationError{Message: fmt.Sprintf("invalid request body: %v", err)}
	}
	return nil
}

// queryLimit parses ?limit=, clamping it to [1, max].
func queryLimit(r *http.Request, def, max int) int {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}
