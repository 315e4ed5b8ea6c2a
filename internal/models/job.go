package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	JobRefreshPopular   = "refresh-popular"
	JobTrendingSnapshot = "trending-snapshot"
	JobFlushCache       = "flush-cache"
	JobWarmSummary      = "warm-summary"
)

const (
	JobPending    = "pending"
	JobProcessing = "processing"
	JobCompleted  = "completed"
	JobFailed     = "failed"
)

type Job struct {
	ID           uuid.UUID       `json:"id"`
	Type         string          `json:"type"` // one of the Job* type constants
	Payload      json.RawMessage `json:"payload,omitempty"`
	Status       string          `json:"status"`
	RetryCount   int             `json:"retry_count"`
	ErrorMessage *string         `json:"error_message,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	CompletedAt  *time.Time      `json:"completed_at,omitempty"`
}

type WarmSummaryPayload struct {
	VideoID string `json:"video_id"`
}

type JobAccepted struct {
	JobID uuid.UUID `json:"job_id"`
	Type  string    `json:"type"`
}

type APIError struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Detail    string            `json:"detail,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}
