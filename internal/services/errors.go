package services

import (
	"fmt"
	"time"
)

type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if e.Message == "" {
		return "Validation error"
	}
	return e.Message
}

type NotFoundError struct{ Message string }

func (e *NotFoundError) Error() string { return e.Message }

type UnauthorizedError struct{ Message string }

func (e *UnauthorizedError) Error() string { return e.Message }

// VideoTooLongError rejects videos above the configured duration ceiling.
// A zero Duration means the length could not be determined.
type VideoTooLongError struct {
	VideoID  string
	Duration time.Duration
	Limit    time.Duration
}

func (e *VideoTooLongError) Error() string {
	if e.Duration <= 0 {
		return fmt.Sprintf("length of video %s is unknown; the limit is %s", e.VideoID, e.Limit)
	}
	return fmt.Sprintf("video %s is %s long; the limit is %s", e.VideoID, e.Duration, e.Limit)
}
