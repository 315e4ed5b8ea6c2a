package services

import (
	"context"
	"errors"
	"strings"

	"tldw-backend/internal/logger"
	"tldw-backend/internal/models"
	"tldw-backend/internal/repository"
	"tldw-backend/internal/youtube"
)

// EventView marks a summary being opened; it also bumps popularity.
const EventView = "view"

const maxEventLength = 64

type EventStore interface {
	Insert(ctx context.Context, e *models.EventLog) error
}

type ViewRecorder interface {
	RecordView(ctx context.Context, videoID string) error
}

type EventService struct {
	events EventStore
	views  ViewRecorder
}

func NewEventService(events EventStore, views ViewRecorder) *EventService {
	return &EventService{events: events, views: views}
}

func (s *EventService) Log(ctx context.Context, e *models.EventLog) error {
	e.VideoID = strings.TrimSpace(e.VideoID)
	e.Event = strings.ToLower(strings.TrimSpace(e.Event))

	fields := map[string]string{}
	if _, ok := youtube.ExtractVideoID(e.VideoID); !ok || len(e.VideoID) != 11 {
		fields["video_id"] = "must be an 11 character YouTube video id"
	}
	if e.Event == "" || len(e.Event) > maxEventLength {
		fields["event"] = "required, at most 64 characters"
	}
	if len(fields) > 0 {
		return &ValidationError{Message: "invalid event", Fields: fields}
	}

	if err := s.events.Insert(ctx, e); err != nil {
		return err
	}

	if e.Event == EventView {
		err := s.views.RecordView(ctx, e.VideoID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			logger.FromContext(ctx).Warn().Err(err).Str("video_id", e.VideoID).Msg("failed to record view")
		}
	}
	return nil
}
