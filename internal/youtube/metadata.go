package youtube

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/option"
	ytdata "google.golang.org/api/youtube/v3"

	"tldw-backend/internal/models"
)

var ErrVideoNotFound = errors.New("video not found")

// MetadataProvider looks up title, channel, duration and statistics for a video.
type MetadataProvider interface {
	GetMetadata(ctx context.Context, videoID string) (*models.VideoMetadata, error)
}

// DataAPI talks to the official YouTube Data API v3.
type DataAPI struct {
	service *ytdata.Service
}

func NewDataAPI(ctx context.Context, apiKey string, opts ...option.ClientOption) (*DataAPI, error) {
	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	service, err := ytdata.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube Data API client: %w", err)
	}
	return &DataAPI{service: service}, nil
}

func (a *DataAPI) GetMetadata(ctx context.Context, videoID string) (*models.VideoMetadata, error) {
	videos, err := a.VideoDetails(ctx, []string{videoID})
	if err != nil {
		return nil, err
	}
	if len(videos) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrVideoNotFound, videoID)
	}
	return videos[0], nil
}

// TopVideoIDs returns up to max video ids from a channel published after the
// given time, most viewed first.
func (a *DataAPI) TopVideoIDs(ctx context.Context, channelID string, max int64, publishedAfter time.Time) ([]string, error) {
	resp, err := a.service.Search.List([]string{"id", "snippet"}).
		ChannelId(channelID).
		Type("video").
		Order("viewCount").
		MaxResults(max).
		PublishedAfter(publishedAfter.UTC().Format(time.RFC3339)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to search channel %s: %w", channelID, err)
	}

	ids := make([]string, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Id != nil && item.Id.VideoId != "" {
			ids = append(ids, item.Id.VideoId)
		}
	}
	return ids, nil
}

// VideoDetails fetches snippet, duration and statistics for up to 50 ids.
func (a *DataAPI) VideoDetails(ctx context.Context, ids []string) ([]*models.VideoMetadata, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	resp, err := a.service.Videos.List([]string{"snippet", "contentDetails", "statistics"}).
		Id(strings.Join(ids, ",")).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get video details: %w", err)
	}

	out := make([]*models.VideoMetadata, 0, len(resp.Items))
	for _, item := range resp.Items {
		out = append(out, convertVideo(item))
	}
	return out, nil
}

func convertVideo(v *ytdata.Video) *models.VideoMetadata {
	meta := &models.VideoMetadata{
		VideoID:      v.Id,
		ThumbnailURL: thumbnailURL(v.Id),
	}

	if v.Snippet != nil {
		meta.Title = v.Snippet.Title
		meta.ChannelID = v.Snippet.ChannelId
		meta.ChannelName = v.Snippet.ChannelTitle
		if publishedAt, err := time.Parse(time.RFC3339, v.Snippet.PublishedAt); err == nil {
			meta.PublishedAt = &publishedAt
		}
		if v.Snippet.Thumbnails != nil && v.Snippet.Thumbnails.High != nil {
			meta.ThumbnailURL = v.Snippet.Thumbnails.High.Url
		}
	}
	if v.ContentDetails != nil {
		if d, err := ParseISODuration(v.ContentDetails.Duration); err == nil {
			meta.Duration = d
		}
	}
	if v.Statistics != nil {
		meta.Views = int64(v.Statistics.ViewCount)
		meta.Likes = int64(v.Statistics.LikeCount)
		meta.Comments = int64(v.Statistics.CommentCount)
	}
	return meta
}

func thumbnailURL(videoID string) string {
	return fmt.Sprintf("https://img.youtube.com/vi/%s/maxresdefault.jpg", videoID)
}
