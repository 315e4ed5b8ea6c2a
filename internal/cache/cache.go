// Package cache stores JSON-encoded values under string keys with a TTL.
package cache

import (
	"context"
	"time"
)

const PopularVideosKey = "popular_videos"

func SummaryKey(videoID string) string {
	return "summary:" + videoID
}

// Cache is implemented by Redis and Memory. Get decodes the stored value
// into dst and reports whether the key was present.
type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	// Flush drops every key this service owns.
	Flush(ctx context.Context) error
}
