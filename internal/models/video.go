package models

import "time"

type VideoMetadata struct {
	VideoID      string        `json:"video_id"`
	Title        string        `json:"title"`
	ChannelID    string        `json:"channel_id"`
	ChannelName  string        `json:"channel_name"`
	Duration     time.Duration `json:"duration"`
	PublishedAt  *time.Time    `json:"published_at,omitempty"`
	Views        int64         `json:"views"`
	Likes        int64         `json:"likes"`
	Comments     int64         `json:"comments"`
	ThumbnailURL string        `json:"thumbnail_url"`
}

type Channel struct {
	ID   string `json:"channel_id"`
	Name string `json:"channel_name"`
}

type TrendingVideo struct {
	VideoID         string    `json:"video_id"`
	Title           string    `json:"title"`
	ChannelID       string    `json:"channel_id"`
	ChannelName     string    `json:"channel_name"`
	DurationMinutes float64   `json:"duration_minutes"`
	Views           int64     `json:"views"`
	Likes           int64     `json:"likes"`
	Comments        int64     `json:"comments"`
	PublishedAt     time.Time `json:"published_at"`
	FetchedAt       time.Time `json:"fetched_at"`
}

type EventLog struct {
	ID        int64     `json:"id"`
	VideoID   string    `json:"video_id"`
	Event     string    `json:"event"`
	Detail    string    `json:"detail"`
	CreatedAt time.Time `json:"created_at"`
}
