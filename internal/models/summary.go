package models

import "time"

type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type Summary struct {
	VideoID         string    `json:"video_id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	KeyPoints       []string  `json:"key_points"`
	FAQs            []FAQ     `json:"faqs"`
	PopularityScore int       `json:"popularity_score"`
	TimesSummarized int       `json:"times_summarized"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type SummarizeRequest struct {
	URL       string   `json:"url"`
	Refresh   bool     `json:"refresh"`
	Questions []string `json:"questions,omitempty"`
}

type SummarizeResponse struct {
	VideoID     string   `json:"video_id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	KeyPoints   []string `json:"key_points"`
	FAQs        []FAQ    `json:"faqs"`
	Cached      bool     `json:"cached"`
}

// PopularVideo is the listing shape stored under the popular-videos cache key.
type PopularVideo struct {
	VideoID         string `json:"video_id"`
	Title           string `json:"title"`
	PopularityScore int    `json:"popularity_score"`
	TimesSummarized int    `json:"times_summarized"`
}
