package youtube

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"tldw-backend/internal/models"
)

const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

const maxWatchPageBytes = 8 << 20

var (
	pageTitleRe     = regexp.MustCompile(`<title>(.*?) - YouTube</title>`)
	pageChannelRe   = regexp.MustCompile(`"ownerChannelName":"(.*?)"`)
	pageChannelIDRe = regexp.MustCompile(`"channelId":"(UC[A-Za-z0-9_-]{22})"`)
	pageDurationRe  = regexp.MustCompile(`"lengthSeconds":"(\d+)"`)
	pageViewsRe     = regexp.MustCompile(`"viewCount":"(\d+)"`)
	pagePublishRe   = regexp.MustCompile(`"publishDate":"([^"]+)"`)
)

// FetchWatchPage downloads the HTML watch page of a video the way a browser
// would. baseURL is normally https://www.youtube.com.
func FetchWatchPage(ctx context.Context, client *http.Client, baseURL, videoID string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/watch?v="+videoID, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch YouTube page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("YouTube page returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxWatchPageBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read YouTube page: %w", err)
	}
	return string(body), nil
}

// PageScraper reads metadata out of the public watch page. It needs no API
// key and is used when the Data API is not configured.
type PageScraper struct {
	httpClient *http.Client
	baseURL    string
}

func NewPageScraper() *PageScraper {
	return &PageScraper{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    "https://www.youtube.com",
	}
}

// WithBaseURL points the scraper at another host (tests).
func (s *PageScraper) WithBaseURL(u string) *PageScraper {
	s.baseURL = u
	return s
}

func (s *PageScraper) GetMetadata(ctx context.Context, videoID string) (*models.VideoMetadata, error) {
	page, err := FetchWatchPage(ctx, s.httpClient, s.baseURL, videoID)
	if err != nil {
		return nil, err
	}
	return parseWatchPage(videoID, page)
}

func parseWatchPage(videoID, page string) (*models.VideoMetadata, error) {
	meta := &models.VideoMetadata{
		VideoID:      videoID,
		ThumbnailURL: thumbnailURL(videoID),
	}

	if m := pageTitleRe.FindStringSubmatch(page); len(m) > 1 {
		meta.Title = html.UnescapeString(m[1])
	}
	if meta.Title == "" {
		return nil, fmt.Errorf("%w: %s", ErrVideoNotFound, videoID)
	}
	if m := pageChannelRe.FindStringSubmatch(page); len(m) > 1 {
		meta.ChannelName = m[1]
	}
	if m := pageChannelIDRe.FindStringSubmatch(page); len(m) > 1 {
		meta.ChannelID = m[1]
	}
	if m := pageDurationRe.FindStringSubmatch(page); len(m) > 1 {
		secs, _ := strconv.Atoi(m[1])
		meta.Duration = time.Duration(secs) * time.Second
	}
	if m := pageViewsRe.FindStringSubmatch(page); len(m) > 1 {
		meta.Views, _ = strconv.ParseInt(m[1], 10, 64)
	}
	if m := pagePublishRe.FindStringSubmatch(page); len(m) > 1 {
		for _, layout := range []string{time.RFC3339, "2006-01-02"} {
			if t, err := time.Parse(layout, m[1]); err == nil {
				meta.PublishedAt = &t
				break
			}
		}
	}
	return meta, nil
}
