package transcript

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/go-querystring/query"
)

const maxScraperResponseBytes = 16 << 20

// RapidAPI calls the youtube-transcript3 API hosted on RapidAPI.
type RapidAPI struct {
	httpClient *http.Client
	baseURL    string
	host       string
	apiKey     string
}

type rapidAPIQuery struct {
	VideoID string `url:"videoId"`
	Lang    string `url:"lang,omitempty"`
}

type rapidAPIResponse struct {
	Success    bool   `json:"success"`
	Error      string `json:"error"`
	Transcript []struct {
		Text     string  `json:"text"`
		Offset   float64 `json:"offset"`
		Duration float64 `json:"duration"`
	} `json:"transcript"`
}

func NewRapidAPI(apiKey string) *RapidAPI {
	return &RapidAPI{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    "https://youtube-transcript3.p.rapidapi.com",
		host:       "youtube-transcript3.p.rapidapi.com",
		apiKey:     apiKey,
	}
}

func (r *RapidAPI) Name() string { return "rapidapi" }

func (r *RapidAPI) Fetch(ctx context.Context, videoID string) (string, error) {
	v, err := query.Values(rapidAPIQuery{VideoID: videoID, Lang: "en"})
	if err != nil {
		return "", err
	}

	headers := map[string]string{
		"x-rapidapi-key":  r.apiKey,
		"x-rapidapi-host": r.host,
	}

	var out rapidAPIResponse
	if err := getJSON(ctx, r.httpClient, r.baseURL+"/api/transcript?"+v.Encode(), headers, &out); err != nil {
		return "", err
	}
	if !out.Success {
		if out.Error == "" {
			out.Error = "unsuccessful response"
		}
		return "", fmt.Errorf("rapidapi: %s", out.Error)
	}

	parts := make([]string, 0, len(out.Transcript))
	for _, seg := range out.Transcript {
		if text := strings.TrimSpace(seg.Text); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " "), nil
}

// Supadata calls the Supadata transcript API in plain-text mode.
type Supadata struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

type supadataQuery struct {
	VideoID string `url:"videoId"`
	Text    bool   `url:"text"`
	Lang    string `url:"lang,omitempty"`
}

type supadataResponse struct {
	Content string `json:"content"`
	Lang    string `json:"lang"`
}

func NewSupadata(apiKey string) *Supadata {
	return &Supadata{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    "https://api.supadata.ai/v1",
		apiKey:     apiKey,
	}
}

func (s *Supadata) Name() string { return "supadata" }

func (s *Supadata) Fetch(ctx context.Context, videoID string) (string, error) {
	v, err := query.Values(supadataQuery{VideoID: videoID, Text: true})
	if err != nil {
		return "", err
	}

	var out supadataResponse
	if err := getJSON(ctx, s.httpClient, s.baseURL+"/youtube/transcript?"+v.Encode(), map[string]string{"x-api-key": s.apiKey}, &out); err != nil {
		return "", err
	}
	return out.Content, nil
}

func getJSON(ctx context.Context, client *http.Client, url string, headers map[string]string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxScraperResponseBytes))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
