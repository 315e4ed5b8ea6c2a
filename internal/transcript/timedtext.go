package transcript

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"tldw-backend/internal/youtube"
)

var (
	captionTracksRe   = regexp.MustCompile(`"captionTracks"\s*:\s*\[(.*?)\],\s*"`)
	captionRendererRe = regexp.MustCompile(`"playerCaptionsTracklistRenderer"\s*:\s*\{(?:.*?,)?\s*"captionTracks"\s*:\s*\[(.*?)\],\s*"`)
	captionBaseURLRe  = regexp.MustCompile(`"baseUrl"\s*:\s*"(.*?)"`)
)

const maxCaptionBytes = 8 << 20

var errNoCaptionTracks = errors.New("no caption tracks on watch page")

type timedTextXML struct {
	XMLName xml.Name  `xml:"transcript"`
	Texts   []textXML `xml:"text"`
}

type textXML struct {
	Start string `xml:"start,attr"`
	Dur   string `xml:"dur,attr"`
	Text  string `xml:",chardata"`
}

// TimedText scrapes the caption track URL from the watch page and downloads
// the timed-text XML behind it.
type TimedText struct {
	httpClient *http.Client
	baseURL    string
}

func NewTimedText() *TimedText {
	return &TimedText{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    "https://www.youtube.com",
	}
}

func (t *TimedText) Name() string { return "timedtext" }

func (t *TimedText) Fetch(ctx context.Context, videoID string) (string, error) {
	page, err := youtube.FetchWatchPage(ctx, t.httpClient, t.baseURL, videoID)
	if err != nil {
		return "", err
	}

	captionURL, err := extractCaptionURL(page)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, captionURL, nil)
	if err != nil {
		return "", fmt.Errorf("invalid caption URL: %w", err)
	}
	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch captions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("captions endpoint returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxCaptionBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read captions: %w", err)
	}

	text, err := parseCaptionsXML(body)
	if err != nil {
		return "", fmt.Errorf("failed to parse captions XML: %w", err)
	}
	return text, nil
}

func extractCaptionURL(page string) (string, error) {
	m := captionTracksRe.FindStringSubmatch(page)
	if len(m) < 2 {
		m = captionRendererRe.FindStringSubmatch(page)
		if len(m) < 2 {
			return "", errNoCaptionTracks
		}
	}

	u := captionBaseURLRe.FindStringSubmatch(m[1])
	if len(u) < 2 {
		return "", errors.New("caption track found but baseUrl missing")
	}

	captionURL := strings.ReplaceAll(u[1], `\u0026`, "&")
	captionURL = strings.ReplaceAll(captionURL, `\/`, "/")
	return captionURL, nil
}

func parseCaptionsXML(data []byte) (string, error) {
	var tt timedTextXML
	if err := xml.Unmarshal(data, &tt); err != nil {
		return "", err
	}

	parts := make([]string, 0, len(tt.Texts))
	for _, t := range tt.Texts {
		// entities arrive double-encoded, e.g. &amp;#39;
		text := strings.TrimSpace(html.UnescapeString(t.Text))
		if text != "" {
			parts = append(parts, text)
		}
	}
	if len(parts) == 0 {
		return "", errors.New("captions XML empty")
	}
	return strings.Join(parts, " "), nil
}
