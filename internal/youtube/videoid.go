package youtube

import (
	urlpkg "net/url"
	"regexp"
	"strings"
)

var (
	videoIDRe       = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
	videoIDLooseRe  = regexp.MustCompile(`(?:v=|/v/|youtu\.be/|/embed/|/shorts/|/live/)([A-Za-z0-9_-]{11})`)
	youtubeHostRe   = regexp.MustCompile(`(^|\.)youtube(-nocookie)?\.com$`)
	shortLinkHostRe = regexp.MustCompile(`(^|\.)youtu\.be$`)
)

// ExtractVideoID returns the 11-character video id referenced by a YouTube
// URL. Watch, short, mobile, embed, shorts, live and attribution links are
// accepted, with or without a scheme; a bare id is returned as is.
func ExtractVideoID(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	if videoIDRe.MatchString(raw) {
		return raw, true
	}

	candidate := raw
	if !strings.Contains(candidate, "://") {
		candidate = "https://" + candidate
	}

	parsed, err := urlpkg.Parse(candidate)
	if err == nil {
		host := strings.ToLower(parsed.Hostname())
		path := strings.Trim(parsed.Path, "/")

		switch {
		case youtubeHostRe.MatchString(host):
			if v := parsed.Query().Get("v"); videoIDRe.MatchString(v) {
				return v, true
			}
			parts := strings.Split(path, "/")
			if len(parts) >= 2 {
				switch parts[0] {
				case "shorts", "embed", "v", "live", "e":
					if videoIDRe.MatchString(parts[1]) {
						return parts[1], true
					}
				}
			}
			// attribution_link?u=/watch%3Fv%3D<id> wraps a relative watch URL
			if u := parsed.Query().Get("u"); strings.HasPrefix(u, "/") && !strings.HasPrefix(u, "//") {
				return ExtractVideoID("https://www.youtube.com" + u)
			}
			return "", false
		case shortLinkHostRe.MatchString(host):
			id := strings.Split(path, "/")[0]
			if videoIDRe.MatchString(id) {
				return id, true
			}
			return "", false
		}
	}

	// Fallback for unusual URL forms
	if m := videoIDLooseRe.FindStringSubmatch(raw); len(m) > 1 {
		return m[1], true
	}
	return "", false
}

// WatchURL is the canonical watch-page URL for id.
func WatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}
