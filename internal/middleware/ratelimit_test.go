package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func TestRateLimiter_BlocksAfterBurst(t *testing.T) {
	rl := NewRateLimiter(0.001, 2)
	h := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	do := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/summarize", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusNoContent, do("203.0.113.9:1000").Code)
	assert.Equal(t, http.StatusNoContent, do("203.0.113.9:1001").Code)

	blocked := do("203.0.113.9:1002")
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.Equal(t, "1", blocked.Header().Get("Retry-After"))
	assert.Contains(t, blocked.Body.String(), "RATE_LIMITED")

	assert.Equal(t, http.StatusNoContent, do("198.51.100.7:1000").Code)
}

func TestRateLimiter_BurstCoercion(t *testing.T) {
	rl := NewRateLimiter(1, 0)
	assert.Equal(t, 1, rl.burst)

	lim := rl.limiter("k1")
	assert.Same(t, lim, rl.limiter("k1"))
}

func TestRateLimiter_EvictsIdleVisitors(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	now := time.Now()
	rl.now = func() time.Time { return now }

	rl.visitors["old"] = &visitor{limiter: rate.NewLimiter(1, 1), lastSeen: now.Add(-time.Hour)}
	rl.lookups = cleanupEveryN - 1

	rl.limiter("new")

	assert.NotContains(t, rl.visitors, "old")
	assert.Contains(t, rl.visitors, "new")
}
