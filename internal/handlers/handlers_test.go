package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tldw-backend/internal/models"
	"tldw-backend/internal/repository"
	"tldw-backend/internal/services"
	"tldw-backend/internal/transcript"
)

// ─── Stubs ───

type stubSummarizer struct {
	result *services.Result
	err    error
	got    models.SummarizeRequest
	stored map[string]*models.Summary
}

func (s *stubSummarizer) Summarize(ctx context.Context, req models.SummarizeRequest) (*services.Result, error) {
	s.got = req
	return s.result, s.err
}

func (s *stubSummarizer) Get(ctx context.Context, videoID string) (*models.Summary, error) {
	if sum, ok := s.stored[videoID]; ok {
		return sum, nil
	}
	return nil, &services.NotFoundError{Message: "no summary"}
}

type stubDispatcher struct {
	jobs []*models.Job
	err  error
}

func (d *stubDispatcher) Enqueue(ctx context.Context, jobType string, payload any) (*models.Job, error) {
	if d.err != nil {
		return nil, d.err
	}
	job := &models.Job{ID: uuid.New(), Type: jobType, Status: models.JobPending}
	if payload != nil {
		job.Payload, _ = json.Marshal(payload)
	}
	d.jobs = append(d.jobs, job)
	return job, nil
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) models.APIError {
	t.Helper()
	var resp models.ErrorResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	return resp.Error
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// ─── Summary Handler Tests ───

func TestSummarize_Success(t *testing.T) {
	stub := &stubSummarizer{result: &services.Result{
		Summary: &models.Summary{
			VideoID:     "dQw4w9WgXcQ",
			Title:       "Never Gonna Give You Up",
			Description: "A song.",
			KeyPoints:   []string{"Loyalty"},
			FAQs:        []models.FAQ{{Question: "Why?", Answer: "Because."}},
		},
		Cached: true,
	}}
	h := NewSummaryHandler(stub)

	body := `{"url":"https://youtu.be/dQw4w9WgXcQ","refresh":true,"questions":["Why?"]}`
	rr := httptest.NewRecorder()
	h.Summarize(rr, httptest.NewRequest(http.MethodPost, "/api/v1/summarize", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, stub.got.Refresh)
	assert.Equal(t, []string{"Why?"}, stub.got.Questions)

	var resp models.SummarizeResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "dQw4w9WgXcQ", resp.VideoID)
	assert.Equal(t, "Never Gonna Give You Up", resp.Title)
	assert.True(t, resp.Cached)
	assert.Equal(t, "Because.", resp.FAQs[0].Answer)
}

func TestSummarize_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", &services.ValidationError{Message: "bad url"}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"too long", &services.VideoTooLongError{VideoID: "x", Duration: 2 * time.Hour, Limit: time.Hour}, http.StatusBadRequest, "VIDEO_TOO_LONG"},
		{"no transcript", errors.Join(transcript.ErrNoTranscript, errors.New("timedtext: 429")), http.StatusBadRequest, "NO_TRANSCRIPT"},
		{"unexpected", errors.New("pq: connection reset"), http.StatusInternalServerError, "INTERNAL_ERROR"},
		{"not found", &services.NotFoundError{Message: "video gone"}, http.StatusNotFound, "NOT_FOUND"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := NewSummaryHandler(&stubSummarizer{err: tc.err})

			rr := httptest.NewRecorder()
			h.Summarize(rr, httptest.NewRequest(http.MethodPost, "/api/v1/summarize", strings.NewReader(`{"url":"dQw4w9WgXcQ"}`)))

			assert.Equal(t, tc.status, rr.Code)
			apiErr := decodeError(t, rr)
			assert.Equal(t, tc.code, apiErr.Code)
			assert.Contains(t, errorMessages, apiErr.Message)
			assert.NotEmpty(t, apiErr.Detail)
		})
	}
}

func TestSummarize_MissingURL(t *testing.T) {
	stub := &stubSummarizer{}
	h := NewSummaryHandler(stub)

	for _, body := range []string{"", `{}`, `{"url":"  "}`} {
		rr := httptest.NewRecorder()
		h.Summarize(rr, httptest.NewRequest(http.MethodPost, "/api/v1/summarize", strings.NewReader(body)))

		assert.Equal(t, http.StatusBadRequest, rr.Code, "body %q", body)
		apiErr := decodeError(t, rr)
		assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
		assert.Contains(t, apiErr.Fields, "url")
	}
}

func TestSummarize_MalformedJSON(t *testing.T) {
	h := NewSummaryHandler(&stubSummarizer{})

	rr := httptest.NewRecorder()
	h.Summarize(rr, httptest.NewRequest(http.MethodPost, "/api/v1/summarize", strings.NewReader(`{"url":`)))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetSummary(t *testing.T) {
	h := NewSummaryHandler(&stubSummarizer{stored: map[string]*models.Summary{
		"dQw4w9WgXcQ": {VideoID: "dQw4w9WgXcQ", Title: "stored"},
	}})

	rr := httptest.NewRecorder()
	h.Get(rr, withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "videoID", "dQw4w9WgXcQ"))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"title":"stored"`)

	rr = httptest.NewRecorder()
	h.Get(rr, withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "videoID", "aaaaaaaaaaa"))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = httptest.NewRecorder()
	h.Get(rr, withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "videoID", "short"))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

// ─── Video Handler Tests ───

type stubPopular struct{ limit int }

func (s *stubPopular) Popular(ctx context.Context, limit int) ([]models.PopularVideo, error) {
	s.limit = limit
	return nil, nil
}

type stubTrending struct {
	channelID string
	limit     int
}

func (s *stubTrending) List(ctx context.Context, channelID string, limit int) ([]models.TrendingVideo, error) {
	s.channelID, s.limit = channelID, limit
	return []models.TrendingVideo{{VideoID: "aaaaaaaaaaa", Views: 10}}, nil
}

func TestPopular_ClampsLimitAndReturnsEmptyList(t *testing.T) {
	popular := &stubPopular{}
	h := NewVideoHandler(popular, &stubTrending{})

	rr := httptest.NewRecorder()
	h.Popular(rr, httptest.NewRequest(http.MethodGet, "/api/v1/videos/popular?limit=500", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 50, popular.limit)
	assert.JSONEq(t, `{"videos":[],"limit":50}`, rr.Body.String())
}

func TestTrending_PassesChannelFilter(t *testing.T) {
	trending := &stubTrending{}
	h := NewVideoHandler(&stubPopular{}, trending)

	rr := httptest.NewRecorder()
	h.Trending(rr, httptest.NewRequest(http.MethodGet, "/api/v1/videos/trending?channel_id=UC123&limit=abc", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "UC123", trending.channelID)
	assert.Equal(t, 20, trending.limit)
	assert.Contains(t, rr.Body.String(), "aaaaaaaaaaa")
}

// ─── Log Handler Tests ───

type stubEvents struct {
	err    error
	logged []*models.EventLog
}

func (s *stubEvents) Log(ctx context.Context, e *models.EventLog) error {
	if s.err != nil {
		return s.err
	}
	e.ID = 7
	s.logged = append(s.logged, e)
	return nil
}

func TestCreateLog(t *testing.T) {
	events := &stubEvents{}
	h := NewLogHandler(events)

	body, _ := json.Marshal(map[string]string{"video_id": "dQw4w9WgXcQ", "event": "view", "detail": "home page"})
	rr := httptest.NewRecorder()
	h.Create(rr, httptest.NewRequest(http.MethodPost, "/api/v1/logs", bytes.NewReader(body)))

	require.Equal(t, http.StatusCreated, rr.Code)
	require.Len(t, events.logged, 1)
	assert.Equal(t, "home page", events.logged[0].Detail)
	assert.Contains(t, rr.Body.String(), `"id":7`)
}

func TestCreateLog_ValidationError(t *testing.T) {
	h := NewLogHandler(&stubEvents{err: &services.ValidationError{Message: "invalid event", Fields: map[string]string{"event": "required"}}})

	rr := httptest.NewRecorder()
	h.Create(rr, httptest.NewRequest(http.MethodPost, "/api/v1/logs", strings.NewReader(`{"video_id":"dQw4w9WgXcQ"}`)))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, map[string]string{"event": "required"}, decodeError(t, rr).Fields)
}

// ─── Admin Handler Tests ───

type stubTokens struct{ err error }

func (s *stubTokens) IssueToken(key string) (string, time.Time, error) {
	if s.err != nil {
		return "", time.Time{}, s.err
	}
	return "jwt-for-" + key, time.Unix(1700000000, 0).UTC(), nil
}

type stubInvalidator struct{ invalidated []string }

func (s *stubInvalidator) Invalidate(ctx context.Context, videoID string) error {
	s.invalidated = append(s.invalidated, videoID)
	return nil
}

func TestAdminToken(t *testing.T) {
	h := NewAdminHandler(&stubTokens{}, &stubDispatcher{}, &stubInvalidator{})

	rr := httptest.NewRecorder()
	h.Token(rr, httptest.NewRequest(http.MethodPost, "/api/v1/admin/token", strings.NewReader(`{"key":"k"}`)))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"access_token":"jwt-for-k"`)

	h = NewAdminHandler(&stubTokens{err: &services.UnauthorizedError{Message: "Invalid admin key"}}, &stubDispatcher{}, &stubInvalidator{})
	rr = httptest.NewRecorder()
	h.Token(rr, httptest.NewRequest(http.MethodPost, "/api/v1/admin/token", strings.NewReader(`{"key":"bad"}`)))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAdminCacheJobs_Return202(t *testing.T) {
	d := &stubDispatcher{}
	h := NewAdminHandler(&stubTokens{}, d, &stubInvalidator{})

	tests := []struct {
		handler http.HandlerFunc
		jobType string
	}{
		{h.RefreshPopular, models.JobRefreshPopular},
		{h.TrendingSnapshot, models.JobTrendingSnapshot},
		{h.FlushCache, models.JobFlushCache},
	}

	for _, tc := range tests {
		t.Run(tc.jobType, func(t *testing.T) {
			rr := httptest.NewRecorder()
			tc.handler(rr, httptest.NewRequest(http.MethodPost, "/", nil))

			require.Equal(t, http.StatusAccepted, rr.Code)
			var accepted models.JobAccepted
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&accepted))
			assert.Equal(t, tc.jobType, accepted.Type)
			assert.NotEqual(t, uuid.Nil, accepted.JobID)
		})
	}
}

func TestAdminWarmSummary(t *testing.T) {
	d := &stubDispatcher{}
	inv := &stubInvalidator{}
	h := NewAdminHandler(&stubTokens{}, d, inv)

	rr := httptest.NewRecorder()
	h.WarmSummary(rr, withURLParam(httptest.NewRequest(http.MethodPost, "/", nil), "videoID", "dQw4w9WgXcQ"))

	require.Equal(t, http.StatusAccepted, rr.Code)
	assert.Equal(t, []string{"dQw4w9WgXcQ"}, inv.invalidated)
	require.Len(t, d.jobs, 1)
	assert.JSONEq(t, `{"video_id":"dQw4w9WgXcQ"}`, string(d.jobs[0].Payload))
}

func TestAdminEnqueueFailure(t *testing.T) {
	h := NewAdminHandler(&stubTokens{}, &stubDispatcher{err: errors.New("redis down")}, &stubInvalidator{})

	rr := httptest.NewRecorder()
	h.FlushCache(rr, httptest.NewRequest(http.MethodPost, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

// ─── Job Handler Tests ───

type stubJobs struct{ job *models.Job }

func (s *stubJobs) GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	if s.job != nil && s.job.ID == id {
		return s.job, nil
	}
	return nil, repository.ErrNotFound
}

func TestGetJob(t *testing.T) {
	job := &models.Job{ID: uuid.New(), Type: models.JobFlushCache, Status: models.JobCompleted}
	h := NewJobHandler(&stubJobs{job: job})

	rr := httptest.NewRecorder()
	h.Get(rr, withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", job.ID.String()))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"status":"completed"`)

	rr = httptest.NewRecorder()
	h.Get(rr, withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", uuid.NewString()))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = httptest.NewRecorder()
	h.Get(rr, withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", "nope"))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
