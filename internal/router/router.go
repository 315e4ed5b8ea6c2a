package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tldw-backend/internal/handlers"
	"tldw-backend/internal/middleware"
	"tldw-backend/internal/websocket"
)

const (
	adminTokenRPS   = 0.1
	adminTokenBurst = 3
)

type Options struct {
	CORSAllowedOrigins []string
	RateRPS            float64
	RateBurst          int
}

func New(
	jwtAuth *middleware.JWTAuth,
	summaryHandler *handlers.SummaryHandler,
	videoHandler *handlers.VideoHandler,
	logHandler *handlers.LogHandler,
	adminHandler *handlers.AdminHandler,
	jobHandler *handlers.JobHandler,
	wsHub *websocket.Hub,
	opts Options,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Summaries cost an LLM call, so they are limited per client IP.
	summarizeLimiter := middleware.NewRateLimiter(opts.RateRPS, opts.RateBurst)
	// Admin key guesses are bounded much tighter.
	tokenLimiter := middleware.NewRateLimiter(adminTokenRPS, adminTokenBurst)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {

		// ──── Summary Routes ────
		r.With(summarizeLimiter.Middleware).Post("/summarize", summaryHandler.Summarize)
		r.Get("/summaries/{videoID}", summaryHandler.Get)

		// ──── Listing Routes ────
		r.Route("/videos", func(r chi.Router) {
			r.Get("/popular", videoHandler.Popular)
			r.Get("/trending", videoHandler.Trending)
		})

		r.Post("/logs", logHandler.Create)

		// ──── Admin Routes ────
		r.With(tokenLimiter.Middleware).Post("/admin/token", adminHandler.Token)

		r.Group(func(r chi.Router) {
			r.Use(jwtAuth.Middleware)

			r.Route("/cache", func(r chi.Router) {
				r.Post("/popular", adminHandler.RefreshPopular)
				r.Post("/trending", adminHandler.TrendingSnapshot)
				r.Post("/flush", adminHandler.FlushCache)
				r.Post("/summaries/{videoID}", adminHandler.WarmSummary)
			})

			r.Get("/jobs/{id}", jobHandler.Get)
		})

		// WebSocket clients pass the admin token as ?token=
		r.Get("/jobs/{id}/ws", wsHub.HandleJob)
	})

	return r
}
