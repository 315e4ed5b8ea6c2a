package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"tldw-backend/internal/cache"
	"tldw-backend/internal/config"
	"tldw-backend/internal/database"
	"tldw-backend/internal/handlers"
	"tldw-backend/internal/llm"
	"tldw-backend/internal/logger"
	"tldw-backend/internal/middleware"
	"tldw-backend/internal/models"
	"tldw-backend/internal/repository"
	"tldw-backend/internal/router"
	"tldw-backend/internal/services"
	"tldw-backend/internal/transcript"
	"tldw-backend/internal/websocket"
	"tldw-backend/internal/worker"
	"tldw-backend/internal/youtube"
	"tldw-backend/migrations"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func run() error {
	// ──── Step 1: Load Environment Variables ────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	logger.Setup(cfg.LogLevel, cfg.LogPretty)
	log.Info().Str("env", cfg.Env).Msg("starting tldw backend")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ──── Step 2: PostgreSQL + migrations ────
	pool, err := database.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	defer pool.Close()

	if err := database.RunMigrations(ctx, pool, migrations.FS); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	log.Info().Msg("database ready")

	// ──── Step 3: Redis (optional) and cache ────
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		defer redisClient.Close()
	}

	var summaryCache cache.Cache = cache.NewMemory()
	if cfg.CacheBackend == "redis" {
		summaryCache = cache.NewRedis(redisClient)
	}
	log.Info().Str("backend", cfg.CacheBackend).Msg("cache ready")

	// ──── Repositories ────
	summaryRepo := repository.NewSummaryRepo(pool)
	trendingRepo := repository.NewTrendingRepo(pool)
	eventRepo := repository.NewEventRepo(pool)
	jobRepo := repository.NewJobRepo(pool)

	// ──── Step 4: External clients ────
	var (
		metadata youtube.MetadataProvider = youtube.NewPageScraper()
		source   services.VideoSource
	)
	if cfg.YouTubeDataAPIKey != "" {
		dataAPI, err := youtube.NewDataAPI(ctx, cfg.YouTubeDataAPIKey)
		if err != nil {
			return fmt.Errorf("youtube data api: %w", err)
		}
		metadata, source = dataAPI, dataAPI
	} else {
		log.Warn().Msg("YOUTUBE_DATA_API_KEY not set; using watch-page metadata and disabling trending snapshots")
	}

	providers, err := transcript.Build(cfg.TranscriptProviders, transcript.Options{
		RapidAPIKey:    cfg.RapidAPIKey,
		SupadataAPIKey: cfg.SupadataAPIKey,
	})
	if err != nil {
		return fmt.Errorf("transcript providers: %w", err)
	}
	transcripts := transcript.NewFallback(providers...)
	log.Info().Strs("providers", transcripts.Providers()).Msg("transcript providers configured")

	llmClient, closeLLM, err := newLLM(ctx, cfg)
	if err != nil {
		return fmt.Errorf("llm: %w", err)
	}
	defer closeLLM()

	// ──── Services ────
	summarizer := services.NewSummarizer(summaryCache, summaryRepo, metadata, transcripts, llm.Instrument(llmClient), services.SummarizerConfig{
		MaxVideoDuration:   time.Duration(cfg.MaxVideoMinutes) * time.Minute,
		MaxTranscriptRunes: cfg.MaxTranscriptRunes,
		DefaultQuestions:   cfg.DefaultFAQs,
		CacheTTL:           cfg.SummaryCacheTTL,
	})
	popular := services.NewPopularService(summaryCache, summaryRepo, cfg.PopularCacheTTL)
	trending := services.NewTrendingService(source, trendingRepo, services.TrendingConfig{
		Channels:       youtube.DefaultChannels,
		ChannelsPerRun: cfg.TrendingChannelsPerRun,
		TopPerChannel:  cfg.TrendingTopPerChannel,
		MinDuration:    time.Duration(cfg.TrendingMinMinutes * float64(time.Minute)),
		Lookback:       cfg.TrendingLookback,
	})
	events := services.NewEventService(eventRepo, summaryRepo)

	jwtAuth := middleware.NewJWTAuth(cfg.JWTSecret)
	admin := services.NewAdminService(cfg.AdminKeyHash, jwtAuth)
	if !admin.Enabled() {
		log.Warn().Msg("ADMIN_KEY_HASH not set; admin endpoints will reject every request")
	}

	// ──── Step 5: Background jobs ────
	jobHandlers := services.JobHandlers(popular, trending, summarizer, summaryCache)

	wsHub := websocket.NewHub(redisClient, jwtAuth.ValidAdminToken)

	var (
		dispatcher worker.Dispatcher
		runWorkers func(context.Context) error
	)
	if redisClient != nil {
		p := worker.NewPool(redisClient, jobRepo, jobHandlers, cfg.WorkerCount)
		p.SetNotifier(wsHub)
		dispatcher, runWorkers = p, p.Run
	} else {
		in := worker.NewInline(jobRepo, jobHandlers)
		in.SetNotifier(wsHub)
		dispatcher, runWorkers = in, in.Run
	}

	scheduler := services.NewScheduler(dispatcher).
		Every(cfg.CacheRefreshInterval, models.JobFlushCache, false)
	if trending.Enabled() {
		scheduler.Every(cfg.TrendingInterval, models.JobTrendingSnapshot, true)
	}

	// ──── Step 6: HTTP server ────
	r := router.New(
		jwtAuth,
		handlers.NewSummaryHandler(summarizer),
		handlers.NewVideoHandler(popular, trending),
		handlers.NewLogHandler(events),
		handlers.NewAdminHandler(admin, dispatcher, summarizer),
		handlers.NewJobHandler(jobRepo),
		wsHub,
		router.Options{
			CORSAllowedOrigins: cfg.CORSAllowedOrigins,
			RateRPS:            cfg.RateRPS,
			RateBurst:          cfg.RateBurst,
		},
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		// LLM completions on long transcripts routinely take longer than a minute.
		WriteTimeout: 3 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return runWorkers(gctx) })
	g.Go(func() error { return scheduler.Run(gctx) })
	g.Go(func() error {
		log.Info().Str("addr", server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// newLLM builds the configured completion backend and its cleanup func.
func newLLM(ctx context.Context, cfg *config.Config) (llm.Client, func(), error) {
	switch cfg.LLMProvider {
	case "openai":
		return llm.NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.LLMConcurrentReqs), func() {}, nil
	default:
		g, err := llm.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.LLMConcurrentReqs)
		if err != nil {
			return nil, nil, err
		}
		return g, func() {
			if err := g.Close(); err != nil {
				log.Warn().Err(err).Msg("closing gemini client")
			}
		}, nil
	}
}
