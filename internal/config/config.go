package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Logging
	LogLevel  string
	LogPretty bool

	// Database
	DatabaseURL string

	// Cache
	CacheBackend    string // "redis" | "memory"
	RedisURL        string
	SummaryCacheTTL time.Duration
	PopularCacheTTL time.Duration

	// LLM
	LLMProvider        string // "gemini" | "openai"
	GeminiAPIKey       string
	GeminiModel        string
	OpenAIAPIKey       string
	OpenAIModel        string
	LLMConcurrentReqs  int
	MaxTranscriptRunes int

	// YouTube
	YouTubeDataAPIKey   string
	MaxVideoMinutes     int
	TranscriptProviders []string
	RapidAPIKey         string
	SupadataAPIKey      string
	DefaultFAQs         []string

	// Background jobs
	WorkerCount            int
	TrendingInterval       time.Duration
	CacheRefreshInterval   time.Duration
	TrendingChannelsPerRun int
	TrendingTopPerChannel  int
	TrendingMinMinutes     float64
	TrendingLookback       time.Duration

	// Admin
	AdminKeyHash string
	JWTSecret    string

	// HTTP
	CORSAllowedOrigins []string
	RateRPS            float64
	RateBurst          int
}

var defaultFAQs = "What is the main topic of the video?|What are the most important takeaways?|Who would benefit most from watching this video?"

func Load() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	databaseURL, err := requiredEnv("DATABASE_URL")
	if err != nil {
		return nil, err
	}

	redisURL := getEnvOrDefault("REDIS_URL", "")
	cacheBackend := "memory"
	if redisURL != "" {
		cacheBackend = "redis"
	}

	cfg := &Config{
		Port:      getEnvOrDefault("PORT", "8080"),
		Env:       getEnvOrDefault("ENV", "development"),
		LogLevel:  strings.ToLower(getEnvOrDefault("LOG_LEVEL", "info")),
		LogPretty: getEnvAsBoolOrDefault("LOG_PRETTY", false),

		DatabaseURL: databaseURL,

		CacheBackend:    strings.ToLower(getEnvOrDefault("CACHE_BACKEND", cacheBackend)),
		RedisURL:        redisURL,
		SummaryCacheTTL: getEnvAsDurationOrDefault("SUMMARY_CACHE_TTL", 24*time.Hour),
		PopularCacheTTL: getEnvAsDurationOrDefault("POPULAR_CACHE_TTL", time.Hour),

		LLMProvider:        strings.ToLower(getEnvOrDefault("LLM_PROVIDER", "gemini")),
		GeminiAPIKey:       getEnvOrDefault("GEMINI_API_KEY", ""),
		GeminiModel:        getEnvOrDefault("GEMINI_MODEL", "gemini-2.0-flash-lite"),
		OpenAIAPIKey:       getEnvOrDefault("OPENAI_API_KEY", ""),
		OpenAIModel:        getEnvOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
		LLMConcurrentReqs:  getEnvAsIntOrDefault("LLM_CONCURRENT_REQUESTS", 5),
		MaxTranscriptRunes: getEnvAsIntOrDefault("MAX_TRANSCRIPT_RUNES", 120000),

		YouTubeDataAPIKey:   getEnvOrDefault("YOUTUBE_DATA_API_KEY", ""),
		MaxVideoMinutes:     getEnvAsIntOrDefault("MAX_VIDEO_MINUTES", 60),
		TranscriptProviders: splitList(getEnvOrDefault("TRANSCRIPT_PROVIDERS", "timedtext,transcriptapi,innertube,rapidapi,supadata"), ","),
		RapidAPIKey:         getEnvOrDefault("RAPIDAPI_KEY", ""),
		SupadataAPIKey:      getEnvOrDefault("SUPADATA_API_KEY", ""),
		DefaultFAQs:         splitList(getEnvOrDefault("DEFAULT_FAQS", defaultFAQs), "|"),

		WorkerCount:            getEnvAsIntOrDefault("WORKER_COUNT", 2),
		TrendingInterval:       getEnvAsDurationOrDefault("TRENDING_INTERVAL", 24*time.Hour),
		CacheRefreshInterval:   getEnvAsDurationOrDefault("CACHE_REFRESH_INTERVAL", 6*time.Hour),
		TrendingChannelsPerRun: getEnvAsIntOrDefault("TRENDING_CHANNELS_PER_RUN", 5),
		TrendingTopPerChannel:  getEnvAsIntOrDefault("TRENDING_TOP_PER_CHANNEL", 2),
		TrendingMinMinutes:     getEnvAsFloatOrDefault("TRENDING_MIN_MINUTES", 4),
		TrendingLookback:       getEnvAsDurationOrDefault("TRENDING_LOOKBACK", 30*24*time.Hour),

		AdminKeyHash: getEnvOrDefault("ADMIN_KEY_HASH", ""),
		JWTSecret:    getEnvOrDefault("JWT_SECRET", ""),

		CORSAllowedOrigins: splitList(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "*"), ","),
		RateRPS:            getEnvAsFloatOrDefault("RATE_RPS", 1),
		RateBurst:          getEnvAsIntOrDefault("RATE_BURST", 5),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	case "warning":
		c.LogLevel = "warn"
	default:
		return fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error (got %q)", c.LogLevel)
	}

	switch c.CacheBackend {
	case "memory":
	case "redis":
		if c.RedisURL == "" {
			return errors.New("CACHE_BACKEND=redis requires REDIS_URL")
		}
	default:
		return fmt.Errorf("CACHE_BACKEND must be redis or memory (got %q)", c.CacheBackend)
	}

	switch c.LLMProvider {
	case "gemini":
		if c.GeminiAPIKey == "" {
			return errors.New("LLM_PROVIDER=gemini requires GEMINI_API_KEY")
		}
	case "openai":
		if c.OpenAIAPIKey == "" {
			return errors.New("LLM_PROVIDER=openai requires OPENAI_API_KEY")
		}
	default:
		return fmt.Errorf("LLM_PROVIDER must be gemini or openai (got %q)", c.LLMProvider)
	}

	if c.MaxVideoMinutes <= 0 {
		return errors.New("MAX_VIDEO_MINUTES must be positive")
	}
	if len(c.TranscriptProviders) == 0 {
		return errors.New("TRANSCRIPT_PROVIDERS must name at least one provider")
	}
	if c.AdminKeyHash != "" && c.JWTSecret == "" {
		return errors.New("ADMIN_KEY_HASH requires JWT_SECRET")
	}
	if c.LLMConcurrentReqs < 1 {
		c.LLMConcurrentReqs = 1
	}
	if c.WorkerCount < 1 {
		c.WorkerCount = 1
	}
	if c.RateBurst < 1 {
		c.RateBurst = 1
	}
	if len(c.DefaultFAQs) > 3 {
		c.DefaultFAQs = c.DefaultFAQs[:3]
	}
	return nil
}

func requiredEnv(key string) (string, error) {
	val := os.Getenv(key)
	if val == "" {
		return "", fmt.Errorf("required environment variable %s is not set", key)
	}
	return val, nil
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

func getEnvAsFloatOrDefault(key string, defaultVal float64) float64 {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return defaultVal
	}
	return f
}

func getEnvAsBoolOrDefault(key string, defaultVal bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return b
}

func getEnvAsDurationOrDefault(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}

// splitList splits on sep, trims entries and drops empty ones.
func splitList(s, sep string) []string {
	parts := strings.Split(s, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
