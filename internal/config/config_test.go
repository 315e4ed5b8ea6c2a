package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEnvOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		envValue   string
		defaultVal string
		expected   string
	}{
		{"uses env value", "TEST_VAR_1", "hello", "default", "hello"},
		{"uses default when empty", "TEST_VAR_2", "", "default", "default"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.envValue != "" {
				t.Setenv(tc.key, tc.envValue)
			}

			result := getEnvOrDefault(tc.key, tc.defaultVal)
			if result != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, result)
			}
		})
	}
}

func TestGetEnvAsIntOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		envValue   string
		defaultVal int
		expected   int
	}{
		{"parses integer", "TEST_INT_1", "42", 10, 42},
		{"uses default for empty", "TEST_INT_2", "", 10, 10},
		{"uses default for non-numeric", "TEST_INT_3", "abc", 10, 10},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.envValue != "" {
				t.Setenv(tc.key, tc.envValue)
			}

			result := getEnvAsIntOrDefault(tc.key, tc.defaultVal)
			if result != tc.expected {
				t.Errorf("Expected %d, got %d", tc.expected, result)
			}
		})
	}
}

func TestGetEnvAsDurationOrDefault(t *testing.T) {
	t.Setenv("TEST_DUR_1", "90m")
	t.Setenv("TEST_DUR_2", "soon")
	t.Setenv("TEST_DUR_3", "-5s")

	assert.Equal(t, 90*time.Minute, getEnvAsDurationOrDefault("TEST_DUR_1", time.Hour))
	assert.Equal(t, time.Hour, getEnvAsDurationOrDefault("TEST_DUR_2", time.Hour))
	assert.Equal(t, time.Hour, getEnvAsDurationOrDefault("TEST_DUR_3", time.Hour))
	assert.Equal(t, time.Hour, getEnvAsDurationOrDefault("TEST_DUR_UNSET", time.Hour))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, splitList(" a, b ,,c ", ","))
	assert.Empty(t, splitList("", ","))
	assert.Equal(t, []string{"What?", "Why?"}, splitList("What?|Why?", "|"))
}

func TestRequiredEnv(t *testing.T) {
	os.Unsetenv("NONEXISTENT_REQUIRED_VAR")
	_, err := requiredEnv("NONEXISTENT_REQUIRED_VAR")
	assert.ErrorContains(t, err, "NONEXISTENT_REQUIRED_VAR")

	t.Setenv("TEST_REQUIRED", "value123")
	result, err := requiredEnv("TEST_REQUIRED")
	require.NoError(t, err)
	if result != "value123" {
		t.Errorf("Expected 'value123', got %q", result)
	}
}

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost/tldw")
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("REDIS_URL", "")
	t.Setenv("CACHE_BACKEND", "")
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("LOG_LEVEL", "")
}

func TestLoad_Defaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.CacheBackend)
	assert.Equal(t, "gemini", cfg.LLMProvider)
	assert.Equal(t, 60, cfg.MaxVideoMinutes)
	assert.Equal(t, []string{"timedtext", "transcriptapi", "innertube", "rapidapi", "supadata"}, cfg.TranscriptProviders)
	assert.Len(t, cfg.DefaultFAQs, 3)
}

func TestLoad_RedisURLSelectsRedisBackend(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "redis", cfg.CacheBackend)
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"openai without key", map[string]string{"LLM_PROVIDER": "openai", "OPENAI_API_KEY": ""}},
		{"unknown provider", map[string]string{"LLM_PROVIDER": "llama"}},
		{"redis backend without url", map[string]string{"CACHE_BACKEND": "redis"}},
		{"bad log level", map[string]string{"LOG_LEVEL": "loud"}},
		{"admin hash without secret", map[string]string{"ADMIN_KEY_HASH": "$2a$10$abc", "JWT_SECRET": ""}},
		{"missing database url", map[string]string{"DATABASE_URL": ""}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			setBaseEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
