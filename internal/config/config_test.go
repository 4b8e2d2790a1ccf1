package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"PORT", "ENVIRONMENT", "ALLOWED_ORIGINS", "SITE_URL", "ADMIN_API_KEY", "ADMIN_USERNAME",
	"ADMIN_PASSWORD", "ADMIN_PASSWORD_HASH", "JWT_SECRET", "OPENAI_API_KEY", "OPENAI_MODEL",
	"OPENAI_BASE_URL", "DATABASE_URL", "PROJECTS_FILE", "UPLOADS_DIR", "ANSWERS_FILE", "PROFILE_FILE",
	"TELEGRAM_BOT_TOKEN", "DEFAULT_LANGUAGE", "CHAT_RATE_PER_SECOND", "CHAT_RATE_BURST",
	"SESSION_IDLE_TTL", "LOG_LEVEL", "LOG_FILE",
}

// clearEnv unsets every key Load reads and restores them after the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		if value, ok := os.LookupEnv(key); ok {
			require.NoError(t, os.Unsetenv(key))
			t.Cleanup(func() { os.Setenv(key, value) })
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:3001"}, cfg.AllowedOrigins)
	assert.Equal(t, "admin", cfg.Admin.Username)
	assert.Equal(t, DevAPIKey, cfg.Admin.APIKey)
	assert.True(t, cfg.Admin.UsingDevKey)
	assert.True(t, cfg.InsecureAdminKey())
	assert.Len(t, cfg.Admin.JWTSecret, 64)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
	assert.Equal(t, "./data/projects.json", cfg.ProjectsFile)
	assert.Equal(t, "./uploads", cfg.UploadsDir)
	assert.Equal(t, "en", cfg.DefaultLanguage)
	assert.Equal(t, 1.0, cfg.ChatRatePerSecond)
	assert.Equal(t, 5, cfg.ChatRateBurst)
	assert.Equal(t, 30*time.Minute, cfg.SessionIdleTTL)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("ALLOWED_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("SITE_URL", "https://victor.example/")
	t.Setenv("ADMIN_API_KEY", "k")
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("DEFAULT_LANGUAGE", "FR")
	t.Setenv("SESSION_IDLE_TTL", "5m")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CHAT_RATE_BURST", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, "https://victor.example", cfg.SiteURL)
	assert.False(t, cfg.Admin.UsingDevKey)
	assert.False(t, cfg.InsecureAdminKey())
	assert.Equal(t, "s", cfg.Admin.JWTSecret)
	assert.Equal(t, "fr", cfg.DefaultLanguage)
	assert.Equal(t, 5*time.Minute, cfg.SessionIdleTTL)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, 5, cfg.ChatRateBurst, "unparsable values keep the default")
}

func TestLoadRejectsInvalid(t *testing.T) {
	for key, value := range map[string]string{
		"PORT":                 "",
		"DEFAULT_LANGUAGE":     "de",
		"CHAT_RATE_PER_SECOND": "0",
		"SESSION_IDLE_TTL":     "-1s",
	} {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestSetupLoggerWithWriters(t *testing.T) {
	var stderr, file bytes.Buffer
	logger := SetupLoggerWithWriters(&stderr, &file, slog.LevelInfo)

	logger.Debug("hidden")
	logger.Info("resolved", "source", "predefined")

	assert.Contains(t, stderr.String(), "source=predefined")
	assert.Contains(t, file.String(), `"source":"predefined"`)
	assert.NotContains(t, stderr.String(), "hidden")
}

func TestSetupLoggerFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	logger, cleanup := SetupLogger(path, slog.LevelInfo)
	logger.Info("hello")
	require.NoError(t, cleanup())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
}
