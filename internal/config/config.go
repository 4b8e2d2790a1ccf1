// Package config provides application configuration.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// DevAPIKey is the admin key used when ADMIN_API_KEY is unset.
const DevAPIKey = "admin2025_secret_key_change_me"

// Config holds all application configuration.
type Config struct {
	Port           string
	Environment    string
	AllowedOrigins []string
	SiteURL        string

	Admin  AdminConfig
	OpenAI OpenAIConfig

	DatabaseURL  string
	ProjectsFile string
	UploadsDir   string
	AnswersFile  string
	ProfileFile  string

	TelegramBotToken string
	DefaultLanguage  string

	ChatRatePerSecond float64
	ChatRateBurst     int
	SessionIdleTTL    time.Duration

	LogLevel slog.Level
	LogFile  string
}

// AdminConfig controls access to the admin routes.
type AdminConfig struct {
	APIKey       string
	Username     string
	Password     string
	PasswordHash string
	JWTSecret    string

	// UsingDevKey is set when APIKey fell back to DevAPIKey.
	UsingDevKey bool
}

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:           getEnv("PORT", "8000"),
		Environment:    getEnv("ENVIRONMENT", "production"),
		AllowedOrigins: getEnvList("ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:3001"}),
		SiteURL:        strings.TrimRight(getEnv("SITE_URL", ""), "/"),
		Admin: AdminConfig{
			APIKey:       getEnv("ADMIN_API_KEY", ""),
			Username:     getEnv("ADMIN_USERNAME", "admin"),
			Password:     getEnv("ADMIN_PASSWORD", ""),
			PasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
			JWTSecret:    getEnv("JWT_SECRET", ""),
		},
		OpenAI: OpenAIConfig{
			APIKey:  getEnv("OPENAI_API_KEY", ""),
			Model:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			BaseURL: getEnv("OPENAI_BASE_URL", ""),
		},
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		ProjectsFile:      getEnv("PROJECTS_FILE", "./data/projects.json"),
		UploadsDir:        getEnv("UPLOADS_DIR", "./uploads"),
		AnswersFile:       getEnv("ANSWERS_FILE", ""),
		ProfileFile:       getEnv("PROFILE_FILE", ""),
		TelegramBotToken:  getEnv("TELEGRAM_BOT_TOKEN", ""),
		DefaultLanguage:   strings.ToLower(getEnv("DEFAULT_LANGUAGE", "en")),
		ChatRatePerSecond: getEnvFloat("CHAT_RATE_PER_SECOND", 1),
		ChatRateBurst:     getEnvInt("CHAT_RATE_BURST", 5),
		SessionIdleTTL:    getEnvDuration("SESSION_IDLE_TTL", 30*time.Minute),
		LogLevel:          getEnvLevel("LOG_LEVEL", slog.LevelInfo),
		LogFile:           getEnv("LOG_FILE", ""),
	}

	if cfg.Admin.APIKey == "" {
		cfg.Admin.APIKey = DevAPIKey
		cfg.Admin.UsingDevKey = true
	}
	if cfg.Admin.JWTSecret == "" {
		secret, err := randomSecret()
		if err != nil {
			return nil, fmt.Errorf("generate JWT secret: %w", err)
		}
		cfg.Admin.JWTSecret = secret
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.ProjectsFile == "" && c.DatabaseURL == "" {
		return fmt.Errorf("one of PROJECTS_FILE or DATABASE_URL must be set")
	}
	if c.UploadsDir == "" {
		return fmt.Errorf("UPLOADS_DIR cannot be empty")
	}
	if c.DefaultLanguage != "en" && c.DefaultLanguage != "fr" {
		return fmt.Errorf("DEFAULT_LANGUAGE must be en or fr, got %q", c.DefaultLanguage)
	}
	if c.ChatRatePerSecond <= 0 {
		return fmt.Errorf("CHAT_RATE_PER_SECOND must be > 0")
	}
	if c.ChatRateBurst <= 0 {
		return fmt.Errorf("CHAT_RATE_BURST must be > 0")
	}
	if c.SessionIdleTTL <= 0 {
		return fmt.Errorf("SESSION_IDLE_TTL must be > 0")
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// InsecureAdminKey reports whether the built-in admin key is in use outside development.
func (c *Config) InsecureAdminKey() bool {
	return c.Admin.UsingDevKey && !c.IsDevelopment()
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return fallback
	}
	return f
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return d
}

func getEnvLevel(key string, fallback slog.Level) slog.Level {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(value))); err != nil {
		return fallback
	}
	return level
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
