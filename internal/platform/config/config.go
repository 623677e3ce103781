// Package config loads runtime settings from the environment, optionally
// seeded from a .env file in the working directory.
package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

// Config is the full runtime configuration of the API.
type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string
	Timezone    string
	Log         LogConfig
	Gemini      GeminiConfig
	Storage     StorageConfig
	Schedule    ScheduleConfig
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Mode     string // development | production
	File     string // empty disables file output
	MaxSize  int    // megabytes
	MaxAge   int    // days
	Backups  int
	Compress bool
}

// GeminiConfig configures the assistant's generative model.
type GeminiConfig struct {
	APIKey string
	Model  string
}

// StorageConfig selects where uploaded product images go. When URL is empty
// images are written to MediaDir and served by the API itself.
type StorageConfig struct {
	URL       string
	Key       string
	Bucket    string
	MediaDir  string
	PublicURL string
}

// ScheduleConfig configures the background recommendation scan.
type ScheduleConfig struct {
	Enabled   bool
	Frequency string // high | medium | low
}

// Load reads .env (if present) and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	cfg := fromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fromEnv() *Config {
	return &Config{
		Port:        env("APP_PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		Timezone:    env("TIMEZONE", "Africa/Johannesburg"),
		Log: LogConfig{
			Mode:     env("LOG_MODE", "development"),
			File:     os.Getenv("LOG_FILE"),
			MaxSize:  cast.ToInt(env("LOG_MAX_SIZE", "64")),
			MaxAge:   cast.ToInt(env("LOG_MAX_AGE", "7")),
			Backups:  cast.ToInt(env("LOG_MAX_BACKUPS", "7")),
			Compress: cast.ToBool(env("LOG_COMPRESS", "false")),
		},
		Gemini: GeminiConfig{
			APIKey: os.Getenv("GEMINI_API_KEY"),
			Model:  env("GEMINI_MODEL", "gemini-2.0-flash"),
		},
		Storage: StorageConfig{
			URL:       strings.TrimRight(os.Getenv("STORAGE_URL"), "/"),
			Key:       os.Getenv("STORAGE_KEY"),
			Bucket:    env("STORAGE_BUCKET", "products"),
			MediaDir:  env("MEDIA_DIR", "./media"),
			PublicURL: strings.TrimRight(env("MEDIA_PUBLIC_URL", "/media"), "/"),
		},
		Schedule: ScheduleConfig{
			Enabled:   cast.ToBool(env("SCAN_ENABLED", "true")),
			Frequency: strings.ToLower(env("SCAN_FREQUENCY", "medium")),
		},
	}
}

// Validate reports missing required settings.
func (c *Config) Validate() error {
	var missing []string
	if c.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if len(missing) > 0 {
		return errors.New("missing required environment: " + strings.Join(missing, ", "))
	}
	switch c.Schedule.Frequency {
	case "high", "medium", "low":
	default:
		return errors.New("SCAN_FREQUENCY must be one of high, medium, low")
	}
	return nil
}

func env(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
