// Package config loads bot settings from the environment and an optional
// .env file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/dkmdesk/zakat_bot/internal/access"
	"github.com/dkmdesk/zakat_bot/internal/repository"
)

// Config holds every setting of the bot.
type Config struct {
	TelegramToken        string `mapstructure:"TELEGRAM_TOKEN"`
	WebhookSecret        string `mapstructure:"WEBHOOK_SECRET"`
	AllowedUsers         string `mapstructure:"ALLOWED_USER_IDS"`
	AppsScriptURL        string `mapstructure:"APPS_SCRIPT_URL"`
	AppsAPIKey           string `mapstructure:"APPS_API_KEY"`
	DraftStore           string `mapstructure:"DRAFT_STORE"`
	KVRestURL            string `mapstructure:"KV_REST_API_URL"`
	KVRestToken          string `mapstructure:"KV_REST_API_TOKEN"`
	RedisURL             string `mapstructure:"REDIS_URL"`
	SupabaseURL          string `mapstructure:"SUPABASE_URL"`
	SupabaseKey          string `mapstructure:"SUPABASE_KEY"`
	ServerPort           string `mapstructure:"SERVER_PORT"`
	RenderMode           string `mapstructure:"RENDER_MODE"`
	LogLevel             string `mapstructure:"LOG_LEVEL"`
	SubmitTimeoutSeconds int    `mapstructure:"SUBMIT_TIMEOUT_SECONDS"`
}

var ErrMissingToken = errors.New("TELEGRAM_TOKEN is required")

var keys = []string{
	"TELEGRAM_TOKEN",
	"WEBHOOK_SECRET",
	"ALLOWED_USER_IDS",
	"APPS_SCRIPT_URL",
	"APPS_API_KEY",
	"DRAFT_STORE",
	"KV_REST_API_URL",
	"KV_REST_API_TOKEN",
	"REDIS_URL",
	"SUPABASE_URL",
	"SUPABASE_KEY",
	"SERVER_PORT",
	"RENDER_MODE",
	"LOG_LEVEL",
	"SUBMIT_TIMEOUT_SECONDS",
}

// LoadConfig reads the environment, falling back to a .env file in path.
// Environment variables win over the file.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	viper.AutomaticEnv()

	viper.SetDefault("DRAFT_STORE", repository.BackendREST)
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("RENDER_MODE", "plain")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("SUBMIT_TIMEOUT_SECONDS", 15)

	// AutomaticEnv alone does not make unset keys visible to Unmarshal
	for _, key := range keys {
		_ = viper.BindEnv(key)
	}
	// Vercel KV and Upstash use different names for the same endpoint
	_ = viper.BindEnv("KV_REST_API_URL", "KV_REST_API_URL", "UPSTASH_REDIS_REST_URL")
	_ = viper.BindEnv("KV_REST_API_TOKEN", "KV_REST_API_TOKEN", "UPSTASH_REDIS_REST_TOKEN")

	if err = viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config, fmt.Errorf("failed to read config file: %w", err)
		}
		err = nil
	}

	if err = viper.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("failed to decode config: %w", err)
	}

	config.TelegramToken = strings.TrimSpace(config.TelegramToken)
	config.DraftStore = strings.ToLower(strings.TrimSpace(config.DraftStore))
	if config.SubmitTimeoutSeconds <= 0 {
		config.SubmitTimeoutSeconds = 15
	}
	return config, nil
}

// Validate reports settings the bot cannot start without.
func (c Config) Validate() error {
	if c.TelegramToken == "" {
		return ErrMissingToken
	}
	switch c.DraftStore {
	case repository.BackendREST, repository.BackendRedis, repository.BackendSupabase, repository.BackendMemory:
	default:
		return fmt.Errorf("DRAFT_STORE must be rest, redis, supabase or memory, got %q", c.DraftStore)
	}
	return nil
}

// AllowedUserIDs parses ALLOWED_USER_IDS. The second result lists entries
// that are not numeric ids.
func (c Config) AllowedUserIDs() (access.AllowList, []string) {
	return access.Parse(c.AllowedUsers)
}

// StoreOptions selects the draft store backend.
func (c Config) StoreOptions() repository.Options {
	return repository.Options{
		Backend:     c.DraftStore,
		KVRestURL:   c.KVRestURL,
		KVRestToken: c.KVRestToken,
		RedisURL:    c.RedisURL,
		SupabaseURL: c.SupabaseURL,
		SupabaseKey: c.SupabaseKey,
	}
}

func (c Config) SubmitTimeout() time.Duration {
	return time.Duration(c.SubmitTimeoutSeconds) * time.Second
}

// Level maps LOG_LEVEL to a slog level; unknown values mean info.
func (c Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return slog.LevelInfo
	}
	return level
}
