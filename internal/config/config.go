package config

import (
	"errors"
	"fmt"
	"strings"

	"edugame/backend/internal/ranking"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	DatabaseURL      string `mapstructure:"DATABASE_URL"`
	JWTSecret        string `mapstructure:"JWT_SECRET"`
	Port             int    `mapstructure:"PORT"`
	LogLevel         string `mapstructure:"LOG_LEVEL"`
	LogFormat        string `mapstructure:"LOG_FORMAT"`
	RedisAddr        string `mapstructure:"REDIS_ADDR"`
	RedisDB          int    `mapstructure:"REDIS_DB"`
	ActivityQueue    string `mapstructure:"ACTIVITY_QUEUE"`
	LeaderboardLimit int    `mapstructure:"LEADERBOARD_LIMIT"`
	MaxParticipants  int    `mapstructure:"MAX_PARTICIPANTS"`
	AllowedOrigins   string `mapstructure:"ALLOWED_ORIGINS"`
}

var defaults = map[string]any{
	"DATABASE_URL":      "",
	"JWT_SECRET":        "",
	"PORT":              8080,
	"LOG_LEVEL":         "info",
	"LOG_FORMAT":        "text",
	"REDIS_ADDR":        "",
	"REDIS_DB":          0,
	"ACTIVITY_QUEUE":    "edugame_activity",
	"LEADERBOARD_LIMIT": ranking.DefaultLimit,
	"MAX_PARTICIPANTS":  30,
	"ALLOWED_ORIGINS":   "*",
}

// LoadConfig loads the configuration from a .env file, environment variables and
// any flags already bound to v. Keys that viper has never seen are not picked up by
// AutomaticEnv during Unmarshal, so every key gets a default first.
func LoadConfig(v *viper.Viper) (*Config, error) {
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.AddConfigPath(".")
	v.SetConfigName(".env")
	v.SetConfigType("env")

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading .env: %w", err)
		}
		logrus.Debug(".env file not found, loading from environment variables")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that the configuration can actually run a server.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL must be set")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.Port)
	}
	if c.LeaderboardLimit < 1 {
		return fmt.Errorf("LEADERBOARD_LIMIT must be positive, got %d", c.LeaderboardLimit)
	}
	if c.MaxParticipants < 1 {
		return fmt.Errorf("MAX_PARTICIPANTS must be positive, got %d", c.MaxParticipants)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	return nil
}

// Origins splits ALLOWED_ORIGINS into websocket origin patterns.
func (c *Config) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// NewLogger builds the process logger from LOG_LEVEL and LOG_FORMAT.
func (c *Config) NewLogger() *logrus.Logger {
	logger := logrus.New()
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	if c.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return logger
}
