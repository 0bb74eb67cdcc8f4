package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port                   int    `validate:"min=1,max=65535"`
	TempMailBaseURL        string `validate:"required,url"`
	TempMailAPIKey         string `validate:"required"`
	TempMailTimeoutSeconds int    `validate:"gt=0"`
	LogLevel               string `validate:"oneof=debug info warn error"`
	LogFormat              string `validate:"oneof=json console"`
	RedisURL               string `validate:"omitempty,url"`
	StatsTTLSeconds        int    `validate:"gt=0"`
	AdminPassword          string
	JWTSecret              string
	ShutdownTimeoutSeconds int `validate:"gt=0"`
}

var defaults = map[string]any{
	"PORT":                     5000,
	"TEMPMAIL_BASE_URL":        "https://api.tempmail.lol",
	"TEMPMAIL_API_KEY":         "",
	"TEMPMAIL_TIMEOUT_SECONDS": 10,
	"LOG_LEVEL":                "info",
	"LOG_FORMAT":               "json",
	"REDIS_URL":                "",
	"STATS_TTL_SECONDS":        30 * 24 * 60 * 60,
	"ADMIN_PASSWORD":           "",
	"JWT_SECRET":               "",
	"SHUTDOWN_TIMEOUT_SECONDS": 5,
}

// Load reads the configuration from the environment. A .env file in the
// working directory is loaded first when present; real environment variables
// take precedence over it.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	return FromViper(newViper())
}

// FromViper builds and validates a Config from an already populated viper
// instance.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:                   v.GetInt("PORT"),
		TempMailBaseURL:        strings.TrimRight(v.GetString("TEMPMAIL_BASE_URL"), "/"),
		TempMailAPIKey:         strings.TrimSpace(v.GetString("TEMPMAIL_API_KEY")),
		TempMailTimeoutSeconds: v.GetInt("TEMPMAIL_TIMEOUT_SECONDS"),
		LogLevel:               strings.ToLower(v.GetString("LOG_LEVEL")),
		LogFormat:              strings.ToLower(v.GetString("LOG_FORMAT")),
		RedisURL:               v.GetString("REDIS_URL"),
		StatsTTLSeconds:        v.GetInt("STATS_TTL_SECONDS"),
		AdminPassword:          v.GetString("ADMIN_PASSWORD"),
		JWTSecret:              v.GetString("JWT_SECRET"),
		ShutdownTimeoutSeconds: v.GetInt("SHUTDOWN_TIMEOUT_SECONDS"),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()
	return v
}

// Addr is the listen address. The service binds all interfaces.
func (c *Config) Addr() string {
	return fmt.Sprintf("0.0.0.0:%d", c.Port)
}

func (c *Config) TempMailTimeout() time.Duration {
	return time.Duration(c.TempMailTimeoutSeconds) * time.Second
}

func (c *Config) StatsTTL() time.Duration {
	return time.Duration(c.StatsTTLSeconds) * time.Second
}

func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

// StatsEnabled reports whether usage counters should be kept in Redis.
func (c *Config) StatsEnabled() bool {
	return c.RedisURL != ""
}

// AdminEnabled reports whether the operator endpoints are mounted.
func (c *Config) AdminEnabled() bool {
	return c.AdminPassword != ""
}
