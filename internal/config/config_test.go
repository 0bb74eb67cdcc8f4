package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TEMPMAIL_API_KEY", "secret-key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Port)
	assert.Equal(t, "0.0.0.0:5000", cfg.Addr())
	assert.Equal(t, "https://api.tempmail.lol", cfg.TempMailBaseURL)
	assert.Equal(t, 10*time.Second, cfg.TempMailTimeout())
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout())
	assert.False(t, cfg.StatsEnabled())
	assert.False(t, cfg.AdminEnabled())
}

func TestLoadWithEnvOverride(t *testing.T) {
	t.Setenv("TEMPMAIL_API_KEY", "secret-key")
	t.Setenv("PORT", "8081")
	t.Setenv("TEMPMAIL_BASE_URL", "http://localhost:9999/")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("ADMIN_PASSWORD", "hunter2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8081", cfg.Addr())
	assert.Equal(t, "http://localhost:9999", cfg.TempMailBaseURL)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.StatsEnabled())
	assert.True(t, cfg.AdminEnabled())
}

func TestLoadRequiresAPIKey(t *testing.T) {
	t.Setenv("TEMPMAIL_API_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TempMailAPIKey")
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string][2]string{
		"port":       {"PORT", "70000"},
		"log level":  {"LOG_LEVEL", "verbose"},
		"log format": {"LOG_FORMAT", "xml"},
		"timeout":    {"TEMPMAIL_TIMEOUT_SECONDS", "0"},
	}

	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv("TEMPMAIL_API_KEY", "secret-key")
			t.Setenv(kv[0], kv[1])

			_, err := Load()
			require.Error(t, err)
		})
	}
}
