package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/NamanBalaji/anyio/internal/config"
)

func TestDefaultConfig(t *testing.T) {
	cfg := config.DefaultConfig()

	assert.NotEmpty(t, cfg.CacheDir)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, 2*time.Second, cfg.RetryDelay)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, "anyio/1.0", cfg.UserAgent)
	assert.False(t, cfg.AcceptInvalidCerts)
}

func TestGetConfigFallsBackToDefaults(t *testing.T) {
	// No config file in the test environment's XDG config home is the
	// common case; GetConfig must not fail on it.
	cfg, err := config.GetConfig()
	if err != nil {
		t.Skipf("config home not readable: %v", err)
	}

	assert.NotNil(t, cfg)
	assert.Positive(t, cfg.MaxRetries)
	assert.NotEmpty(t, cfg.CacheDir)
}
