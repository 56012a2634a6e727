package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

const (
	maxRetries = 3
	retryDelay = 2 * time.Second
	timeout    = 30 * time.Second
	userAgent  = "anyio/1.0"
)

var cacheDir = filepath.Join(xdg.CacheHome, configFileName)

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		CacheDir:   cacheDir,
		MaxRetries: maxRetries,
		RetryDelay: retryDelay,
		Timeout:    timeout,
		UserAgent:  userAgent,
	}
}
