// Package config loads the optional user configuration file and the
// environment toggles the transport layer consumes.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

const configFileName = "anyio"

// AcceptInvalidCertsEnv opts in to accepting invalid TLS certificates.
// Accepted truthy spellings: "true", "yes", "y", "1".
const AcceptInvalidCertsEnv = "ANYIO_ACCEPT_INVALID_CERTS"

// Config holds the application configuration.
type Config struct {
	CacheDir           string        `yaml:"cacheDir,omitempty"`
	MaxRetries         int           `yaml:"maxRetries,omitempty"`
	RetryDelay         time.Duration `yaml:"retryDelay,omitempty"`
	Timeout            time.Duration `yaml:"timeout,omitempty"`
	UserAgent          string        `yaml:"userAgent,omitempty"`
	AcceptInvalidCerts bool          `yaml:"acceptInvalidCerts,omitempty"`
}

// GetConfig reads the configuration file and fills unset fields with
// defaults. A missing or empty file yields the defaults.
func GetConfig() (*Config, error) {
	configFilePath := filepath.Join(xdg.ConfigHome, configFileName)
	defaults := DefaultConfig()

	b, err := os.ReadFile(configFilePath)
	if err != nil {
		if os.IsNotExist(err) {
			return &defaults, nil
		}

		return nil, err
	}

	if len(b) == 0 {
		return &defaults, nil
	}

	var cfg Config

	err = yaml.Unmarshal(b, &cfg)
	if err != nil {
		return nil, err
	}

	return &Config{
		CacheDir:           zeroOr(cfg.CacheDir, defaults.CacheDir),
		MaxRetries:         zeroOr(cfg.MaxRetries, defaults.MaxRetries),
		RetryDelay:         zeroOr(cfg.RetryDelay, defaults.RetryDelay),
		Timeout:            zeroOr(cfg.Timeout, defaults.Timeout),
		UserAgent:          zeroOr(cfg.UserAgent, defaults.UserAgent),
		AcceptInvalidCerts: cfg.AcceptInvalidCerts || AcceptInvalidCertsFromEnv(),
	}, nil
}

var (
	envOnce  sync.Once
	envValue bool
)

// AcceptInvalidCertsFromEnv reads the TLS opt-in toggle once per process.
// The value is threaded explicitly into transport construction rather
// than consulted ambiently.
func AcceptInvalidCertsFromEnv() bool {
	envOnce.Do(func() {
		switch strings.ToLower(os.Getenv(AcceptInvalidCertsEnv)) {
		case "true", "yes", "y", "1":
			envValue = true
		}
	})

	return envValue
}

func zeroOr[T comparable](value, fallback T) T {
	var zero T
	if value == zero {
		return fallback
	}

	return value
}
