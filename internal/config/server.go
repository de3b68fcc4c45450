package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// ServerConfig is the environment-driven configuration for cmd/server.
type ServerConfig struct {
	Port string
	// Request-shape limits
	MaxSamples int
	// Per-client rate limiting
	RateLimitPerSec int
	RateLimitBurst  int
	// WebSocket configuration
	WSEnabled          bool
	WSCompressMinBytes int
	WSWriteTimeout     time.Duration
}

// LoadServerConfig reads the server configuration from the environment,
// falling back to defaults sized for a single-user exploration front end.
func LoadServerConfig() (*ServerConfig, error) {
	maxSamples, err := getEnvInt("MAX_SAMPLES", 200)
	if err != nil {
		return nil, err
	}
	ratePerSec, err := getEnvInt("RATE_LIMIT_RPS", 20)
	if err != nil {
		return nil, err
	}
	burst, err := getEnvInt("RATE_LIMIT_BURST", 40)
	if err != nil {
		return nil, err
	}
	compressMin, err := getEnvInt("WS_COMPRESS_MIN_BYTES", 4096)
	if err != nil {
		return nil, err
	}

	writeTimeoutStr := getEnvOrDefault("WS_WRITE_TIMEOUT", "10s")
	writeTimeout, err := time.ParseDuration(writeTimeoutStr)
	if err != nil {
		writeTimeout = 10 * time.Second
	}

	cfg := &ServerConfig{
		Port:               getEnvOrDefault("PORT", "8080"),
		MaxSamples:         maxSamples,
		RateLimitPerSec:    ratePerSec,
		RateLimitBurst:     burst,
		WSEnabled:          getEnvOrDefault("WS_ENABLED", "true") == "true",
		WSCompressMinBytes: compressMin,
		WSWriteTimeout:     writeTimeout,
	}

	// Validate
	if cfg.MaxSamples < 2 {
		return nil, fmt.Errorf("invalid MAX_SAMPLES: %d (must be >= 2)", cfg.MaxSamples)
	}
	if cfg.RateLimitPerSec < 1 {
		return nil, fmt.Errorf("invalid RATE_LIMIT_RPS: %d (must be >= 1)", cfg.RateLimitPerSec)
	}
	if cfg.RateLimitBurst < cfg.RateLimitPerSec {
		return nil, fmt.Errorf("invalid RATE_LIMIT_BURST: %d (must be >= RATE_LIMIT_RPS)", cfg.RateLimitBurst)
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q is not an integer", key, val)
	}
	return n, nil
}
