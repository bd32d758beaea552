package config

import (
	"strings"
	"time"
)

// CacheConfig defines settings for the screening response cache. When Enabled
// is false or no Redis client is configured, caching is disabled.
// KeyStrategy is "path" or "path_query" and decides whether the query string
// takes part in the key.
type CacheConfig struct {
	Enabled      bool
	TTL          time.Duration
	KeyStrategy  string
	Prefix       string
	MaxBodyBytes int
}

// LoadCacheConfig reads CACHE_* environment variables.
func LoadCacheConfig() CacheConfig {
	cfg := CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", true),
		TTL:          envDur("CACHE_TTL", 30*time.Second),
		KeyStrategy:  strings.ToLower(envStr("CACHE_KEY_STRATEGY", "path_query")),
		Prefix:       envStr("CACHE_PREFIX", "screening-cache"),
		MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * time.Second
	}
	return cfg
}
