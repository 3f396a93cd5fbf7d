package config

import "time"

// CacheConfig defines settings for the response cache on GET /treatments.
// Caching is off unless Enabled is set and a Redis client is available.
// Treatments are written by other systems, so a cached list can be up to
// TTL stale. Responses larger than MaxBodyBytes are not cached.
type CacheConfig struct {
	Enabled      bool
	TTL          time.Duration
	Prefix       string
	MaxBodyBytes int
}

// LoadCacheConfig reads CACHE_* variables. Malformed values fall back to
// defaults; a broken cache setting should never stop the service.
func LoadCacheConfig() CacheConfig {
	enabled, _ := envBool("CACHE_ENABLED", false)
	ttl, _ := envDur("CACHE_TTL", time.Minute)
	return CacheConfig{
		Enabled:      enabled,
		TTL:          ttl,
		Prefix:       getenv("CACHE_PREFIX", "clinic:cache"),
		MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
	}
}
