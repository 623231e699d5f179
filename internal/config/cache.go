package config

import (
	"net/http"
	"strings"
	"time"
)

const defaultCacheTTL = 10 * time.Minute

// CacheConfig configures the Redis response cache in front of the
// geographic lookups.  That data never changes while the server runs, so
// entries live long; restart the cache (or change Prefix) after loading a
// new dataset.
type CacheConfig struct {
	Enabled      bool
	Methods      map[string]bool // only safe methods; see LoadCacheConfig
	TTL          time.Duration
	KeyStrategy  string // route_query, route or path
	Prefix       string
	MaxBodyBytes int // responses larger than this are served but not stored
}

// LoadCacheConfig reads CACHE_* variables.  Unsafe methods listed in
// CACHE_METHODS are ignored.
func LoadCacheConfig() CacheConfig {
	c := CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", true),
		Methods:      cacheableMethods(envStr("CACHE_METHODS", http.MethodGet)),
		TTL:          envDur("CACHE_TTL", defaultCacheTTL),
		KeyStrategy:  strings.ToLower(envStr("CACHE_KEY_STRATEGY", "route_query")),
		Prefix:       envStr("CACHE_PREFIX", "hbf:cache"),
		MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
	}
	if c.TTL <= 0 {
		c.TTL = defaultCacheTTL
	}
	if c.MaxBodyBytes < 0 {
		c.MaxBodyBytes = 0
	}
	return c
}

func cacheableMethods(list string) map[string]bool {
	out := map[string]bool{}
	for _, m := range strings.Split(list, ",") {
		switch m = strings.ToUpper(strings.TrimSpace(m)); m {
		case http.MethodGet, http.MethodHead:
			out[m] = true
		}
	}
	return out
}
