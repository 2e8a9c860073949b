package config

import (
    "os"
    "strconv"
    "time"
)

// RateLimitConfig controls the fixed-window limiter applied to the login
// endpoint. Limit attempts are allowed per Window per client IP; further
// attempts get a 429 until the window rolls over.
type RateLimitConfig struct {
    Enabled bool
    Limit   int
    Window  time.Duration
    Prefix  string
}

// BlockedCacheTTL is how long a user's is_blocked flag may be served from
// Redis before the database is consulted again. Bounded staleness: an
// admin blocking an account is seen within this TTL at the latest, and the
// block handler invalidates the entry eagerly anyway.
func BlockedCacheTTL() time.Duration {
    return envDur("BLOCKED_CACHE_TTL", 30*time.Second)
}

// LoadRateLimitConfig reads limiter settings from the environment, with
// defaults suitable for interactive login traffic.
func LoadRateLimitConfig() RateLimitConfig {
    cfg := RateLimitConfig{
        Enabled: envBool("LOGIN_RATE_LIMIT_ENABLED", true),
        Limit:   envInt("LOGIN_RATE_LIMIT_ATTEMPTS", 10),
        Window:  envDur("LOGIN_RATE_LIMIT_WINDOW", time.Minute),
        Prefix:  envStr("LOGIN_RATE_LIMIT_PREFIX", "login_rl"),
    }
    if cfg.Limit < 1 {
        cfg.Limit = 1
    }
    if cfg.Window <= 0 {
        cfg.Window = time.Minute
    }
    return cfg
}

func envStr(k, d string) string {
    if v := os.Getenv(k); v != "" {
        return v
    }
    return d
}

func envBool(k string, d bool) bool {
    v := os.Getenv(k)
    if v == "" {
        return d
    }
    switch v {
    case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
        return true
    case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
        return false
    }
    return d
}

func envInt(k string, d int) int {
    v := os.Getenv(k)
    if v == "" {
        return d
    }
    if n, err := strconv.Atoi(v); err == nil {
        return n
    }
    return d
}

func envDur(k string, d time.Duration) time.Duration {
    v := os.Getenv(k)
    if v == "" {
        return d
    }
    if dur, err := time.ParseDuration(v); err == nil && dur > 0 {
        return dur
    }
    return d
}
