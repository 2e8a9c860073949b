package middleware

import (
    "fmt"
    "log"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/docushield/document-portal/internal/config"
)

// LoginRateLimit returns a fixed-window rate limiter keyed by client IP,
// intended for the login endpoint to slow down credential guessing. Each
// window gets a Redis counter with a TTL; once the counter passes the
// limit, further attempts are answered with 429 until the window rolls
// over. With no Redis client the limiter is a no-op so login keeps working
// when the cache tier is down.
func LoginRateLimit(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
    if !cfg.Enabled || rdb == nil {
        return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            key := windowKey(cfg.Prefix, c.RealIP(), time.Now().UTC(), cfg.Window)
            ctx := c.Request().Context()
            n, err := rdb.Incr(ctx, key).Result()
            if err != nil {
                // Redis trouble must not lock users out of login.
                log.Printf("ratelimit: incr failed: %v", err)
                return next(c)
            }
            if n == 1 {
                rdb.Expire(ctx, key, cfg.Window)
            }
            if n > int64(cfg.Limit) {
                c.Response().Header().Set("Retry-After", fmt.Sprintf("%d", int(cfg.Window.Seconds())))
                return c.JSON(http.StatusTooManyRequests, echo.Map{"error": "too many login attempts"})
            }
            return next(c)
        }
    }
}

// windowKey buckets time into fixed windows so that all attempts from one
// IP within the same window share a counter. Buckets are computed in
// milliseconds so sub-second windows remain valid divisors.
func windowKey(prefix, ip string, now time.Time, window time.Duration) string {
    ms := window.Milliseconds()
    if ms <= 0 {
        ms = 1
    }
    bucket := now.UnixMilli() / ms
    return fmt.Sprintf("%s:%s:%d", prefix, ip, bucket)
}
