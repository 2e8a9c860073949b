package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // Echo web framework used for routing
	"github.com/redis/go-redis/v9"

	"github.com/docushield/document-portal/internal/config"
	"github.com/docushield/document-portal/internal/handler"
	"github.com/docushield/document-portal/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance. Currently it exposes only a health check
// for load balancers and monitoring.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the login/logout/me endpoints. Login is rate
// limited per client IP; /auth/me requires a valid session of either role
// and is how a client restores its identity after a reload.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, rlCfg config.RateLimitConfig, rdb *redis.Client, blocked middleware.BlockedFunc) {
	g := e.Group("/auth")
	g.POST("/login", a.Login, middleware.LoginRateLimit(rlCfg, rdb))
	g.POST("/logout", a.Logout)
	g.GET("/me", a.Me, middleware.Authenticate(a.Cfg.JWTSecret, blocked))
}
