package middleware // middleware provides shared request processing for handlers

import (
    "context"
    "log"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/docushield/document-portal/internal/model"
    "github.com/docushield/document-portal/internal/utils"
)

// CookieName is the HTTP-only cookie carrying the session token.
const CookieName = "auth-token"

// principalKey is the context key under which Authenticate stores the
// decoded principal for downstream middleware and handlers.
const principalKey = "principal"

// BlockedFunc reports whether the account with the given ID is currently
// blocked. It is consulted on every authenticated request so that blocking
// takes effect immediately instead of only at the token's 7-day expiry.
type BlockedFunc func(ctx context.Context, userID string) (bool, error)

// Authenticate returns middleware that extracts a session token, decodes it
// and attaches the resulting principal to the request context. The cookie
// takes precedence; a bearer Authorization header is the fallback. Any
// invalid or missing token stops the chain with 401 before the wrapped
// handler runs. When isBlocked is non-nil the live blocked flag is
// re-checked and a blocked account gets 403 even with a valid token.
func Authenticate(secret string, isBlocked BlockedFunc) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            raw := tokenFromRequest(c)
            if raw == "" {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
            }
            p, err := utils.DecodeSessionToken(secret, raw)
            if err != nil {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
            }
            if isBlocked != nil {
                blocked, err := isBlocked(c.Request().Context(), p.ID)
                if err != nil {
                    log.Printf("auth: blocked check failed for user %s: %v", p.ID, err)
                    return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
                }
                if blocked {
                    return c.JSON(http.StatusForbidden, echo.Map{"error": "account is blocked"})
                }
            }
            c.Set(principalKey, p)
            return next(c)
        }
    }
}

// CurrentPrincipal returns the principal attached by Authenticate, if any.
func CurrentPrincipal(c echo.Context) (model.Principal, bool) {
    p, ok := c.Get(principalKey).(model.Principal)
    return p, ok
}

// tokenFromRequest pulls the session token out of the request. The
// HTTP-only cookie wins; the Authorization header is only consulted when
// the cookie is absent or empty.
func tokenFromRequest(c echo.Context) string {
    if ck, err := c.Cookie(CookieName); err == nil && ck.Value != "" {
        return ck.Value
    }
    auth := c.Request().Header.Get("Authorization")
    if strings.HasPrefix(auth, "Bearer ") {
        return strings.TrimPrefix(auth, "Bearer ")
    }
    return ""
}
