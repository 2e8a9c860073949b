package middleware

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/docushield/document-portal/internal/model"
)

// RequireRole returns middleware enforcing that the authenticated principal
// holds exactly the given role. There is no hierarchy: an admin does not
// satisfy a customer gate or vice versa. On rejection the wrapped handler
// is never invoked and no state has been touched; Authenticate must run
// earlier in the chain to populate the principal.
func RequireRole(role model.Role) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            p, ok := CurrentPrincipal(c)
            if !ok {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
            }
            if p.Role != role {
                return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
            }
            return next(c)
        }
    }
}
