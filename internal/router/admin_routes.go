package router

import (
	"github.com/labstack/echo/v4"

	"github.com/docushield/document-portal/internal/handler"
	"github.com/docushield/document-portal/internal/middleware"
	"github.com/docushield/document-portal/internal/model"
)

// RegisterAdmin registers admin-scoped endpoints under /admin. Every route
// requires a valid session token and exactly the admin role; the gate
// rejects before any handler or repository code runs.
func RegisterAdmin(e *echo.Echo, customers *handler.AdminCustomerHandler, documents *handler.AdminDocumentHandler, jwtSecret string, blocked middleware.BlockedFunc) {
	g := e.Group(
		"/admin",
		middleware.Authenticate(jwtSecret, blocked),
		middleware.RequireRole(model.RoleAdmin),
	)

	g.GET("/customers", customers.List)
	g.POST("/customers", customers.Create)
	g.GET("/customers/:id", customers.Get)
	g.PATCH("/customers/:id", customers.SetBlocked)

	g.GET("/documents", documents.List)
	g.PATCH("/documents/:id/review", documents.Review)
}
