package router

import (
	"github.com/labstack/echo/v4"

	"github.com/docushield/document-portal/internal/handler"
	"github.com/docushield/document-portal/internal/middleware"
	"github.com/docushield/document-portal/internal/model"
)

// RegisterCustomer registers customer-scoped endpoints under /customer.
// All routes require a valid session and the customer role. Customers can
// upload a file to blob storage, register the resulting metadata and list
// their own documents with review status.
func RegisterCustomer(e *echo.Echo, documents *handler.CustomerDocumentHandler, jwtSecret string, blocked middleware.BlockedFunc) {
	g := e.Group(
		"/customer",
		middleware.Authenticate(jwtSecret, blocked),
		middleware.RequireRole(model.RoleCustomer),
	)

	g.GET("/documents", documents.List)
	g.POST("/documents", documents.Submit)
	g.POST("/documents/upload", documents.Upload)
}
