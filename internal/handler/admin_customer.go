package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/docushield/document-portal/internal/config"
	"github.com/docushield/document-portal/internal/model"
	"github.com/docushield/document-portal/internal/repository"
	"github.com/docushield/document-portal/internal/service"
)

// AdminCustomerHandler implements the admin-facing customer account
// lifecycle: list, create, inspect and block/unblock. All methods assume
// the admin role gate has already run.
type AdminCustomerHandler struct {
	Cfg       config.Config
	Users     *repository.UserRepo
	Documents *repository.DocumentRepo
	Blocklist *service.Blocklist
}

func NewAdminCustomerHandler(cfg config.Config, u *repository.UserRepo, d *repository.DocumentRepo, b *service.Blocklist) *AdminCustomerHandler {
	return &AdminCustomerHandler{Cfg: cfg, Users: u, Documents: d, Blocklist: b}
}

type createCustomerReq struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type setBlockedReq struct {
	IsBlocked *bool `json:"is_blocked"`
}

// customerWithDocuments is the GET /admin/customers/:id payload: the
// profile plus the customer's own document list.
type customerWithDocuments struct {
	model.User
	Documents []model.Document `json:"documents"`
}

// List handles GET /admin/customers, newest account first.
func (h *AdminCustomerHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	customers, err := h.Users.ListCustomers(ctx)
	if err != nil {
		c.Logger().Errorf("list customers: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch customers"})
	}
	return c.JSON(http.StatusOK, echo.Map{"customers": customers})
}

// Create handles POST /admin/customers. The password is bcrypt-hashed
// before it reaches the database; a duplicate email yields 409.
func (h *AdminCustomerHandler) Create(c echo.Context) error {
	var req createCustomerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.TrimSpace(req.Email)
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	if req.Email == "" || req.Password == "" || req.FirstName == "" || req.LastName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "all fields are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	customer, err := h.Users.CreateCustomer(ctx, req.Email, req.Password, req.FirstName, req.LastName, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		c.Logger().Errorf("create customer: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create customer"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"customer": customer})
}

// Get handles GET /admin/customers/:id: profile plus document list. An id
// that exists but belongs to an admin is reported as not found.
func (h *AdminCustomerHandler) Get(c echo.Context) error {
	id := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	customer, err := h.Users.GetCustomer(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
		}
		c.Logger().Errorf("get customer: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch customer"})
	}
	docs, err := h.Documents.ListByOwner(ctx, id)
	if err != nil {
		c.Logger().Errorf("get customer documents: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch customer"})
	}
	return c.JSON(http.StatusOK, echo.Map{"customer": customerWithDocuments{User: customer, Documents: docs}})
}

// SetBlocked handles PATCH /admin/customers/:id. The toggle is idempotent
// and takes effect on the customer's very next request: the cached blocked
// flag is invalidated here rather than waiting for its TTL.
func (h *AdminCustomerHandler) SetBlocked(c echo.Context) error {
	id := c.Param("id")
	var req setBlockedReq
	if err := c.Bind(&req); err != nil || req.IsBlocked == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "is_blocked is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	customer, err := h.Users.SetBlocked(ctx, id, *req.IsBlocked)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
		}
		c.Logger().Errorf("set blocked: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update customer"})
	}
	h.Blocklist.Invalidate(ctx, id)
	return c.JSON(http.StatusOK, echo.Map{"customer": customer})
}
