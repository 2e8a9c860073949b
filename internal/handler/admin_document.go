package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/docushield/document-portal/internal/middleware"
	"github.com/docushield/document-portal/internal/model"
	"github.com/docushield/document-portal/internal/queue"
	"github.com/docushield/document-portal/internal/repository"
	"github.com/docushield/document-portal/internal/service"
)

// AdminDocumentHandler implements the admin side of the document review
// workflow: the full listing and the terminal review decision.
type AdminDocumentHandler struct {
	Documents *repository.DocumentRepo
}

func NewAdminDocumentHandler(d *repository.DocumentRepo) *AdminDocumentHandler {
	return &AdminDocumentHandler{Documents: d}
}

type reviewReq struct {
	Status          string `json:"status"`
	RejectionReason string `json:"rejection_reason"`
}

// List handles GET /admin/documents: every document joined with owner and
// reviewer display names, newest upload first.
func (h *AdminDocumentHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	docs, err := h.Documents.ListAll(ctx)
	if err != nil {
		c.Logger().Errorf("list documents: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch documents"})
	}
	return c.JSON(http.StatusOK, echo.Map{"documents": docs})
}

// Review handles PATCH /admin/documents/:id/review. The decision moves a
// pending document into its terminal state exactly once; a document that
// has already been decided yields 409. On success a document.reviewed
// event is published in the background, best effort.
func (h *AdminDocumentHandler) Review(c echo.Context) error {
	reviewer, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	id := c.Param("id")

	var req reviewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	decision, reason, err := validateReviewInput(req.Status, req.RejectionReason)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	doc, err := h.Documents.Review(ctx, id, decision, reviewer.ID, reason)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "document not found"})
		case errors.Is(err, repository.ErrAlreadyReviewed):
			return c.JSON(http.StatusConflict, echo.Map{"error": "document already reviewed"})
		default:
			c.Logger().Errorf("review document: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to review document"})
		}
	}

	ev := queue.DocumentReviewedEvent{
		DocumentID:   doc.ID,
		DocumentType: doc.DocumentType,
		OwnerID:      doc.UserID,
		OwnerEmail:   doc.OwnerEmail,
		ReviewerID:   reviewer.ID,
		ReviewerName: reviewer.FirstName + " " + reviewer.LastName,
		Status:       string(doc.Status),
	}
	if doc.RejectionReason != nil {
		ev.RejectionReason = *doc.RejectionReason
	}
	if doc.ReviewedAt != nil {
		ev.ReviewedAt = doc.ReviewedAt.UTC().Format(time.RFC3339)
	}
	// The review response does not wait on the broker.
	go func() { _ = service.PublishDocumentReviewed(context.Background(), ev) }()

	return c.JSON(http.StatusOK, echo.Map{"document": doc})
}

// validateReviewInput checks the decision and its reason. Approval must
// not carry a reason into the row (the repository clears it); rejection
// requires a non-empty one.
func validateReviewInput(status, rejectionReason string) (model.DocumentStatus, *string, error) {
	decision, err := model.ParseDecision(status)
	if err != nil {
		return "", nil, err
	}
	reason := strings.TrimSpace(rejectionReason)
	if decision == model.StatusRejected {
		if reason == "" {
			return "", nil, fmt.Errorf("rejection reason is required when rejecting")
		}
		return decision, &reason, nil
	}
	return decision, nil, nil
}
