package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/docushield/document-portal/internal/middleware"
	"github.com/docushield/document-portal/internal/repository"
	"github.com/docushield/document-portal/internal/storage"
)

// CustomerDocumentHandler implements the customer side of the workflow:
// uploading a file to blob storage, registering document metadata and
// listing the customer's own documents. All methods assume the customer
// role gate has already run.
type CustomerDocumentHandler struct {
	Documents *repository.DocumentRepo
	Storage   *storage.Client
}

func NewCustomerDocumentHandler(d *repository.DocumentRepo, s *storage.Client) *CustomerDocumentHandler {
	return &CustomerDocumentHandler{Documents: d, Storage: s}
}

type submitDocumentReq struct {
	DocumentType string `json:"document_type"`
	FileName     string `json:"file_name"`
	FileURL      string `json:"file_url"`
	FileSize     int64  `json:"file_size"`
}

// List handles GET /customer/documents: the caller's own documents, newest
// upload first. Rejected documents carry their rejection reason so the
// customer sees why.
func (h *CustomerDocumentHandler) List(c echo.Context) error {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	docs, err := h.Documents.ListByOwner(ctx, p.ID)
	if err != nil {
		c.Logger().Errorf("list own documents: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch documents"})
	}
	return c.JSON(http.StatusOK, echo.Map{"documents": docs})
}

// Submit handles POST /customer/documents: registers metadata for a file
// already placed in blob storage and starts the document in pending state.
// The owner is always the caller; the body cannot attribute a document to
// someone else.
func (h *CustomerDocumentHandler) Submit(c echo.Context) error {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req submitDocumentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.DocumentType = strings.TrimSpace(req.DocumentType)
	req.FileName = strings.TrimSpace(req.FileName)
	req.FileURL = strings.TrimSpace(req.FileURL)
	if req.DocumentType == "" || req.FileName == "" || req.FileURL == "" || req.FileSize <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing required fields"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	doc, err := h.Documents.Insert(ctx, p.ID, req.DocumentType, req.FileName, req.FileURL, req.FileSize)
	if err != nil {
		c.Logger().Errorf("insert document: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to save document"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"document": doc})
}

// Upload handles POST /customer/documents/upload: streams a multipart file
// into blob storage and returns the metadata the client should pass to
// Submit. Upload and metadata insert are deliberately two steps; a crash
// between them can orphan a blob, which is accepted in the current design.
func (h *CustomerDocumentHandler) Upload(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file is required"})
	}
	src, err := fh.Open()
	if err != nil {
		c.Logger().Errorf("open upload: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to read upload"})
	}
	defer src.Close()

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	objectName := storage.ObjectName(fh.Filename)
	if err := h.Storage.Put(ctx, objectName, src, fh.Size, contentType); err != nil {
		c.Logger().Errorf("store upload: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to store file"})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"file_name": fh.Filename,
		"file_url":  h.Storage.PublicURL(objectName),
		"file_size": fh.Size,
	})
}
