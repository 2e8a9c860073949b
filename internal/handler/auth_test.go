package handler

import (
	"bytes"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/labstack/echo/v4"

	"github.com/docushield/document-portal/internal/config"
	"github.com/docushield/document-portal/internal/repository"
)

// TestLoginStoreFailureIsLogged drives Login against a closed database
// handle so the user lookup fails with something other than ErrNotFound.
// The client must only see the generic error while the underlying cause
// lands in the server log.
func TestLoginStoreFailureIsLogged(t *testing.T) {
	db, err := sql.Open("mysql", "test:test@tcp(127.0.0.1:1)/test")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	db.Close() // queries now fail immediately with ErrConnDone

	h := NewAuthHandler(config.Config{JWTSecret: "s", TokenTTLDays: 7}, repository.NewUserRepo(db))

	e := echo.New()
	var logged bytes.Buffer
	e.Logger.SetOutput(&logged)

	body := `{"email":"a@b.test","password":"pw","role":"customer"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	if err := h.Login(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
	if strings.Contains(rec.Body.String(), sql.ErrConnDone.Error()) {
		t.Fatalf("internal error leaked to the client: %s", rec.Body.String())
	}
	if !strings.Contains(logged.String(), "login lookup") {
		t.Fatalf("expected lookup failure in the log, got: %s", logged.String())
	}
}
