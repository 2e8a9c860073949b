package handler

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/labstack/echo/v4"

	"github.com/docushield/document-portal/internal/config"
	"github.com/docushield/document-portal/internal/middleware"
	"github.com/docushield/document-portal/internal/model"
	"github.com/docushield/document-portal/internal/repository"
	"github.com/docushield/document-portal/internal/service"
	"github.com/docushield/document-portal/internal/utils"
)

// openTestDB connects to the database named by TEST_DATABASE_DSN and
// prepares a clean schema. When the variable is unset the integration
// suite is skipped; the unit tests do not need a database.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set; skipping integration tests")
		return nil
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id CHAR(36) PRIMARY KEY,
			email VARCHAR(255) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			role ENUM('admin','customer') NOT NULL,
			first_name VARCHAR(100) NOT NULL,
			last_name VARCHAR(100) NOT NULL,
			is_blocked TINYINT(1) NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS documents (
			id CHAR(36) PRIMARY KEY,
			user_id CHAR(36) NOT NULL,
			document_type VARCHAR(100) NOT NULL,
			file_name VARCHAR(255) NOT NULL,
			file_url VARCHAR(1024) NOT NULL,
			file_size BIGINT NOT NULL,
			status ENUM('pending','approved','rejected') NOT NULL DEFAULT 'pending',
			rejection_reason TEXT NULL,
			reviewed_by CHAR(36) NULL,
			reviewed_at DATETIME NULL,
			uploaded_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`DELETE FROM documents`,
		`DELETE FROM users`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			t.Fatalf("prepare schema: %v", err)
		}
	}
	return db
}

type testApp struct {
	server *httptest.Server
	users  *repository.UserRepo
	docs   *repository.DocumentRepo
	cfg    config.Config
}

func newTestApp(t *testing.T, db *sql.DB) *testApp {
	t.Helper()
	cfg := config.Config{
		Env:          "test",
		JWTSecret:    "integration-secret",
		TokenTTLDays: 7,
		BcryptCost:   4,
	}
	users := repository.NewUserRepo(db)
	docs := repository.NewDocumentRepo(db)
	blocklist := service.NewBlocklist(users, nil, time.Second)

	auth := NewAuthHandler(cfg, users)
	adminCustomers := NewAdminCustomerHandler(cfg, users, docs, blocklist)
	adminDocs := NewAdminDocumentHandler(docs)
	customerDocs := NewCustomerDocumentHandler(docs, nil) // Upload not exercised here

	e := echo.New()
	e.POST("/auth/login", auth.Login)
	adminGroup := e.Group("/admin",
		middleware.Authenticate(cfg.JWTSecret, blocklist.IsBlocked),
		middleware.RequireRole(model.RoleAdmin))
	adminGroup.GET("/customers", adminCustomers.List)
	adminGroup.POST("/customers", adminCustomers.Create)
	adminGroup.GET("/customers/:id", adminCustomers.Get)
	adminGroup.PATCH("/customers/:id", adminCustomers.SetBlocked)
	adminGroup.GET("/documents", adminDocs.List)
	adminGroup.PATCH("/documents/:id/review", adminDocs.Review)
	customerGroup := e.Group("/customer",
		middleware.Authenticate(cfg.JWTSecret, blocklist.IsBlocked),
		middleware.RequireRole(model.RoleCustomer))
	customerGroup.GET("/documents", customerDocs.List)
	customerGroup.POST("/documents", customerDocs.Submit)

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return &testApp{server: srv, users: users, docs: docs, cfg: cfg}
}

// seedUser inserts a user directly through the users table so tests can
// control role and blocked state.
func (a *testApp) seedUser(t *testing.T, id, email string, role model.Role, password string, blocked bool) {
	t.Helper()
	hash, err := utils.HashPassword(password, 4)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	_, err = a.users.DB.Exec(
		"INSERT INTO users (id, email, password_hash, role, first_name, last_name, is_blocked) VALUES (?,?,?,?,?,?,?)",
		id, email, hash, role, "Test", "User", blocked)
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
}

func (a *testApp) request(t *testing.T, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, a.server.URL+path, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()
	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func (a *testApp) login(t *testing.T, email, password string, role model.Role) (string, int) {
	t.Helper()
	resp, body := a.request(t, http.MethodPost, "/auth/login", "", map[string]any{
		"email": email, "password": password, "role": string(role),
	})
	token, _ := body["token"].(string)
	return token, resp.StatusCode
}

func TestLoginIssuesMatchingRole(t *testing.T) {
	db := openTestDB(t)
	defer db.Close()
	app := newTestApp(t, db)
	app.seedUser(t, "10000000-0000-0000-0000-000000000001", "admin@example.com", model.RoleAdmin, "admin-pass", false)
	app.seedUser(t, "10000000-0000-0000-0000-000000000002", "a@example.com", model.RoleCustomer, "customer-pass", false)

	for _, tc := range []struct {
		email, password string
		role            model.Role
	}{
		{"admin@example.com", "admin-pass", model.RoleAdmin},
		{"a@example.com", "customer-pass", model.RoleCustomer},
	} {
		token, status := app.login(t, tc.email, tc.password, tc.role)
		if status != http.StatusOK {
			t.Fatalf("login %s: status %d", tc.email, status)
		}
		p, err := utils.DecodeSessionToken(app.cfg.JWTSecret, token)
		if err != nil {
			t.Fatalf("decode issued token: %v", err)
		}
		if p.Role != tc.role || p.Email != tc.email {
			t.Fatalf("token principal %+v does not match %s/%s", p, tc.email, tc.role)
		}
	}

	// Wrong password and role crossover both read as invalid credentials.
	if _, status := app.login(t, "a@example.com", "wrong", model.RoleCustomer); status != http.StatusUnauthorized {
		t.Fatalf("wrong password: status %d, want 401", status)
	}
	if _, status := app.login(t, "a@example.com", "customer-pass", model.RoleAdmin); status != http.StatusUnauthorized {
		t.Fatalf("role crossover: status %d, want 401", status)
	}
}

func TestBlockedAccountCannotLogin(t *testing.T) {
	db := openTestDB(t)
	defer db.Close()
	app := newTestApp(t, db)
	app.seedUser(t, "20000000-0000-0000-0000-000000000001", "blocked@example.com", model.RoleCustomer, "pw", true)

	if _, status := app.login(t, "blocked@example.com", "pw", model.RoleCustomer); status != http.StatusForbidden {
		t.Fatalf("blocked login: status %d, want 403", status)
	}
}

func TestCustomerTokenRejectedAtAdminGate(t *testing.T) {
	db := openTestDB(t)
	defer db.Close()
	app := newTestApp(t, db)
	app.seedUser(t, "30000000-0000-0000-0000-000000000001", "a@example.com", model.RoleCustomer, "pw", false)

	token, _ := app.login(t, "a@example.com", "pw", model.RoleCustomer)
	resp, _ := app.request(t, http.MethodGet, "/admin/documents", token, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("customer on admin gate: status %d, want 403", resp.StatusCode)
	}
}

func TestDuplicateEmailConflicts(t *testing.T) {
	db := openTestDB(t)
	defer db.Close()
	app := newTestApp(t, db)
	app.seedUser(t, "40000000-0000-0000-0000-000000000001", "admin@example.com", model.RoleAdmin, "pw", false)
	adminToken, _ := app.login(t, "admin@example.com", "pw", model.RoleAdmin)

	payload := map[string]any{
		"email": "dup@example.com", "password": "pw", "first_name": "John", "last_name": "Doe",
	}
	resp, _ := app.request(t, http.MethodPost, "/admin/customers", adminToken, payload)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("first create: status %d, want 201", resp.StatusCode)
	}
	resp, _ = app.request(t, http.MethodPost, "/admin/customers", adminToken, payload)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("second create: status %d, want 409", resp.StatusCode)
	}
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM users WHERE email=?", "dup@example.com").Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected exactly one row, got %d", n)
	}
}

func TestDocumentReviewLifecycle(t *testing.T) {
	db := openTestDB(t)
	defer db.Close()
	app := newTestApp(t, db)
	app.seedUser(t, "50000000-0000-0000-0000-000000000001", "admin@example.com", model.RoleAdmin, "pw", false)
	app.seedUser(t, "50000000-0000-0000-0000-000000000002", "a@example.com", model.RoleCustomer, "pw", false)

	adminToken, _ := app.login(t, "admin@example.com", "pw", model.RoleAdmin)
	customerToken, _ := app.login(t, "a@example.com", "pw", model.RoleCustomer)

	// Customer registers a document.
	resp, body := app.request(t, http.MethodPost, "/customer/documents", customerToken, map[string]any{
		"document_type": "Passport",
		"file_name":     "passport.pdf",
		"file_url":      "https://files.example.com/uploads/passport.pdf",
		"file_size":     12345,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("submit: status %d, want 201", resp.StatusCode)
	}
	doc := body["document"].(map[string]any)
	docID := doc["id"].(string)
	if doc["status"] != "pending" {
		t.Fatalf("new document status %v, want pending", doc["status"])
	}
	if _, present := doc["reviewed_by"]; present {
		t.Fatalf("pending document must not carry reviewed_by")
	}

	// Admin sees it pending in the full listing.
	resp, body = app.request(t, http.MethodGet, "/admin/documents", adminToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin list: status %d", resp.StatusCode)
	}
	listed := body["documents"].([]any)
	if len(listed) != 1 {
		t.Fatalf("admin list: %d documents, want 1", len(listed))
	}

	// Rejection without a reason is a validation failure.
	resp, _ = app.request(t, http.MethodPatch, fmt.Sprintf("/admin/documents/%s/review", docID), adminToken,
		map[string]any{"status": "rejected"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("reject without reason: status %d, want 400", resp.StatusCode)
	}

	// Reject with a reason.
	resp, body = app.request(t, http.MethodPatch, fmt.Sprintf("/admin/documents/%s/review", docID), adminToken,
		map[string]any{"status": "rejected", "rejection_reason": "blurry scan"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("reject: status %d, want 200", resp.StatusCode)
	}
	reviewed := body["document"].(map[string]any)
	if reviewed["status"] != "rejected" || reviewed["rejection_reason"] != "blurry scan" {
		t.Fatalf("unexpected reviewed document: %v", reviewed)
	}
	if reviewed["reviewed_by"] != "50000000-0000-0000-0000-000000000001" {
		t.Fatalf("reviewed_by = %v, want admin id", reviewed["reviewed_by"])
	}
	if _, present := reviewed["reviewed_at"]; !present {
		t.Fatalf("terminal document must carry reviewed_at")
	}

	// The decision is terminal: a second review conflicts.
	resp, _ = app.request(t, http.MethodPatch, fmt.Sprintf("/admin/documents/%s/review", docID), adminToken,
		map[string]any{"status": "approved"})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("re-review: status %d, want 409", resp.StatusCode)
	}

	// The customer's own listing shows the same rejection.
	resp, body = app.request(t, http.MethodGet, "/customer/documents", customerToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("customer list: status %d", resp.StatusCode)
	}
	mine := body["documents"].([]any)
	if len(mine) != 1 {
		t.Fatalf("customer list: %d documents, want 1", len(mine))
	}
	got := mine[0].(map[string]any)
	if got["status"] != "rejected" || got["rejection_reason"] != "blurry scan" {
		t.Fatalf("customer view out of sync: %v", got)
	}

	// Unknown document id is distinguishable from the terminal conflict.
	resp, _ = app.request(t, http.MethodPatch, "/admin/documents/ffffffff-0000-0000-0000-000000000000/review", adminToken,
		map[string]any{"status": "approved"})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown id: status %d, want 404", resp.StatusCode)
	}
}

func TestBlockTakesEffectImmediately(t *testing.T) {
	db := openTestDB(t)
	defer db.Close()
	app := newTestApp(t, db)
	app.seedUser(t, "60000000-0000-0000-0000-000000000001", "admin@example.com", model.RoleAdmin, "pw", false)
	app.seedUser(t, "60000000-0000-0000-0000-000000000002", "a@example.com", model.RoleCustomer, "pw", false)

	adminToken, _ := app.login(t, "admin@example.com", "pw", model.RoleAdmin)
	customerToken, _ := app.login(t, "a@example.com", "pw", model.RoleCustomer)

	// Customer is fine before the block.
	resp, _ := app.request(t, http.MethodGet, "/customer/documents", customerToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("pre-block: status %d", resp.StatusCode)
	}

	resp, body := app.request(t, http.MethodPatch, "/admin/customers/60000000-0000-0000-0000-000000000002", adminToken,
		map[string]any{"is_blocked": true})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("block: status %d", resp.StatusCode)
	}
	if blocked := body["customer"].(map[string]any)["is_blocked"]; blocked != true {
		t.Fatalf("is_blocked = %v, want true", blocked)
	}

	// The still-valid token no longer works: the live flag is re-checked.
	resp, _ = app.request(t, http.MethodGet, "/customer/documents", customerToken, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("post-block: status %d, want 403", resp.StatusCode)
	}

	// Unblock restores access; the toggle is idempotent both ways.
	for i := 0; i < 2; i++ {
		resp, _ = app.request(t, http.MethodPatch, "/admin/customers/60000000-0000-0000-0000-000000000002", adminToken,
			map[string]any{"is_blocked": false})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("unblock attempt %d: status %d", i, resp.StatusCode)
		}
	}
	resp, _ = app.request(t, http.MethodGet, "/customer/documents", customerToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("post-unblock: status %d, want 200", resp.StatusCode)
	}

	// Blocking an unknown or non-customer id is a 404.
	resp, _ = app.request(t, http.MethodPatch, "/admin/customers/60000000-0000-0000-0000-000000000001", adminToken,
		map[string]any{"is_blocked": true})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("block admin id: status %d, want 404", resp.StatusCode)
	}
}
