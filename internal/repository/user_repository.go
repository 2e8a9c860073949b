package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/docushield/document-portal/internal/model"
	"github.com/docushield/document-portal/internal/utils"
)

// UserRepo provides access to the users table. All reads and writes are
// single-row operations keyed by id or email; no multi-statement
// transactions are needed.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id,email,password_hash,role,first_name,last_name,is_blocked,created_at,updated_at"

// CreateCustomer hashes the password and inserts a new customer account.
// Role is always customer here; admin accounts are provisioned out of
// band. The plaintext password never reaches the database or the logs.
// A duplicate email (MySQL error 1062) maps to ErrEmailExists.
func (r *UserRepo) CreateCustomer(ctx context.Context, email, password, firstName, lastName string, cost int) (model.User, error) {
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return model.User{}, err
	}
	id := uuid.NewString()
	_, err = r.DB.ExecContext(ctx,
		"INSERT INTO users (id, email, password_hash, role, first_name, last_name) VALUES (?,?,?,?,?,?)",
		id, email, hash, model.RoleCustomer, firstName, lastName)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return model.User{}, ErrEmailExists
		}
		return model.User{}, err
	}
	return r.GetByID(ctx, id)
}

// GetByEmailAndRole fetches a user matching both email and role. Login
// looks users up this way so that a customer credential cannot open an
// admin session even when the password matches.
func (r *UserRepo) GetByEmailAndRole(ctx context.Context, email string, role model.Role) (model.User, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? AND role=? LIMIT 1", email, role)
	return scanUser(row)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id string) (model.User, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id)
	return scanUser(row)
}

// GetCustomer fetches a user by id constrained to the customer role. An
// existing admin id yields ErrNotFound, the same as a missing id.
func (r *UserRepo) GetCustomer(ctx context.Context, id string) (model.User, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? AND role=? LIMIT 1", id, model.RoleCustomer)
	return scanUser(row)
}

// ListCustomers returns every customer account, newest first.
func (r *UserRepo) ListCustomers(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE role=? ORDER BY created_at DESC", model.RoleCustomer)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	users := make([]model.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// SetBlocked updates the is_blocked flag on a customer account and returns
// the updated row. The toggle is idempotent: setting an already-blocked
// account to blocked succeeds. MySQL reports zero affected rows for a
// no-change update, so existence is checked with a read first instead of
// relying on RowsAffected.
func (r *UserRepo) SetBlocked(ctx context.Context, id string, blocked bool) (model.User, error) {
	if _, err := r.GetCustomer(ctx, id); err != nil {
		return model.User{}, err
	}
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET is_blocked=? WHERE id=? AND role=?", blocked, id, model.RoleCustomer)
	if err != nil {
		return model.User{}, err
	}
	return r.GetCustomer(ctx, id)
}

// IsBlocked reports the live is_blocked flag for a user id. ErrNotFound is
// returned when the user no longer exists; callers decide how to treat a
// principal whose account vanished.
func (r *UserRepo) IsBlocked(ctx context.Context, id string) (bool, error) {
	var blocked bool
	err := r.DB.QueryRowContext(ctx,
		"SELECT is_blocked FROM users WHERE id=? LIMIT 1", id).Scan(&blocked)
	if errors.Is(err, sql.ErrNoRows) {
		return false, ErrNotFound
	}
	return blocked, err
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role,
		&u.FirstName, &u.LastName, &u.IsBlocked, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	return u, err
}
