package model

import (
	"fmt"
	"time"
)

// Role is the closed set of account roles.  It is a named type rather than
// a bare string so that handlers and middleware compare typed values; an
// unknown role can only enter the system through ParseRole, which rejects it.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCustomer Role = "customer"
)

// ParseRole validates a raw role string coming from a request body or a
// token claim. Anything outside the two known roles is an error.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleCustomer:
		return RoleCustomer, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// User mirrors the `users` table. Role is fixed at creation; no endpoint
// mutates it. IsBlocked gates login and every authenticated request
// regardless of token validity.
//
// Fields:
//  ID           – UUID primary key of the user.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password; never serialized.
//  Role         – admin or customer.
//  FirstName    – given name shown in listings.
//  LastName     – family name shown in listings.
//  IsBlocked    – whether the account is locked out.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	IsBlocked    bool      `json:"is_blocked"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Principal is the authenticated identity attached to a request after the
// session token checks out. It is a snapshot of the user at token issuance
// time, not a live database row.
type Principal struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}
