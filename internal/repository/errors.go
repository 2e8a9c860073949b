// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios and map
// them to the right HTTP status without inspecting driver error text.
package repository

import "errors"

// ErrNotFound is returned when a lookup by id (or id plus role) matches
// no row. Handlers translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when an insert violates the unique email
// constraint. Handlers translate this into an HTTP 409 response.
var ErrEmailExists = errors.New("email already exists")

// ErrAlreadyReviewed is returned when a review targets a document that
// has already reached a terminal status. The status-guarded update makes
// concurrent double-reviews fail safely instead of overwriting the first
// decision. Handlers translate this into an HTTP 409 response.
var ErrAlreadyReviewed = errors.New("document already reviewed")
