package model

import (
	"fmt"
	"time"
)

// DocumentStatus is the review lifecycle of an uploaded document.  A
// document starts pending and moves exactly once to approved or rejected;
// both of those are terminal.
type DocumentStatus string

const (
	StatusPending  DocumentStatus = "pending"
	StatusApproved DocumentStatus = "approved"
	StatusRejected DocumentStatus = "rejected"
)

// ParseDecision validates a review decision from a request body. Only the
// two terminal states are legal decisions; pending is not a decision.
func ParseDecision(s string) (DocumentStatus, error) {
	switch DocumentStatus(s) {
	case StatusApproved:
		return StatusApproved, nil
	case StatusRejected:
		return StatusRejected, nil
	}
	return "", fmt.Errorf("status must be approved or rejected, got %q", s)
}

// Document mirrors the `documents` table. RejectionReason is set only when
// status is rejected; ReviewedBy and ReviewedAt are set together when the
// terminal decision is recorded and are null while pending.
type Document struct {
	ID              string         `json:"id"`
	UserID          string         `json:"user_id"`
	DocumentType    string         `json:"document_type"`
	FileName        string         `json:"file_name"`
	FileURL         string         `json:"file_url"`
	FileSize        int64          `json:"file_size"`
	Status          DocumentStatus `json:"status"`
	RejectionReason *string        `json:"rejection_reason,omitempty"`
	ReviewedBy      *string        `json:"reviewed_by,omitempty"`
	ReviewedAt      *time.Time     `json:"reviewed_at,omitempty"`
	UploadedAt      time.Time      `json:"uploaded_at"`
}

// DocumentDetail is a Document joined with display names of its owner and,
// once reviewed, its reviewer. Returned by admin listings and by review so
// the client does not need follow-up lookups.
type DocumentDetail struct {
	Document
	OwnerFirstName    string  `json:"owner_first_name"`
	OwnerLastName     string  `json:"owner_last_name"`
	OwnerEmail        string  `json:"owner_email"`
	ReviewerFirstName *string `json:"reviewer_first_name,omitempty"`
	ReviewerLastName  *string `json:"reviewer_last_name,omitempty"`
}
