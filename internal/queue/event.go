// Package queue defines message payloads exchanged over the message broker.
package queue

// DocumentReviewedEvent is published when an admin records a terminal
// decision on a document. It carries enough information for downstream
// consumers to log or notify without querying the primary database.
type DocumentReviewedEvent struct {
	DocumentID      string `json:"document_id"`
	DocumentType    string `json:"document_type"`
	OwnerID         string `json:"owner_id"`
	OwnerEmail      string `json:"owner_email"`
	ReviewerID      string `json:"reviewer_id"`
	ReviewerName    string `json:"reviewer_name"`
	Status          string `json:"status"`
	RejectionReason string `json:"rejection_reason,omitempty"`
	ReviewedAt      string `json:"reviewed_at"`
}
