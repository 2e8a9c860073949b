package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/docushield/document-portal/internal/model"
)

// DocumentRepo provides access to the documents table and its review
// lifecycle. Listings are snapshots ordered most-recently-uploaded first.
type DocumentRepo struct{ DB *sql.DB }

func NewDocumentRepo(db *sql.DB) *DocumentRepo { return &DocumentRepo{DB: db} }

const documentColumns = "id,user_id,document_type,file_name,file_url,file_size,status,rejection_reason,reviewed_by,reviewed_at,uploaded_at"

// detailQuery joins each document with its owner and, when reviewed, the
// reviewer. The reviewer join is LEFT so pending documents still appear.
const detailQuery = `SELECT d.id, d.user_id, d.document_type, d.file_name, d.file_url, d.file_size,
       d.status, d.rejection_reason, d.reviewed_by, d.reviewed_at, d.uploaded_at,
       o.first_name, o.last_name, o.email,
       rv.first_name, rv.last_name
FROM documents d
JOIN users o ON o.id = d.user_id
LEFT JOIN users rv ON rv.id = d.reviewed_by`

// Insert creates a new pending document for the given owner. Validation of
// the individual fields happens at the handler boundary; the repository
// assumes well-formed input.
func (r *DocumentRepo) Insert(ctx context.Context, ownerID, docType, fileName, fileURL string, fileSize int64) (model.Document, error) {
	id := uuid.NewString()
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO documents (id, user_id, document_type, file_name, file_url, file_size) VALUES (?,?,?,?,?,?)",
		id, ownerID, docType, fileName, fileURL, fileSize)
	if err != nil {
		return model.Document{}, err
	}
	return r.GetByID(ctx, id)
}

// GetByID fetches a bare document row.
func (r *DocumentRepo) GetByID(ctx context.Context, id string) (model.Document, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+documentColumns+" FROM documents WHERE id=? LIMIT 1", id)
	return scanDocument(row)
}

// ListByOwner returns all documents belonging to one customer, newest
// upload first.
func (r *DocumentRepo) ListByOwner(ctx context.Context, ownerID string) ([]model.Document, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+documentColumns+" FROM documents WHERE user_id=? ORDER BY uploaded_at DESC", ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	docs := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// ListAll returns every document with owner and reviewer display fields,
// newest upload first. Admin listing only.
func (r *DocumentRepo) ListAll(ctx context.Context) ([]model.DocumentDetail, error) {
	rows, err := r.DB.QueryContext(ctx, detailQuery+" ORDER BY d.uploaded_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	docs := make([]model.DocumentDetail, 0)
	for rows.Next() {
		d, err := scanDocumentDetail(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// GetDetail fetches one document joined with owner and reviewer names.
func (r *DocumentRepo) GetDetail(ctx context.Context, id string) (model.DocumentDetail, error) {
	row := r.DB.QueryRowContext(ctx, detailQuery+" WHERE d.id=? LIMIT 1", id)
	return scanDocumentDetail(row)
}

// Review records a terminal decision on a pending document: status,
// reviewer identity and timestamp in one conditional update. The
// `status='pending'` guard makes concurrent double-reviews lose cleanly:
// the second update matches no row and the caller gets ErrAlreadyReviewed
// instead of silently overwriting the first decision. An approval clears
// any rejection reason; a rejection stores the provided one.
func (r *DocumentRepo) Review(ctx context.Context, id string, decision model.DocumentStatus, reviewerID string, reason *string) (model.DocumentDetail, error) {
	var reasonVal any
	if decision == model.StatusRejected && reason != nil {
		reasonVal = *reason
	}
	res, err := r.DB.ExecContext(ctx,
		"UPDATE documents SET status=?, rejection_reason=?, reviewed_by=?, reviewed_at=? WHERE id=? AND status=?",
		decision, reasonVal, reviewerID, time.Now().UTC(), id, model.StatusPending)
	if err != nil {
		return model.DocumentDetail{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return model.DocumentDetail{}, err
	}
	if affected == 0 {
		// Either the document never existed or it is already terminal.
		if _, err := r.GetByID(ctx, id); errors.Is(err, ErrNotFound) {
			return model.DocumentDetail{}, ErrNotFound
		} else if err != nil {
			return model.DocumentDetail{}, err
		}
		return model.DocumentDetail{}, ErrAlreadyReviewed
	}
	return r.GetDetail(ctx, id)
}

func scanDocument(row rowScanner) (model.Document, error) {
	var d model.Document
	var reason, reviewedBy sql.NullString
	var reviewedAt sql.NullTime
	err := row.Scan(&d.ID, &d.UserID, &d.DocumentType, &d.FileName, &d.FileURL, &d.FileSize,
		&d.Status, &reason, &reviewedBy, &reviewedAt, &d.UploadedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Document{}, ErrNotFound
	}
	if err != nil {
		return model.Document{}, err
	}
	if reason.Valid {
		d.RejectionReason = &reason.String
	}
	if reviewedBy.Valid {
		d.ReviewedBy = &reviewedBy.String
	}
	if reviewedAt.Valid {
		t := reviewedAt.Time
		d.ReviewedAt = &t
	}
	return d, nil
}

func scanDocumentDetail(row rowScanner) (model.DocumentDetail, error) {
	var d model.DocumentDetail
	var reason, reviewedBy sql.NullString
	var reviewedAt sql.NullTime
	var rvFirst, rvLast sql.NullString
	err := row.Scan(&d.ID, &d.UserID, &d.DocumentType, &d.FileName, &d.FileURL, &d.FileSize,
		&d.Status, &reason, &reviewedBy, &reviewedAt, &d.UploadedAt,
		&d.OwnerFirstName, &d.OwnerLastName, &d.OwnerEmail,
		&rvFirst, &rvLast)
	if errors.Is(err, sql.ErrNoRows) {
		return model.DocumentDetail{}, ErrNotFound
	}
	if err != nil {
		return model.DocumentDetail{}, err
	}
	if reason.Valid {
		d.RejectionReason = &reason.String
	}
	if reviewedBy.Valid {
		d.ReviewedBy = &reviewedBy.String
	}
	if reviewedAt.Valid {
		t := reviewedAt.Time
		d.ReviewedAt = &t
	}
	if rvFirst.Valid {
		d.ReviewerFirstName = &rvFirst.String
	}
	if rvLast.Valid {
		d.ReviewerLastName = &rvLast.String
	}
	return d, nil
}
