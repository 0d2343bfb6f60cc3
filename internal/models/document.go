package models

import "time"

// Document status is the single source of truth for claimability. A document
// becomes claimed only through an approved claim and never leaves that state
// through the status endpoint.
const (
	DocumentStatusLost    = "lost"
	DocumentStatusFound   = "found"
	DocumentStatusClaimed = "claimed"
)

// DocumentReport represents a reported lost or found document.
// ClaimedBy/ClaimedAt are set if and only if Status is claimed.
type DocumentReport struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	DocumentType string     `json:"document_type" gorm:"size:50;not null;index"`
	Description  string     `json:"description"`
	Location     string     `json:"location"`
	DateLost     *time.Time `json:"date_lost,omitempty" gorm:"index"`
	ReportDate   time.Time  `json:"report_date" gorm:"index"`
	Status       string     `json:"status" gorm:"size:20;default:'lost';index"`
	ReportedByID uint       `json:"reported_by" gorm:"not null;index"`
	ClaimedByID  *uint      `json:"claimed_by,omitempty"`
	ClaimedAt    *time.Time `json:"claimed_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

type CreateDocumentRequest struct {
	DocumentType string `json:"document_type" validate:"required"`
	Description  string `json:"description" validate:"required"`
	Location     string `json:"location" validate:"required"`
	DateLost     string `json:"date_lost" validate:"required"` // RFC 3339 or YYYY-MM-DD
	Status       string `json:"status" validate:"required,oneof=lost found"`
	ReportedBy   uint   `json:"reported_by" validate:"required"`
}

type UpdateDocumentRequest struct {
	DocumentType string `json:"document_type,omitempty"`
	Description  string `json:"description,omitempty"`
	Location     string `json:"location,omitempty"`
	DateLost     string `json:"date_lost,omitempty"`
}

type SetDocumentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=lost found"`
}

// DocumentFilter narrows document listings.
type DocumentFilter struct {
	Status       string
	DocumentType string
	StartDate    *time.Time
	EndDate      *time.Time
}
