package models

import "time"

// Notification is delivered to a claimant when their claim is decided.
// The document/claim columns let clients deep-link to the affected records.
type Notification struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	UserID       uint      `json:"user_id" gorm:"not null;index"`
	Title        string    `json:"title" gorm:"size:100;not null"`
	Message      string    `json:"message" gorm:"not null"`
	IsRead       bool      `json:"is_read" gorm:"default:false;index"`
	DocumentID   uint      `json:"document_id"`
	ClaimID      uint      `json:"claim_id"`
	ClaimStatus  string    `json:"claim_status" gorm:"size:20"`
	DocumentType string    `json:"document_type" gorm:"size:50"`
	CreatedAt    time.Time `json:"created_at" gorm:"index"`
}
