package models

import "time"

const (
	HandoverStatusPending   = "pending"
	HandoverStatusCompleted = "completed"
)

// Handover records the physical return of a claimed document to its owner.
type Handover struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	DocumentID      uint      `json:"document_id" gorm:"not null;index"`
	ClaimantName    string    `json:"claimant_name" gorm:"size:100;not null"`
	RCStaffMemberID *uint     `json:"rc_staff_member_id,omitempty"`
	Status          string    `json:"status" gorm:"size:20;default:'completed'"`
	HandoverDate    time.Time `json:"handover_date" gorm:"not null;index"`
	Notes           string    `json:"notes"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type CreateHandoverRequest struct {
	DocumentID   uint   `json:"documentId" validate:"required"`
	ClaimantName string `json:"claimantName" validate:"required,min=2,max=100"`
	HandoverDate string `json:"handoverDate" validate:"required"`
	Notes        string `json:"notes,omitempty"`
}

type UpdateHandoverRequest struct {
	ClaimantName string `json:"claimantName,omitempty" validate:"omitempty,min=2,max=100"`
	Status       string `json:"status,omitempty" validate:"omitempty,oneof=pending completed"`
	HandoverDate string `json:"handoverDate,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

// HandoverFilter narrows handover listings.
type HandoverFilter struct {
	Status     string
	DocumentID uint
}
