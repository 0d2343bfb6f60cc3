package models

import "time"

// Claim lifecycle: pending -> approved or pending -> rejected. Approved and
// rejected are terminal; rows are never deleted.
const (
	ClaimStatusPending  = "pending"
	ClaimStatusApproved = "approved"
	ClaimStatusRejected = "rejected"
)

const (
	DecisionApprove = "approve"
	DecisionReject  = "reject"
)

// ClaimRequest is a user's request to take ownership of a found document.
// The partial unique index allows at most one pending claim per
// (document, claimant) pair; terminal claims do not participate, so a user
// may claim again after a rejection.
type ClaimRequest struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	DocumentID uint      `json:"document_id" gorm:"not null;index;uniqueIndex:idx_claims_one_pending,where:status = 'pending'"`
	ClaimantID uint      `json:"claimant_id" gorm:"not null;index;uniqueIndex:idx_claims_one_pending,where:status = 'pending'"`
	Status     string    `json:"status" gorm:"size:20;default:'pending';index"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at" gorm:"index"`
	UpdatedAt  time.Time `json:"updated_at"`

	Claimant *User `json:"claimant,omitempty" gorm:"foreignKey:ClaimantID"`
}

type SubmitClaimRequest struct {
	UserID uint   `json:"userId" validate:"required"`
	Notes  string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}
