package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/kwizera-dev/docufind/backend/internal/models"
	"github.com/kwizera-dev/docufind/backend/internal/storage"
	"gorm.io/gorm"
)

// ClaimRepository defines the interface for claim request operations.
// Approve and Reject carry the lifecycle guards down to the database so
// concurrent decisions cannot race past a read-then-write check.
type ClaimRepository interface {
	CreateClaim(ctx context.Context, claim *models.ClaimRequest) error
	GetClaimByID(ctx context.Context, id uint) (*models.ClaimRequest, error)
	GetClaimsByDocument(ctx context.Context, documentID uint) ([]models.ClaimRequest, error)
	HasPendingClaim(ctx context.Context, documentID, claimantID uint) (bool, error)
	CountActiveClaims(ctx context.Context, documentID uint) (int64, error)
	ApproveClaim(ctx context.Context, claim *models.ClaimRequest) error
	RejectClaim(ctx context.Context, claim *models.ClaimRequest) error
}

// PostgresClaimRepository implements ClaimRepository for PostgreSQL
type PostgresClaimRepository struct {
	db *gorm.DB
}

// NewPostgresClaimRepository creates a new PostgresClaimRepository
func NewPostgresClaimRepository(db *gorm.DB) *PostgresClaimRepository {
	return &PostgresClaimRepository{db: db}
}

// CreateClaim inserts a pending claim. The partial unique index on
// (document_id, claimant_id) where status = 'pending' makes concurrent
// duplicate submissions lose with ErrConflict instead of double-inserting.
func (r *PostgresClaimRepository) CreateClaim(ctx context.Context, claim *models.ClaimRequest) error {
	if err := r.db.WithContext(ctx).Create(claim).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return storage.ErrConflict
		}
		return err
	}
	return nil
}

// GetClaimByID retrieves a claim request with its claimant resolved
func (r *PostgresClaimRepository) GetClaimByID(ctx context.Context, id uint) (*models.ClaimRequest, error) {
	var claim models.ClaimRequest
	if err := r.db.WithContext(ctx).Preload("Claimant").First(&claim, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return &claim, nil
}

// GetClaimsByDocument lists claims for a document, newest first
func (r *PostgresClaimRepository) GetClaimsByDocument(ctx context.Context, documentID uint) ([]models.ClaimRequest, error) {
	var claims []models.ClaimRequest
	err := r.db.WithContext(ctx).
		Where("document_id = ?", documentID).
		Order("created_at DESC").
		Preload("Claimant").
		Find(&claims).Error
	return claims, err
}

// HasPendingClaim reports whether the claimant already has a pending claim
// on the document
func (r *PostgresClaimRepository) HasPendingClaim(ctx context.Context, documentID, claimantID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ClaimRequest{}).
		Where("document_id = ? AND claimant_id = ? AND status = ?", documentID, claimantID, models.ClaimStatusPending).
		Count(&count).Error
	return count > 0, err
}

// CountActiveClaims counts claims on a document that are not rejected.
// Used to block reverting a document to lost while a claim is live.
func (r *PostgresClaimRepository) CountActiveClaims(ctx context.Context, documentID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ClaimRequest{}).
		Where("document_id = ? AND status <> ?", documentID, models.ClaimStatusRejected).
		Count(&count).Error
	return count, err
}

// ApproveClaim moves a pending claim to approved and the document to claimed
// in one transaction. Both updates are conditional: the claim update matches
// only while the claim is still pending, and the document update is a
// compare-and-swap on status <> 'claimed', so a concurrent approval of a
// sibling claim aborts the whole transaction with ErrConflict.
func (r *PostgresClaimRepository) ApproveClaim(ctx context.Context, claim *models.ClaimRequest) error {
	now := time.Now()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.ClaimRequest{}).
			Where("id = ? AND status = ?", claim.ID, models.ClaimStatusPending).
			Updates(map[string]interface{}{"status": models.ClaimStatusApproved, "updated_at": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return storage.ErrInvalidState
		}

		res = tx.Model(&models.DocumentReport{}).
			Where("id = ? AND status <> ?", claim.DocumentID, models.DocumentStatusClaimed).
			Updates(map[string]interface{}{
				"status":        models.DocumentStatusClaimed,
				"claimed_by_id": claim.ClaimantID,
				"claimed_at":    now,
				"updated_at":    now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return storage.ErrConflict
		}
		return nil
	})
	if err != nil {
		return err
	}
	claim.Status = models.ClaimStatusApproved
	claim.UpdatedAt = now
	return nil
}

// RejectClaim moves a pending claim to rejected. The document is untouched.
func (r *PostgresClaimRepository) RejectClaim(ctx context.Context, claim *models.ClaimRequest) error {
	now := time.Now()
	res := r.db.WithContext(ctx).Model(&models.ClaimRequest{}).
		Where("id = ? AND status = ?", claim.ID, models.ClaimStatusPending).
		Updates(map[string]interface{}{"status": models.ClaimStatusRejected, "updated_at": now})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return storage.ErrInvalidState
	}
	claim.Status = models.ClaimStatusRejected
	claim.UpdatedAt = now
	return nil
}
