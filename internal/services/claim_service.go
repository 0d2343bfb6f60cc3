package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/kwizera-dev/docufind/backend/internal/authz"
	"github.com/kwizera-dev/docufind/backend/internal/models"
	"github.com/kwizera-dev/docufind/backend/internal/repositories"
	"github.com/kwizera-dev/docufind/backend/internal/storage"
)

const claimTimeout = 5 * time.Second

// ClaimService drives the claim lifecycle: submission against found
// documents, staff decisions, and the document status transitions they
// trigger. Notification and activity-log side effects are emitted after the
// state change is durable and never roll it back.
type ClaimService struct {
	claims    repositories.ClaimRepository
	documents repositories.DocumentRepository
	users     repositories.UserRepository
	notifier  *NotificationService
	activity  *ActivityService
	authz     authz.Authorizer
}

func NewClaimService(
	claims repositories.ClaimRepository,
	documents repositories.DocumentRepository,
	users repositories.UserRepository,
	notifier *NotificationService,
	activity *ActivityService,
	authorizer authz.Authorizer,
) *ClaimService {
	return &ClaimService{
		claims:    claims,
		documents: documents,
		users:     users,
		notifier:  notifier,
		activity:  activity,
		authz:     authorizer,
	}
}

// SubmitClaim files a pending claim by claimantID against documentID.
// The document must currently be found; a claimant may hold at most one
// pending claim per document. No notification is sent on submission.
func (s *ClaimService) SubmitClaim(ctx context.Context, documentID, claimantID uint, notes string, ip, requestID string) (*models.ClaimRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, claimTimeout)
	defer cancel()

	claimant, err := s.users.GetUserByID(ctx, claimantID)
	if err != nil {
		return nil, fmt.Errorf("%w: claimant %d does not exist", storage.ErrNotFound, claimantID)
	}

	doc, err := s.documents.GetDocumentByID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("%w: document %d does not exist", storage.ErrNotFound, documentID)
	}
	if doc.Status != models.DocumentStatusFound {
		return nil, fmt.Errorf("%w: document is not available for claims (status is %s)", storage.ErrInvalidState, doc.Status)
	}

	// Fast path for a clean 409; the partial unique index is what actually
	// closes the race between concurrent submissions.
	pending, err := s.claims.HasPendingClaim(ctx, documentID, claimantID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, fmt.Errorf("%w: a pending claim by this user already exists for this document", storage.ErrConflict)
	}

	claim := &models.ClaimRequest{
		DocumentID: documentID,
		ClaimantID: claimantID,
		Status:     models.ClaimStatusPending,
		Notes:      notes,
	}
	if err := s.claims.CreateClaim(ctx, claim); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return nil, fmt.Errorf("%w: a pending claim by this user already exists for this document", storage.ErrConflict)
		}
		return nil, err
	}
	claim.Claimant = claimant

	s.activity.Record(&claimantID, models.ActionClaimSubmitted,
		map[string]interface{}{"documentId": documentID, "claimId": claim.ID}, ip, requestID)
	return claim, nil
}

// DecideClaim resolves a pending claim. Approving also transitions the
// document to claimed; the repository performs both updates atomically and
// the compare-and-swap on document status guarantees at most one approved
// claim per document. The claimant is notified on both paths; notification
// failure is logged, not propagated.
func (s *ClaimService) DecideClaim(ctx context.Context, actor *models.User, documentID, claimID uint, decision string, ip, requestID string) (*models.ClaimRequest, *models.DocumentReport, error) {
	if err := s.authz.Authorize(actor, authz.ActionDecideClaim, "claims"); err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, claimTimeout)
	defer cancel()

	claim, err := s.claims.GetClaimByID(ctx, claimID)
	if err != nil || claim.DocumentID != documentID {
		return nil, nil, fmt.Errorf("%w: claim %d does not exist for document %d", storage.ErrNotFound, claimID, documentID)
	}
	if claim.Status != models.ClaimStatusPending {
		return nil, nil, fmt.Errorf("%w: claim has already been %s", storage.ErrInvalidState, claim.Status)
	}

	doc, err := s.documents.GetDocumentByID(ctx, documentID)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: document %d does not exist", storage.ErrNotFound, documentID)
	}

	action := models.ActionClaimRejected
	switch decision {
	case models.DecisionApprove:
		if doc.Status == models.DocumentStatusClaimed {
			return nil, nil, fmt.Errorf("%w: document has already been claimed", storage.ErrConflict)
		}
		if err := s.claims.ApproveClaim(ctx, claim); err != nil {
			if errors.Is(err, storage.ErrConflict) {
				return nil, nil, fmt.Errorf("%w: document has already been claimed", storage.ErrConflict)
			}
			if errors.Is(err, storage.ErrInvalidState) {
				return nil, nil, fmt.Errorf("%w: claim is no longer pending", storage.ErrInvalidState)
			}
			return nil, nil, err
		}
		action = models.ActionClaimApproved
	case models.DecisionReject:
		if err := s.claims.RejectClaim(ctx, claim); err != nil {
			if errors.Is(err, storage.ErrInvalidState) {
				return nil, nil, fmt.Errorf("%w: claim is no longer pending", storage.ErrInvalidState)
			}
			return nil, nil, err
		}
	default:
		return nil, nil, fmt.Errorf("%w: unknown decision %q", storage.ErrInvalidState, decision)
	}

	// Reload the document so the response reflects the committed transition.
	doc, err = s.documents.GetDocumentByID(ctx, documentID)
	if err != nil {
		return nil, nil, err
	}

	if _, err := s.notifier.NotifyClaimDecision(ctx, claim.ClaimantID, doc, claim, decision); err != nil {
		log.Printf("claim decision notification failed (claim=%d): %v", claim.ID, err)
	}
	s.activity.Record(&actor.ID, action,
		map[string]interface{}{"documentId": documentID, "claimId": claim.ID, "claimantId": claim.ClaimantID}, ip, requestID)

	return claim, doc, nil
}

// ListClaims returns a document's claims, newest first.
func (s *ClaimService) ListClaims(ctx context.Context, documentID uint) ([]models.ClaimRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, claimTimeout)
	defer cancel()

	if _, err := s.documents.GetDocumentByID(ctx, documentID); err != nil {
		return nil, fmt.Errorf("%w: document %d does not exist", storage.ErrNotFound, documentID)
	}
	return s.claims.GetClaimsByDocument(ctx, documentID)
}

// SetDocumentStatus switches a document between lost and found. Reverting to
// lost is refused while any non-rejected claim exists, so an active claim is
// never silently discarded. claimed is not reachable through here.
func (s *ClaimService) SetDocumentStatus(ctx context.Context, actor *models.User, documentID uint, status string) (*models.DocumentReport, error) {
	if err := s.authz.Authorize(actor, authz.ActionSetDocumentStatus, "documents"); err != nil {
		return nil, err
	}
	if status != models.DocumentStatusLost && status != models.DocumentStatusFound {
		return nil, fmt.Errorf("%w: status must be lost or found", storage.ErrInvalidState)
	}

	ctx, cancel := context.WithTimeout(ctx, claimTimeout)
	defer cancel()

	doc, err := s.documents.GetDocumentByID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("%w: document %d does not exist", storage.ErrNotFound, documentID)
	}
	if doc.Status == models.DocumentStatusClaimed {
		return nil, fmt.Errorf("%w: claimed documents cannot change status", storage.ErrInvalidState)
	}

	if status == models.DocumentStatusLost {
		active, err := s.claims.CountActiveClaims(ctx, documentID)
		if err != nil {
			return nil, err
		}
		if active > 0 {
			return nil, fmt.Errorf("%w: document has active claims and cannot revert to lost", storage.ErrInvalidState)
		}
	}

	if err := s.documents.SetStatus(ctx, documentID, status); err != nil {
		return nil, err
	}
	doc.Status = status
	return doc, nil
}
