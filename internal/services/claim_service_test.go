package services

import (
	"context"
	"testing"

	"github.com/kwizera-dev/docufind/backend/internal/authz"
	"github.com/kwizera-dev/docufind/backend/internal/models"
	"github.com/kwizera-dev/docufind/backend/internal/repositories"
	"github.com/kwizera-dev/docufind/backend/internal/storage"
	"github.com/stretchr/testify/suite"
)

// The claim lifecycle carries the registry's real invariants: one pending
// claim per (document, claimant), terminal decisions, first-approval-wins,
// and the claimed-iff-claimedBy coupling. The suite exercises them against
// the in-memory stores, which mirror the database constraint semantics.

type ClaimServiceSuite struct {
	suite.Suite
	users         *repositories.MemoryUserRepository
	documents     *repositories.MemoryDocumentRepository
	claims        *repositories.MemoryClaimRepository
	notifications *repositories.MemoryNotificationRepository
	activity      *repositories.MemoryActivityLogRepository
	service       *ClaimService

	reporter *models.User
	claimant *models.User
	other    *models.User
	staff    *models.User
}

func TestClaimServiceSuite(t *testing.T) {
	suite.Run(t, new(ClaimServiceSuite))
}

func (s *ClaimServiceSuite) SetupTest() {
	s.users = repositories.NewMemoryUserRepository()
	s.documents = repositories.NewMemoryDocumentRepository()
	s.claims = repositories.NewMemoryClaimRepository(s.documents)
	s.notifications = repositories.NewMemoryNotificationRepository()
	s.activity = repositories.NewMemoryActivityLogRepository()

	activitySvc := NewActivityService(s.activity)
	notifier := NewNotificationService(s.notifications, activitySvc)
	s.service = NewClaimService(s.claims, s.documents, s.users, notifier, activitySvc, authz.NewRoleAuthorizer())

	s.reporter = s.seedUser("reporter@example.com", models.RoleReporter)
	s.claimant = s.seedUser("claimant@example.com", models.RoleReporter)
	s.other = s.seedUser("other@example.com", models.RoleFinder)
	s.staff = s.seedUser("staff@example.com", models.RoleRCStaff)
}

func (s *ClaimServiceSuite) seedUser(email, role string) *models.User {
	u := &models.User{Name: "Test User", Email: email, Role: role, Status: models.UserStatusActive}
	s.Require().NoError(s.users.CreateUser(context.Background(), u))
	return u
}

func (s *ClaimServiceSuite) seedDocument(status string) *models.DocumentReport {
	doc := &models.DocumentReport{
		DocumentType: "national ID",
		Description:  "ID card found near the bus terminal",
		Location:     "Nyabugogo",
		Status:       status,
		ReportedByID: s.reporter.ID,
	}
	s.Require().NoError(s.documents.CreateDocument(context.Background(), doc))
	return doc
}

// assertClaimedInvariant checks that status == claimed iff claimedBy is set.
func (s *ClaimServiceSuite) assertClaimedInvariant(docID uint) {
	doc, err := s.documents.GetDocumentByID(context.Background(), docID)
	s.Require().NoError(err)
	if doc.Status == models.DocumentStatusClaimed {
		s.NotNil(doc.ClaimedByID)
		s.NotNil(doc.ClaimedAt)
	} else {
		s.Nil(doc.ClaimedByID)
		s.Nil(doc.ClaimedAt)
	}
}

func (s *ClaimServiceSuite) TestSubmitClaim() {
	ctx := context.Background()

	s.Run("creates a pending claim against a found document", func() {
		doc := s.seedDocument(models.DocumentStatusFound)
		claim, err := s.service.SubmitClaim(ctx, doc.ID, s.claimant.ID, "my ID, serial ends 42", "", "")
		s.Require().NoError(err)
		s.Equal(models.ClaimStatusPending, claim.Status)
		s.Equal(doc.ID, claim.DocumentID)
		s.Equal(s.claimant.ID, claim.ClaimantID)
		s.Require().NotNil(claim.Claimant)
		s.Equal(s.claimant.Email, claim.Claimant.Email)
		s.assertClaimedInvariant(doc.ID)
	})

	s.Run("unknown claimant fails not found", func() {
		doc := s.seedDocument(models.DocumentStatusFound)
		_, err := s.service.SubmitClaim(ctx, doc.ID, 999, "", "", "")
		s.ErrorIs(err, storage.ErrNotFound)
	})

	s.Run("unknown document fails not found", func() {
		_, err := s.service.SubmitClaim(ctx, 999, s.claimant.ID, "", "", "")
		s.ErrorIs(err, storage.ErrNotFound)
	})

	s.Run("lost document fails invalid state", func() {
		doc := s.seedDocument(models.DocumentStatusLost)
		_, err := s.service.SubmitClaim(ctx, doc.ID, s.claimant.ID, "", "", "")
		s.ErrorIs(err, storage.ErrInvalidState)
	})

	s.Run("duplicate pending claim fails conflict", func() {
		doc := s.seedDocument(models.DocumentStatusFound)
		_, err := s.service.SubmitClaim(ctx, doc.ID, s.claimant.ID, "", "", "")
		s.Require().NoError(err)
		_, err = s.service.SubmitClaim(ctx, doc.ID, s.claimant.ID, "again", "", "")
		s.ErrorIs(err, storage.ErrConflict)
	})

	s.Run("different users may each hold a pending claim", func() {
		doc := s.seedDocument(models.DocumentStatusFound)
		_, err := s.service.SubmitClaim(ctx, doc.ID, s.claimant.ID, "", "", "")
		s.Require().NoError(err)
		_, err = s.service.SubmitClaim(ctx, doc.ID, s.other.ID, "", "", "")
		s.NoError(err)
	})

	s.Run("rejected claimant may claim again", func() {
		doc := s.seedDocument(models.DocumentStatusFound)
		claim, err := s.service.SubmitClaim(ctx, doc.ID, s.claimant.ID, "", "", "")
		s.Require().NoError(err)
		_, _, err = s.service.DecideClaim(ctx, s.staff, doc.ID, claim.ID, models.DecisionReject, "", "")
		s.Require().NoError(err)
		_, err = s.service.SubmitClaim(ctx, doc.ID, s.claimant.ID, "second attempt", "", "")
		s.NoError(err)
	})
}

func (s *ClaimServiceSuite) TestApproveClaim() {
	ctx := context.Background()

	s.Run("approval claims the document and notifies the claimant", func() {
		doc := s.seedDocument(models.DocumentStatusFound)
		claim, err := s.service.SubmitClaim(ctx, doc.ID, s.claimant.ID, "", "", "")
		s.Require().NoError(err)

		decided, updatedDoc, err := s.service.DecideClaim(ctx, s.staff, doc.ID, claim.ID, models.DecisionApprove, "", "")
		s.Require().NoError(err)
		s.Equal(models.ClaimStatusApproved, decided.Status)
		s.Equal(models.DocumentStatusClaimed, updatedDoc.Status)
		s.Require().NotNil(updatedDoc.ClaimedByID)
		s.Equal(s.claimant.ID, *updatedDoc.ClaimedByID)
		s.NotNil(updatedDoc.ClaimedAt)
		s.assertClaimedInvariant(doc.ID)

		notifications, err := s.notifications.GetByUserID(ctx, s.claimant.ID)
		s.Require().NoError(err)
		s.Require().Len(notifications, 1)
		s.Equal("Claim approved", notifications[0].Title)
		s.Contains(notifications[0].Message, "national ID")
		s.Equal(doc.ID, notifications[0].DocumentID)
		s.Equal(claim.ID, notifications[0].ClaimID)
		s.Equal(models.ClaimStatusApproved, notifications[0].ClaimStatus)
		s.False(notifications[0].IsRead)
	})

	s.Run("terminal claim cannot be decided again", func() {
		doc := s.seedDocument(models.DocumentStatusFound)
		claim, err := s.service.SubmitClaim(ctx, doc.ID, s.claimant.ID, "", "", "")
		s.Require().NoError(err)
		_, _, err = s.service.DecideClaim(ctx, s.staff, doc.ID, claim.ID, models.DecisionApprove, "", "")
		s.Require().NoError(err)

		_, _, err = s.service.DecideClaim(ctx, s.staff, doc.ID, claim.ID, models.DecisionApprove, "", "")
		s.ErrorIs(err, storage.ErrInvalidState)
		_, _, err = s.service.DecideClaim(ctx, s.staff, doc.ID, claim.ID, models.DecisionReject, "", "")
		s.ErrorIs(err, storage.ErrInvalidState)
	})

	s.Run("claimed document rejects new claims", func() {
		doc := s.seedDocument(models.DocumentStatusFound)
		claim, err := s.service.SubmitClaim(ctx, doc.ID, s.claimant.ID, "", "", "")
		s.Require().NoError(err)
		_, _, err = s.service.DecideClaim(ctx, s.staff, doc.ID, claim.ID, models.DecisionApprove, "", "")
		s.Require().NoError(err)

		_, err = s.service.SubmitClaim(ctx, doc.ID, s.other.ID, "", "", "")
		s.ErrorIs(err, storage.ErrInvalidState)
	})

	s.Run("pending sibling claim cannot be approved once the document is claimed", func() {
		doc := s.seedDocument(models.DocumentStatusFound)
		first, err := s.service.SubmitClaim(ctx, doc.ID, s.claimant.ID, "", "", "")
		s.Require().NoError(err)
		second, err := s.service.SubmitClaim(ctx, doc.ID, s.other.ID, "", "", "")
		s.Require().NoError(err)

		_, _, err = s.service.DecideClaim(ctx, s.staff, doc.ID, first.ID, models.DecisionApprove, "", "")
		s.Require().NoError(err)

		_, _, err = s.service.DecideClaim(ctx, s.staff, doc.ID, second.ID, models.DecisionApprove, "", "")
		s.ErrorIs(err, storage.ErrConflict)

		// The losing claim is still pending and can be rejected.
		_, _, err = s.service.DecideClaim(ctx, s.staff, doc.ID, second.ID, models.DecisionReject, "", "")
		s.NoError(err)
	})

	s.Run("claim must belong to the document", func() {
		doc := s.seedDocument(models.DocumentStatusFound)
		otherDoc := s.seedDocument(models.DocumentStatusFound)
		claim, err := s.service.SubmitClaim(ctx, doc.ID, s.claimant.ID, "", "", "")
		s.Require().NoError(err)

		_, _, err = s.service.DecideClaim(ctx, s.staff, otherDoc.ID, claim.ID, models.DecisionApprove, "", "")
		s.ErrorIs(err, storage.ErrNotFound)
	})
}

func (s *ClaimServiceSuite) TestRejectClaim() {
	ctx := context.Background()
	doc := s.seedDocument(models.DocumentStatusFound)
	claim, err := s.service.SubmitClaim(ctx, doc.ID, s.claimant.ID, "", "", "")
	s.Require().NoError(err)

	decided, updatedDoc, err := s.service.DecideClaim(ctx, s.staff, doc.ID, claim.ID, models.DecisionReject, "", "")
	s.Require().NoError(err)
	s.Equal(models.ClaimStatusRejected, decided.Status)

	// The document is untouched by a rejection.
	s.Equal(models.DocumentStatusFound, updatedDoc.Status)
	s.Nil(updatedDoc.ClaimedByID)
	s.assertClaimedInvariant(doc.ID)

	notifications, err := s.notifications.GetByUserID(ctx, s.claimant.ID)
	s.Require().NoError(err)
	s.Require().Len(notifications, 1)
	s.Equal("Claim rejected", notifications[0].Title)
}

func (s *ClaimServiceSuite) TestDecideClaimAuthorization() {
	ctx := context.Background()
	doc := s.seedDocument(models.DocumentStatusFound)
	claim, err := s.service.SubmitClaim(ctx, doc.ID, s.claimant.ID, "", "", "")
	s.Require().NoError(err)

	s.Run("reporters cannot decide claims", func() {
		_, _, err := s.service.DecideClaim(ctx, s.reporter, doc.ID, claim.ID, models.DecisionApprove, "", "")
		s.ErrorIs(err, authz.ErrForbidden)
	})

	s.Run("suspended staff cannot decide claims", func() {
		suspended := &models.User{Name: "Suspended", Email: "sus@example.com", Role: models.RoleRCStaff, Status: models.UserStatusSuspended}
		s.Require().NoError(s.users.CreateUser(ctx, suspended))
		_, _, err := s.service.DecideClaim(ctx, suspended, doc.ID, claim.ID, models.DecisionApprove, "", "")
		s.ErrorIs(err, authz.ErrForbidden)
	})

	s.Run("unknown decision fails invalid state", func() {
		_, _, err := s.service.DecideClaim(ctx, s.staff, doc.ID, claim.ID, "escalate", "", "")
		s.ErrorIs(err, storage.ErrInvalidState)
	})
}

func (s *ClaimServiceSuite) TestDecideClaimAuditFields() {
	ctx := context.Background()
	doc := s.seedDocument(models.DocumentStatusFound)
	claim, err := s.service.SubmitClaim(ctx, doc.ID, s.claimant.ID, "", "", "")
	s.Require().NoError(err)

	_, _, err = s.service.DecideClaim(ctx, s.staff, doc.ID, claim.ID, models.DecisionApprove, "203.0.113.9", "req-7f3a")
	s.Require().NoError(err)

	logs, err := s.activity.GetLogsByUser(ctx, s.staff.ID, 10)
	s.Require().NoError(err)
	s.Require().Len(logs, 1)
	s.Equal(models.ActionClaimApproved, logs[0].Action)
	s.Equal("203.0.113.9", logs[0].IP)
	s.Equal("req-7f3a", logs[0].RequestID)
}

func (s *ClaimServiceSuite) TestListClaims() {
	ctx := context.Background()
	doc := s.seedDocument(models.DocumentStatusFound)

	first, err := s.service.SubmitClaim(ctx, doc.ID, s.claimant.ID, "", "", "")
	s.Require().NoError(err)
	second, err := s.service.SubmitClaim(ctx, doc.ID, s.other.ID, "", "", "")
	s.Require().NoError(err)

	claims, err := s.service.ListClaims(ctx, doc.ID)
	s.Require().NoError(err)
	s.Require().Len(claims, 2)
	// Newest first.
	s.Equal(second.ID, claims[0].ID)
	s.Equal(first.ID, claims[1].ID)

	_, err = s.service.ListClaims(ctx, 999)
	s.ErrorIs(err, storage.ErrNotFound)
}

func (s *ClaimServiceSuite) TestSetDocumentStatus() {
	ctx := context.Background()

	s.Run("free transition between lost and found without claims", func() {
		doc := s.seedDocument(models.DocumentStatusFound)
		updated, err := s.service.SetDocumentStatus(ctx, s.staff, doc.ID, models.DocumentStatusLost)
		s.Require().NoError(err)
		s.Equal(models.DocumentStatusLost, updated.Status)

		updated, err = s.service.SetDocumentStatus(ctx, s.staff, doc.ID, models.DocumentStatusFound)
		s.Require().NoError(err)
		s.Equal(models.DocumentStatusFound, updated.Status)
	})

	s.Run("reverting to lost is blocked while a claim is pending", func() {
		doc := s.seedDocument(models.DocumentStatusFound)
		claim, err := s.service.SubmitClaim(ctx, doc.ID, s.claimant.ID, "", "", "")
		s.Require().NoError(err)

		_, err = s.service.SetDocumentStatus(ctx, s.staff, doc.ID, models.DocumentStatusLost)
		s.ErrorIs(err, storage.ErrInvalidState)

		_, _, err = s.service.DecideClaim(ctx, s.staff, doc.ID, claim.ID, models.DecisionReject, "", "")
		s.Require().NoError(err)

		_, err = s.service.SetDocumentStatus(ctx, s.staff, doc.ID, models.DocumentStatusLost)
		s.NoError(err)
	})

	s.Run("claimed documents never change status here", func() {
		doc := s.seedDocument(models.DocumentStatusFound)
		claim, err := s.service.SubmitClaim(ctx, doc.ID, s.claimant.ID, "", "", "")
		s.Require().NoError(err)
		_, _, err = s.service.DecideClaim(ctx, s.staff, doc.ID, claim.ID, models.DecisionApprove, "", "")
		s.Require().NoError(err)

		_, err = s.service.SetDocumentStatus(ctx, s.staff, doc.ID, models.DocumentStatusFound)
		s.ErrorIs(err, storage.ErrInvalidState)
		_, err = s.service.SetDocumentStatus(ctx, s.staff, doc.ID, models.DocumentStatusLost)
		s.ErrorIs(err, storage.ErrInvalidState)
	})

	s.Run("claimed is not settable directly", func() {
		doc := s.seedDocument(models.DocumentStatusFound)
		_, err := s.service.SetDocumentStatus(ctx, s.staff, doc.ID, models.DocumentStatusClaimed)
		s.ErrorIs(err, storage.ErrInvalidState)
	})

	s.Run("requires a staff actor", func() {
		doc := s.seedDocument(models.DocumentStatusFound)
		_, err := s.service.SetDocumentStatus(ctx, s.reporter, doc.ID, models.DocumentStatusLost)
		s.ErrorIs(err, authz.ErrForbidden)
	})
}
