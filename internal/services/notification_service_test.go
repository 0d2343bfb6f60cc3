package services

import (
	"context"
	"testing"

	"github.com/kwizera-dev/docufind/backend/internal/models"
	"github.com/kwizera-dev/docufind/backend/internal/repositories"
	"github.com/kwizera-dev/docufind/backend/internal/storage"
	"github.com/stretchr/testify/suite"
)

type NotificationServiceSuite struct {
	suite.Suite
	notifications *repositories.MemoryNotificationRepository
	activity      *repositories.MemoryActivityLogRepository
	service       *NotificationService
}

func TestNotificationServiceSuite(t *testing.T) {
	suite.Run(t, new(NotificationServiceSuite))
}

func (s *NotificationServiceSuite) SetupTest() {
	s.notifications = repositories.NewMemoryNotificationRepository()
	s.activity = repositories.NewMemoryActivityLogRepository()
	s.service = NewNotificationService(s.notifications, NewActivityService(s.activity))
}

func (s *NotificationServiceSuite) seedNotification(userID uint) *models.Notification {
	n := &models.Notification{
		UserID:       userID,
		Title:        "Claim approved",
		Message:      "Your claim for the passport has been approved. Please arrange collection with the registry office.",
		DocumentID:   1,
		ClaimID:      1,
		ClaimStatus:  models.ClaimStatusApproved,
		DocumentType: "passport",
	}
	s.Require().NoError(s.notifications.CreateNotification(context.Background(), n))
	return n
}

func (s *NotificationServiceSuite) TestNotifyClaimDecision() {
	ctx := context.Background()
	doc := &models.DocumentReport{ID: 7, DocumentType: "driving licence", Status: models.DocumentStatusClaimed}
	claim := &models.ClaimRequest{ID: 3, DocumentID: 7, ClaimantID: 5, Status: models.ClaimStatusApproved}

	n, err := s.service.NotifyClaimDecision(ctx, 5, doc, claim, models.DecisionApprove)
	s.Require().NoError(err)
	s.Equal(uint(5), n.UserID)
	s.Equal("Claim approved", n.Title)
	s.Contains(n.Message, "driving licence")
	s.Equal(uint(7), n.DocumentID)
	s.Equal(uint(3), n.ClaimID)
	s.False(n.IsRead)

	claim.Status = models.ClaimStatusRejected
	n, err = s.service.NotifyClaimDecision(ctx, 5, doc, claim, models.DecisionReject)
	s.Require().NoError(err)
	s.Equal("Claim rejected", n.Title)
	s.Equal(models.ClaimStatusRejected, n.ClaimStatus)
}

func (s *NotificationServiceSuite) TestUnreadCountAndMarkRead() {
	ctx := context.Background()
	first := s.seedNotification(1)
	s.seedNotification(1)
	s.seedNotification(2)

	count, err := s.service.UnreadCount(ctx, 1)
	s.Require().NoError(err)
	s.Equal(int64(2), count)

	read, err := s.service.MarkRead(ctx, first.ID, "", "")
	s.Require().NoError(err)
	s.True(read.IsRead)

	count, err = s.service.UnreadCount(ctx, 1)
	s.Require().NoError(err)
	s.Equal(int64(1), count)

	// Marking an already-read notification stays read and succeeds.
	read, err = s.service.MarkRead(ctx, first.ID, "", "")
	s.Require().NoError(err)
	s.True(read.IsRead)

	logs, err := s.activity.GetLogsByUser(ctx, 1, 10)
	s.Require().NoError(err)
	s.Require().NotEmpty(logs)
	s.Equal(models.ActionNotificationRead, logs[0].Action)
}

func (s *NotificationServiceSuite) TestMarkReadUnknownNotification() {
	_, err := s.service.MarkRead(context.Background(), 999, "", "")
	s.ErrorIs(err, storage.ErrNotFound)
}

func (s *NotificationServiceSuite) TestMarkAllRead() {
	ctx := context.Background()
	s.seedNotification(1)
	s.seedNotification(1)
	s.seedNotification(2)

	modified, err := s.service.MarkAllRead(ctx, 1, "", "")
	s.Require().NoError(err)
	s.Equal(int64(2), modified)

	count, err := s.service.UnreadCount(ctx, 1)
	s.Require().NoError(err)
	s.Zero(count)

	// Untouched for other users, zero on a second pass.
	count, err = s.service.UnreadCount(ctx, 2)
	s.Require().NoError(err)
	s.Equal(int64(1), count)

	modified, err = s.service.MarkAllRead(ctx, 1, "", "")
	s.Require().NoError(err)
	s.Zero(modified)
}
