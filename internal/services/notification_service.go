package services

import (
	"context"
	"fmt"
	"time"

	"github.com/kwizera-dev/docufind/backend/internal/models"
	"github.com/kwizera-dev/docufind/backend/internal/repositories"
)

const notifyTimeout = 3 * time.Second

// NotificationService emits and manages claim-decision notifications.
type NotificationService struct {
	notifications repositories.NotificationRepository
	activity      *ActivityService
}

func NewNotificationService(notifications repositories.NotificationRepository, activity *ActivityService) *NotificationService {
	return &NotificationService{notifications: notifications, activity: activity}
}

// NotifyClaimDecision builds and persists the notification for a decided
// claim. Title and message are deterministic for a given decision and
// document type. Not idempotent: callers rely on the claim's terminal-state
// invariant to bound it to one call per claim.
func (s *NotificationService) NotifyClaimDecision(ctx context.Context, userID uint, doc *models.DocumentReport, claim *models.ClaimRequest, decision string) (*models.Notification, error) {
	ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()

	var title, message string
	if decision == models.DecisionApprove {
		title = "Claim approved"
		message = fmt.Sprintf("Your claim for the %s has been approved. Please arrange collection with the registry office.", doc.DocumentType)
	} else {
		title = "Claim rejected"
		message = fmt.Sprintf("Your claim for the %s has been rejected.", doc.DocumentType)
	}

	notification := &models.Notification{
		UserID:       userID,
		Title:        title,
		Message:      message,
		DocumentID:   doc.ID,
		ClaimID:      claim.ID,
		ClaimStatus:  claim.Status,
		DocumentType: doc.DocumentType,
	}
	if err := s.notifications.CreateNotification(ctx, notification); err != nil {
		return nil, err
	}
	return notification, nil
}

// ListForUser returns a user's notifications, newest first.
func (s *NotificationService) ListForUser(ctx context.Context, userID uint) ([]models.Notification, error) {
	ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()
	return s.notifications.GetByUserID(ctx, userID)
}

// UnreadCount returns the number of unread notifications for a user.
func (s *NotificationService) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()
	return s.notifications.GetUnreadCount(ctx, userID)
}

// MarkRead marks one notification as read and records the action in the
// activity log.
func (s *NotificationService) MarkRead(ctx context.Context, notificationID uint, ip, requestID string) (*models.Notification, error) {
	ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()

	notification, err := s.notifications.GetNotificationByID(ctx, notificationID)
	if err != nil {
		return nil, err
	}
	if err := s.notifications.MarkAsRead(ctx, notificationID); err != nil {
		return nil, err
	}
	notification.IsRead = true

	s.activity.Record(&notification.UserID, models.ActionNotificationRead,
		map[string]interface{}{"notificationId": notificationID}, ip, requestID)
	return notification, nil
}

// MarkAllRead marks every unread notification for a user as read and
// returns how many were modified.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint, ip, requestID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()

	modified, err := s.notifications.MarkAllAsRead(ctx, userID)
	if err != nil {
		return 0, err
	}

	s.activity.Record(&userID, models.ActionNotificationsMarkAllRead,
		map[string]interface{}{"count": modified}, ip, requestID)
	return modified, nil
}
