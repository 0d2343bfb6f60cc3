package services

import (
	"context"
	"log"
	"time"

	"github.com/kwizera-dev/docufind/backend/internal/models"
	"github.com/kwizera-dev/docufind/backend/internal/repositories"
)

const activityTimeout = 3 * time.Second

// ActivityService appends audit entries for user-visible actions. Recording
// is best-effort: a failed append is logged and never propagated to the
// operation it accompanies.
type ActivityService struct {
	logs repositories.ActivityLogRepository
}

func NewActivityService(logs repositories.ActivityLogRepository) *ActivityService {
	return &ActivityService{logs: logs}
}

// Record appends an activity log entry. Runs on a detached context with its
// own deadline so a cancelled request cannot abort the append mid-flight.
func (s *ActivityService) Record(userID *uint, action string, meta map[string]interface{}, ip, requestID string) {
	ctx, cancel := context.WithTimeout(context.Background(), activityTimeout)
	defer cancel()

	entry := &models.ActivityLog{
		UserID:    userID,
		Action:    action,
		Meta:      meta,
		IP:        ip,
		RequestID: requestID,
	}
	if err := s.logs.InsertLog(ctx, entry); err != nil {
		log.Printf("activity log append failed (action=%s): %v", action, err)
	}
}

// ListForUser returns the most recent entries for a user, newest first.
func (s *ActivityService) ListForUser(ctx context.Context, userID uint) ([]models.ActivityLog, error) {
	ctx, cancel := context.WithTimeout(ctx, activityTimeout)
	defer cancel()
	return s.logs.GetLogsByUser(ctx, userID, 100)
}
