package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Well-known activity actions.
const (
	ActionClaimSubmitted           = "claim_submitted"
	ActionClaimApproved            = "claim_approved"
	ActionClaimRejected            = "claim_rejected"
	ActionNotificationRead         = "notification_read"
	ActionNotificationsMarkAllRead = "notifications_mark_all_read"
)

// ActivityLog is an append-only audit entry stored in MongoDB. Entries are
// never mutated or deleted.
type ActivityLog struct {
	ID        primitive.ObjectID     `json:"id,omitempty" bson:"_id,omitempty"`
	UserID    *uint                  `json:"user_id,omitempty" bson:"user_id,omitempty"`
	Action    string                 `json:"action" bson:"action"`
	Meta      map[string]interface{} `json:"meta,omitempty" bson:"meta,omitempty"`
	IP        string                 `json:"ip,omitempty" bson:"ip,omitempty"`
	RequestID string                 `json:"request_id,omitempty" bson:"request_id,omitempty"`
	CreatedAt time.Time              `json:"created_at" bson:"created_at"`
}
