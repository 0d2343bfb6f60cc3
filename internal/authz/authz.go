// Package authz provides capability checks for staff-only registry actions.
package authz

import (
	"errors"

	"github.com/kwizera-dev/docufind/backend/internal/models"
)

// ErrForbidden is returned when an actor is not allowed to perform an action.
var ErrForbidden = errors.New("forbidden")

// Action names a capability being checked.
type Action string

const (
	ActionDecideClaim       Action = "claim:decide"
	ActionSetDocumentStatus Action = "document:set_status"
	ActionDeleteDocument    Action = "document:delete"
	ActionManageHandovers   Action = "handover:manage"
)

// Authorizer decides whether an actor may perform an action on a resource.
// Injected into the claim service so the policy can be swapped without
// touching the lifecycle logic.
type Authorizer interface {
	Authorize(actor *models.User, action Action, resource string) error
}

// RoleAuthorizer grants capabilities by user role and status.
type RoleAuthorizer struct{}

func NewRoleAuthorizer() *RoleAuthorizer {
	return &RoleAuthorizer{}
}

func (a *RoleAuthorizer) Authorize(actor *models.User, action Action, _ string) error {
	if actor == nil || actor.Status != models.UserStatusActive {
		return ErrForbidden
	}
	switch action {
	case ActionDecideClaim, ActionSetDocumentStatus:
		if actor.Role == models.RoleRCStaff || actor.Role == models.RoleAdmin {
			return nil
		}
	case ActionDeleteDocument:
		if actor.Role == models.RoleAdmin {
			return nil
		}
	case ActionManageHandovers:
		if actor.IsStaff() {
			return nil
		}
	}
	return ErrForbidden
}
