package authz

import (
	"testing"

	"github.com/kwizera-dev/docufind/backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestRoleAuthorizer(t *testing.T) {
	a := NewRoleAuthorizer()
	active := func(role string) *models.User {
		return &models.User{Role: role, Status: models.UserStatusActive}
	}

	cases := []struct {
		name    string
		actor   *models.User
		action  Action
		allowed bool
	}{
		{"nil actor", nil, ActionDecideClaim, false},
		{"suspended staff", &models.User{Role: models.RoleRCStaff, Status: models.UserStatusSuspended}, ActionDecideClaim, false},
		{"archived admin", &models.User{Role: models.RoleAdmin, Status: models.UserStatusArchived}, ActionDecideClaim, false},
		{"reporter decides claim", active(models.RoleReporter), ActionDecideClaim, false},
		{"finder decides claim", active(models.RoleFinder), ActionDecideClaim, false},
		{"police decides claim", active(models.RolePolice), ActionDecideClaim, false},
		{"rc staff decides claim", active(models.RoleRCStaff), ActionDecideClaim, true},
		{"admin decides claim", active(models.RoleAdmin), ActionDecideClaim, true},
		{"rc staff sets status", active(models.RoleRCStaff), ActionSetDocumentStatus, true},
		{"reporter sets status", active(models.RoleReporter), ActionSetDocumentStatus, false},
		{"rc staff deletes document", active(models.RoleRCStaff), ActionDeleteDocument, false},
		{"admin deletes document", active(models.RoleAdmin), ActionDeleteDocument, true},
		{"police manages handovers", active(models.RolePolice), ActionManageHandovers, true},
		{"rc staff manages handovers", active(models.RoleRCStaff), ActionManageHandovers, true},
		{"reporter manages handovers", active(models.RoleReporter), ActionManageHandovers, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := a.Authorize(tc.actor, tc.action, "test")
			if tc.allowed {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrForbidden)
			}
		})
	}
}
