package identity

import (
	"context"

	"github.com/google/uuid"
)

// Permission names for the dashboard section, in resource:action form.
const (
	PermissionAdmin              = "admin"
	PermissionDashboardAccess    = "dashboard:access"
	PermissionDashboardAdd       = "dashboard:add"
	PermissionDashboardConfigure = "dashboard:configure"
	PermissionDashboardDelete    = "dashboard:delete"
)

// AllDashboardPermissions lists every permission the dashboard section provides.
var AllDashboardPermissions = []string{
	PermissionDashboardAccess,
	PermissionDashboardAdd,
	PermissionDashboardConfigure,
	PermissionDashboardDelete,
}

// PermissionChecker evaluates whether a member holds a named permission.
// Implementations resolve the member's granted permission set; admin implies
// every permission.
type PermissionChecker interface {
	Check(ctx context.Context, memberID uuid.UUID, permission string) (bool, error)
}
