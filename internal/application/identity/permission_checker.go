package identity

import (
	"context"
	"errors"

	"github.com/cms/dashboard/internal/domain/identity"
	"github.com/cms/dashboard/internal/domain/shared"
	"github.com/google/uuid"
)

// MemberPermissionChecker resolves permissions from the member record,
// so grants and revocations apply without waiting for token expiry.
type MemberPermissionChecker struct {
	members identity.MemberRepository
}

// NewMemberPermissionChecker creates a new MemberPermissionChecker
func NewMemberPermissionChecker(members identity.MemberRepository) *MemberPermissionChecker {
	return &MemberPermissionChecker{members: members}
}

// Check reports whether the member holds the named permission
func (c *MemberPermissionChecker) Check(ctx context.Context, memberID uuid.UUID, permission string) (bool, error) {
	member, err := c.members.FindByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return member.HasPermission(permission), nil
}
