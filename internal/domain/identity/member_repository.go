package identity

import (
	"context"

	"github.com/google/uuid"
)

// MemberRepository defines the persistence interface for Member aggregates
type MemberRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Member, error)
	FindByEmail(ctx context.Context, email string) (*Member, error)
	// FindByPermission returns all members holding the named permission,
	// including admins.
	FindByPermission(ctx context.Context, permission string) ([]*Member, error)
	Save(ctx context.Context, member *Member) error
	Delete(ctx context.Context, id uuid.UUID) error
}
