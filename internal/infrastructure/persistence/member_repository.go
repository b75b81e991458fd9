package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/cms/dashboard/internal/domain/identity"
	"github.com/cms/dashboard/internal/domain/shared"
	"github.com/cms/dashboard/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormMemberRepository implements identity.MemberRepository using GORM
type GormMemberRepository struct {
	db *gorm.DB
}

// NewGormMemberRepository creates a new GormMemberRepository
func NewGormMemberRepository(db *gorm.DB) *GormMemberRepository {
	return &GormMemberRepository{db: db}
}

// FindByID finds a member by their ID
func (r *GormMemberRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Member, error) {
	var model models.MemberModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByEmail finds a member by their email address
func (r *GormMemberRepository) FindByEmail(ctx context.Context, email string) (*identity.Member, error) {
	var model models.MemberModel
	if err := r.db.WithContext(ctx).First(&model, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// permissionScope narrows a member query to rows whose JSON permission
// array contains the quoted permission, or the admin permission. The
// column is jsonb on Postgres and plain text on SQLite, so it is cast
// to text before matching; jsonb has no LIKE operator of its own.
func permissionScope(permission string) func(tx *gorm.DB) *gorm.DB {
	pattern := fmt.Sprintf("%%%q%%", permission)
	adminPattern := fmt.Sprintf("%%%q%%", identity.PermissionAdmin)
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Where(
			"CAST(permissions AS text) LIKE ? OR CAST(permissions AS text) LIKE ?",
			pattern, adminPattern)
	}
}

// FindByPermission returns all members holding the named permission.
// Admins hold every permission implicitly.
func (r *GormMemberRepository) FindByPermission(ctx context.Context, permission string) ([]*identity.Member, error) {
	var memberModels []models.MemberModel
	if err := r.db.WithContext(ctx).
		Scopes(permissionScope(permission)).
		Order("email ASC").
		Find(&memberModels).Error; err != nil {
		return nil, err
	}

	members := make([]*identity.Member, 0, len(memberModels))
	for i := range memberModels {
		member := memberModels[i].ToDomain()
		// The LIKE match is a coarse filter; confirm against the parsed
		// permission set.
		if member.HasPermission(permission) {
			members = append(members, member)
		}
	}
	return members, nil
}

// Save creates or updates a member
func (r *GormMemberRepository) Save(ctx context.Context, member *identity.Member) error {
	var model models.MemberModel
	model.FromDomain(member)
	return r.db.WithContext(ctx).Save(&model).Error
}

// Delete removes a member
func (r *GormMemberRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.MemberModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
