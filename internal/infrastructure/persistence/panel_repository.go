package persistence

import (
	"context"
	"errors"

	"github.com/cms/dashboard/internal/domain/dashboard"
	"github.com/cms/dashboard/internal/domain/shared"
	"github.com/cms/dashboard/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPanelRepository implements dashboard.PanelRepository using GORM
type GormPanelRepository struct {
	db *gorm.DB
}

// NewGormPanelRepository creates a new GormPanelRepository
func NewGormPanelRepository(db *gorm.DB) *GormPanelRepository {
	return &GormPanelRepository{db: db}
}

// ownerScope narrows a query to one owner context
func ownerScope(owner dashboard.Owner) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if owner.SiteDefault {
			return db.Where("site_default = ?", true)
		}
		return db.Where("owner_id = ? AND site_default = ?", owner.MemberID, false)
	}
}

// FindByID finds a panel by its ID
func (r *GormPanelRepository) FindByID(ctx context.Context, id uuid.UUID) (*dashboard.Panel, error) {
	var model models.PanelModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByOwner returns the owner's panels ordered by sort order
func (r *GormPanelRepository) FindByOwner(ctx context.Context, owner dashboard.Owner) ([]*dashboard.Panel, error) {
	var panelModels []models.PanelModel
	if err := r.db.WithContext(ctx).
		Scopes(ownerScope(owner)).
		Order("sort_order ASC, created_at ASC").
		Find(&panelModels).Error; err != nil {
		return nil, err
	}

	panels := make([]*dashboard.Panel, len(panelModels))
	for i := range panelModels {
		panels[i] = panelModels[i].ToDomain()
	}
	return panels, nil
}

// Save creates or updates a panel
func (r *GormPanelRepository) Save(ctx context.Context, panel *dashboard.Panel) error {
	var model models.PanelModel
	model.FromDomain(panel)
	return r.db.WithContext(ctx).Save(&model).Error
}

// Delete removes a panel and its items
func (r *GormPanelRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("panel_id = ?", id).Delete(&models.PanelItemModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.PanelModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// MaxSortOrder returns the highest sort order among the owner's panels,
// or -1 when the owner has none.
func (r *GormPanelRepository) MaxSortOrder(ctx context.Context, owner dashboard.Owner) (int, error) {
	var max int
	err := r.db.WithContext(ctx).
		Model(&models.PanelModel{}).
		Scopes(ownerScope(owner)).
		Select("COALESCE(MAX(sort_order), -1)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	return max, nil
}

// ReplaceLayout atomically replaces the owner's entire layout with the
// given panels and their items.
func (r *GormPanelRepository) ReplaceLayout(ctx context.Context, owner dashboard.Owner, panels []*dashboard.Panel, items map[uuid.UUID][]*dashboard.PanelItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Remove the owner's current panels and their items
		var existingIDs []uuid.UUID
		if err := tx.Model(&models.PanelModel{}).
			Scopes(ownerScope(owner)).
			Pluck("id", &existingIDs).Error; err != nil {
			return err
		}
		if len(existingIDs) > 0 {
			if err := tx.Where("panel_id IN ?", existingIDs).Delete(&models.PanelItemModel{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", existingIDs).Delete(&models.PanelModel{}).Error; err != nil {
				return err
			}
		}

		for _, panel := range panels {
			var model models.PanelModel
			model.FromDomain(panel)
			if err := tx.Create(&model).Error; err != nil {
				return err
			}
			for _, item := range items[panel.GetID()] {
				var itemModel models.PanelItemModel
				itemModel.FromDomain(item)
				if err := tx.Create(&itemModel).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}
