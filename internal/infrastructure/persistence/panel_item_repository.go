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

// GormPanelItemRepository implements dashboard.PanelItemRepository using GORM
type GormPanelItemRepository struct {
	db *gorm.DB
}

// NewGormPanelItemRepository creates a new GormPanelItemRepository
func NewGormPanelItemRepository(db *gorm.DB) *GormPanelItemRepository {
	return &GormPanelItemRepository{db: db}
}

// FindByID finds a panel item by its ID
func (r *GormPanelItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*dashboard.PanelItem, error) {
	var model models.PanelItemModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByPanel returns a panel's items ordered by sort order
func (r *GormPanelItemRepository) FindByPanel(ctx context.Context, panelID uuid.UUID) ([]*dashboard.PanelItem, error) {
	var itemModels []models.PanelItemModel
	if err := r.db.WithContext(ctx).
		Where("panel_id = ?", panelID).
		Order("sort_order ASC, created_at ASC").
		Find(&itemModels).Error; err != nil {
		return nil, err
	}

	items := make([]*dashboard.PanelItem, len(itemModels))
	for i := range itemModels {
		items[i] = itemModels[i].ToDomain()
	}
	return items, nil
}

// Save creates or updates a panel item
func (r *GormPanelItemRepository) Save(ctx context.Context, item *dashboard.PanelItem) error {
	var model models.PanelItemModel
	model.FromDomain(item)
	return r.db.WithContext(ctx).Save(&model).Error
}

// Delete removes a panel item
func (r *GormPanelItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.PanelItemModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteByPanel removes all items belonging to a panel
func (r *GormPanelItemRepository) DeleteByPanel(ctx context.Context, panelID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("panel_id = ?", panelID).Delete(&models.PanelItemModel{}).Error
}

// MaxSortOrder returns the highest sort order among a panel's items,
// or -1 when the panel has none.
func (r *GormPanelItemRepository) MaxSortOrder(ctx context.Context, panelID uuid.UUID) (int, error) {
	var max int
	err := r.db.WithContext(ctx).
		Model(&models.PanelItemModel{}).
		Where("panel_id = ?", panelID).
		Select("COALESCE(MAX(sort_order), -1)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	return max, nil
}
