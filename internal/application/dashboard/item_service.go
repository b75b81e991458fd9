package dashboard

import (
	"context"

	"github.com/cms/dashboard/internal/domain/dashboard"
	"github.com/cms/dashboard/internal/domain/identity"
	"github.com/cms/dashboard/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ItemService manages the child records of container panels
type ItemService struct {
	panels   dashboard.PanelRepository
	items    dashboard.PanelItemRepository
	registry *dashboard.Registry
	perms    identity.PermissionChecker
	logger   *zap.Logger
}

// NewItemService creates a new item service
func NewItemService(
	panels dashboard.PanelRepository,
	items dashboard.PanelItemRepository,
	registry *dashboard.Registry,
	perms identity.PermissionChecker,
	logger *zap.Logger,
) *ItemService {
	return &ItemService{
		panels:   panels,
		items:    items,
		registry: registry,
		perms:    perms,
		logger:   logger,
	}
}

// ListItems returns a panel's items ordered by sort order
func (s *ItemService) ListItems(ctx context.Context, memberID, panelID uuid.UUID) ([]ItemView, error) {
	if _, _, err := s.containerPanel(ctx, memberID, panelID, identity.PermissionDashboardAccess); err != nil {
		return nil, err
	}

	items, err := s.items.FindByPanel(ctx, panelID)
	if err != nil {
		return nil, err
	}

	views := make([]ItemView, 0, len(items))
	for _, item := range items {
		views = append(views, NewItemView(item))
	}
	return views, nil
}

// AddItem appends a new item to a container panel
func (s *ItemService) AddItem(ctx context.Context, memberID, panelID uuid.UUID, fields map[string]string) (*ItemView, error) {
	_, variant, err := s.containerPanel(ctx, memberID, panelID, identity.PermissionDashboardConfigure)
	if err != nil {
		return nil, err
	}

	maxOrder, err := s.items.MaxSortOrder(ctx, panelID)
	if err != nil {
		return nil, err
	}

	item := dashboard.NewPanelItem(panelID, nil)
	item.SetSortOrder(maxOrder + 1)
	if err := item.ApplyFields(variant, fields); err != nil {
		return nil, err
	}
	if err := s.items.Save(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("Panel item added",
		zap.String("panel_id", panelID.String()),
		zap.String("item_id", item.GetID().String()))

	view := NewItemView(item)
	return &view, nil
}

// UpdateItem applies new field values to an item
func (s *ItemService) UpdateItem(ctx context.Context, memberID, panelID, itemID uuid.UUID, fields map[string]string) (*ItemView, error) {
	_, variant, err := s.containerPanel(ctx, memberID, panelID, identity.PermissionDashboardConfigure)
	if err != nil {
		return nil, err
	}

	item, err := s.panelItem(ctx, panelID, itemID)
	if err != nil {
		return nil, err
	}

	if err := item.ApplyFields(variant, fields); err != nil {
		return nil, err
	}
	if err := s.items.Save(ctx, item); err != nil {
		return nil, err
	}

	view := NewItemView(item)
	return &view, nil
}

// DeleteItem removes an item from its panel
func (s *ItemService) DeleteItem(ctx context.Context, memberID, panelID, itemID uuid.UUID) error {
	if _, _, err := s.containerPanel(ctx, memberID, panelID, identity.PermissionDashboardConfigure); err != nil {
		return err
	}

	item, err := s.panelItem(ctx, panelID, itemID)
	if err != nil {
		return err
	}
	return s.items.Delete(ctx, item.GetID())
}

// ReorderItems persists a new item ordering within a panel. Unresolved
// IDs and items of other panels are skipped.
func (s *ItemService) ReorderItems(ctx context.Context, memberID, panelID uuid.UUID, itemIDs []uuid.UUID) error {
	if _, _, err := s.containerPanel(ctx, memberID, panelID, identity.PermissionDashboardConfigure); err != nil {
		return err
	}

	order := 0
	for _, id := range itemIDs {
		item, err := s.items.FindByID(ctx, id)
		if err != nil || item.PanelID != panelID {
			continue
		}
		item.SetSortOrder(order)
		if err := s.items.Save(ctx, item); err != nil {
			return err
		}
		order++
	}
	return nil
}

// containerPanel loads the panel, checks permission and ownership, and
// verifies the variant carries an item schema.
func (s *ItemService) containerPanel(ctx context.Context, memberID, panelID uuid.UUID, permission string) (*dashboard.Panel, *dashboard.VariantDescriptor, error) {
	ok, err := s.perms.Check(ctx, memberID, permission)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, shared.ErrPermissionDenied
	}

	panel, err := s.panels.FindByID(ctx, panelID)
	if err != nil {
		return nil, nil, err
	}
	if !panel.OwnedBy(memberID) {
		return nil, nil, shared.ErrForbidden
	}

	variant, found := s.registry.Lookup(panel.VariantType)
	if !found || !variant.HasItems() {
		return nil, nil, shared.NewDomainError("NO_ITEMS", "Panel variant does not carry items")
	}
	return panel, variant, nil
}

func (s *ItemService) panelItem(ctx context.Context, panelID, itemID uuid.UUID) (*dashboard.PanelItem, error) {
	item, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.PanelID != panelID {
		return nil, shared.ErrNotFound
	}
	return item, nil
}
