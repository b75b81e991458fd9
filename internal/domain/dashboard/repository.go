package dashboard

import (
	"context"

	"github.com/google/uuid"
)

// PanelRepository persists panels
type PanelRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Panel, error)
	// FindByOwner returns the owner's panels ordered by sort order
	FindByOwner(ctx context.Context, owner Owner) ([]*Panel, error)
	Save(ctx context.Context, panel *Panel) error
	Delete(ctx context.Context, id uuid.UUID) error
	// MaxSortOrder returns the highest sort order among the owner's
	// panels, or -1 when the owner has none.
	MaxSortOrder(ctx context.Context, owner Owner) (int, error)
	// ReplaceLayout atomically replaces the owner's entire layout, items
	// included, with the given panels and their items keyed by panel ID.
	// The owner's previous panels and items are removed in the same
	// transaction.
	ReplaceLayout(ctx context.Context, owner Owner, panels []*Panel, items map[uuid.UUID][]*PanelItem) error
}

// PanelItemRepository persists child records of container panels
type PanelItemRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PanelItem, error)
	// FindByPanel returns the panel's items ordered by sort order
	FindByPanel(ctx context.Context, panelID uuid.UUID) ([]*PanelItem, error)
	Save(ctx context.Context, item *PanelItem) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByPanel(ctx context.Context, panelID uuid.UUID) error
	// MaxSortOrder returns the highest sort order among the panel's
	// items, or -1 when the panel has none.
	MaxSortOrder(ctx context.Context, panelID uuid.UUID) (int, error)
}
