package dashboard

import (
	"time"

	"github.com/cms/dashboard/internal/domain/dashboard"
	"github.com/google/uuid"
)

// PanelView is the read model of a single panel
type PanelView struct {
	ID          uuid.UUID         `json:"id"`
	Title       string            `json:"title"`
	Size        string            `json:"size"`
	SortOrder   int               `json:"sort_order"`
	VariantType string            `json:"variant_type"`
	SiteDefault bool              `json:"site_default"`
	Settings    map[string]string `json:"settings"`
	HasItems    bool              `json:"has_items"`
	Icon        string            `json:"icon,omitempty"`
	// Capability flags for the caller, so clients can hide the
	// configure and delete affordances the member may not use.
	CanConfigure bool      `json:"can_configure"`
	CanDelete    bool      `json:"can_delete"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewPanelView maps a panel aggregate to its read model
func NewPanelView(p *dashboard.Panel, variant *dashboard.VariantDescriptor) PanelView {
	view := PanelView{
		ID:          p.GetID(),
		Title:       p.Title,
		Size:        string(p.Size),
		SortOrder:   p.SortOrder,
		VariantType: p.VariantType,
		SiteDefault: p.SiteDefault,
		Settings:    p.Settings,
		UpdatedAt:   p.GetUpdatedAt(),
	}
	if variant != nil {
		view.HasItems = variant.HasItems()
		view.Icon = variant.Icon
	}
	return view
}

// LayoutView is the caller's full dashboard layout
type LayoutView struct {
	Panels []PanelView `json:"panels"`
}

// VariantView describes one installable variant for the panel picker
type VariantView struct {
	Type              string `json:"type"`
	Label             string `json:"label"`
	Description       string `json:"description"`
	Icon              string `json:"icon,omitempty"`
	DefaultSize       string `json:"default_size"`
	ConfigureOnCreate bool   `json:"configure_on_create"`
	HasItems          bool   `json:"has_items"`
}

// NewVariantView maps a variant descriptor to its picker entry
func NewVariantView(v *dashboard.VariantDescriptor) VariantView {
	return VariantView{
		Type:              v.Type,
		Label:             v.Label,
		Description:       v.Description,
		Icon:              v.Icon,
		DefaultSize:       string(v.DefaultSize),
		ConfigureOnCreate: v.ConfigureOnCreate,
		HasItems:          v.HasItems(),
	}
}

// ConfigurationView is a panel's configuration form: the schema the
// variant declares plus the panel's current values.
type ConfigurationView struct {
	Panel  PanelView               `json:"panel"`
	Schema []dashboard.ConfigField `json:"schema"`
	Values map[string]string       `json:"values"`
}

// CreatePanelInput contains the input for creating a panel
type CreatePanelInput struct {
	VariantType string
}

// CreatePanelResult carries the created panel and whether the client
// should open its configuration form immediately.
type CreatePanelResult struct {
	Panel             PanelView `json:"panel"`
	ConfigureOnCreate bool      `json:"configure_on_create"`
}

// ItemView is the read model of a container panel's child record
type ItemView struct {
	ID        uuid.UUID         `json:"id"`
	PanelID   uuid.UUID         `json:"panel_id"`
	SortOrder int               `json:"sort_order"`
	Fields    map[string]string `json:"fields"`
}

// NewItemView maps a panel item to its read model
func NewItemView(item *dashboard.PanelItem) ItemView {
	return ItemView{
		ID:        item.GetID(),
		PanelID:   item.PanelID,
		SortOrder: item.SortOrder,
		Fields:    item.Fields,
	}
}

// PropagationFailure records one member whose layout could not be
// replaced during apply-to-all.
type PropagationFailure struct {
	MemberID uuid.UUID `json:"member_id"`
	Email    string    `json:"email"`
	Reason   string    `json:"reason"`
}

// PropagationReport summarizes an apply-to-all run
type PropagationReport struct {
	Applied int                  `json:"applied"`
	Failed  []PropagationFailure `json:"failed"`
}
