package dashboard

import (
	"github.com/cms/dashboard/internal/domain/shared"
	"github.com/google/uuid"
)

// PanelItem is a child record of a container panel, such as a single
// entry on a to-do list panel. Its shape is declared by the owning
// variant's item schema.
type PanelItem struct {
	shared.BaseEntity
	PanelID   uuid.UUID
	SortOrder int
	Fields    map[string]string
}

// NewPanelItem creates an item attached to the given panel
func NewPanelItem(panelID uuid.UUID, fields map[string]string) *PanelItem {
	item := &PanelItem{
		BaseEntity: shared.NewBaseEntity(),
		PanelID:    panelID,
		Fields:     make(map[string]string, len(fields)),
	}
	for k, v := range fields {
		item.Fields[k] = v
	}
	return item
}

// ApplyFields applies submitted values against the variant's item schema.
// Only declared fields are applied; unknown keys are ignored. Values
// failing field constraints are reported together as a *ValidationError
// and nothing is applied.
func (i *PanelItem) ApplyFields(variant *VariantDescriptor, values map[string]string) error {
	var fieldErrs []FieldError
	staged := make(map[string]string, len(values))
	for _, f := range variant.ItemFields {
		raw, ok := values[f.Name]
		if !ok {
			continue
		}
		if msg := f.Validate(raw); msg != "" {
			fieldErrs = append(fieldErrs, FieldError{Field: f.Name, Message: msg})
			continue
		}
		staged[f.Name] = raw
	}
	if len(fieldErrs) > 0 {
		return &ValidationError{Fields: fieldErrs}
	}
	if i.Fields == nil {
		i.Fields = make(map[string]string, len(staged))
	}
	for k, v := range staged {
		i.Fields[k] = v
	}
	i.Touch()
	return nil
}

// SetSortOrder sets the item's position within its panel
func (i *PanelItem) SetSortOrder(order int) {
	i.SortOrder = order
	i.Touch()
}

// Duplicate deep-copies the item under a new parent panel, preserving
// its sort order and field values.
func (i *PanelItem) Duplicate(panelID uuid.UUID) *PanelItem {
	clone := &PanelItem{
		BaseEntity: shared.NewBaseEntity(),
		PanelID:    panelID,
		SortOrder:  i.SortOrder,
		Fields:     make(map[string]string, len(i.Fields)),
	}
	for k, v := range i.Fields {
		clone.Fields[k] = v
	}
	return clone
}
