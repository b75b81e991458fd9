package dashboard

import (
	"strings"

	"github.com/cms/dashboard/internal/domain/shared"
	"github.com/google/uuid"
)

// PanelSize represents the display size of a panel
type PanelSize string

const (
	PanelSizeSmall  PanelSize = "small"
	PanelSizeNormal PanelSize = "normal"
	PanelSizeLarge  PanelSize = "large"
)

// ValidPanelSize reports whether s is a known panel size
func ValidPanelSize(s PanelSize) bool {
	switch s {
	case PanelSizeSmall, PanelSizeNormal, PanelSizeLarge:
		return true
	}
	return false
}

// Owner identifies the context a panel belongs to: either a single member
// or the site-default template layout, never both.
type Owner struct {
	MemberID    *uuid.UUID
	SiteDefault bool
}

// MemberOwner returns an Owner for a specific member
func MemberOwner(memberID uuid.UUID) Owner {
	return Owner{MemberID: &memberID}
}

// SiteDefaultOwner returns the Owner for the site-default layout
func SiteDefaultOwner() Owner {
	return Owner{SiteDefault: true}
}

// Valid reports whether exactly one owner context is set
func (o Owner) Valid() bool {
	return (o.MemberID != nil) != o.SiteDefault
}

// Is reports whether two owners refer to the same context
func (o Owner) Is(other Owner) bool {
	if o.SiteDefault || other.SiteDefault {
		return o.SiteDefault == other.SiteDefault
	}
	if o.MemberID == nil || other.MemberID == nil {
		return false
	}
	return *o.MemberID == *other.MemberID
}

// String renders the owner for logging
func (o Owner) String() string {
	if o.SiteDefault {
		return "site-default"
	}
	if o.MemberID != nil {
		return o.MemberID.String()
	}
	return "unowned"
}

// Panel is a single configurable dashboard widget instance.
// It is the aggregate root for panel operations; child records are
// modeled as PanelItem.
type Panel struct {
	shared.BaseAggregateRoot
	Title       string
	Size        PanelSize
	SortOrder   int
	VariantType string
	OwnerID     *uuid.UUID
	SiteDefault bool
	// Settings holds the variant-specific configuration values, keyed by
	// the field names the variant's configuration schema declares.
	Settings map[string]string
}

// NewPanel creates a panel of the given variant owned by a member.
// The title defaults to the variant's label and the size to the variant's
// default size.
func NewPanel(variant *VariantDescriptor, ownerID uuid.UUID) *Panel {
	p := newPanel(variant)
	id := ownerID
	p.OwnerID = &id
	return p
}

// NewSiteDefaultPanel creates a panel of the given variant owned by the
// site-default layout.
func NewSiteDefaultPanel(variant *VariantDescriptor) *Panel {
	p := newPanel(variant)
	p.SiteDefault = true
	return p
}

func newPanel(variant *VariantDescriptor) *Panel {
	size := variant.DefaultSize
	if !ValidPanelSize(size) {
		size = PanelSizeNormal
	}
	p := &Panel{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Title:             variant.Label,
		Size:              size,
		VariantType:       variant.Type,
		Settings:          make(map[string]string),
	}
	for _, f := range variant.Fields {
		if f.Default != "" {
			p.Settings[f.Name] = f.Default
		}
	}
	return p
}

// Owner returns the panel's owner context
func (p *Panel) Owner() Owner {
	if p.SiteDefault {
		return SiteDefaultOwner()
	}
	if p.OwnerID != nil {
		return MemberOwner(*p.OwnerID)
	}
	return Owner{}
}

// OwnedBy reports whether the panel belongs to the given member
func (p *Panel) OwnedBy(memberID uuid.UUID) bool {
	return p.OwnerID != nil && *p.OwnerID == memberID
}

// SetSortOrder sets the panel's position within its owner's layout
func (p *Panel) SetSortOrder(order int) {
	p.SortOrder = order
	p.Touch()
	p.IncrementVersion()
}

// ApplySettings applies submitted configuration values against the
// variant's schema. Only declared fields are applied; unknown keys are
// ignored. Values failing field constraints are reported together as a
// *ValidationError and nothing is applied.
func (p *Panel) ApplySettings(variant *VariantDescriptor, values map[string]string) error {
	var fieldErrs []FieldError
	apply := make([]func(), 0, len(values))

	for _, f := range variant.ConfigSchema() {
		raw, ok := values[f.Name]
		if !ok {
			continue
		}
		if msg := f.Validate(raw); msg != "" {
			fieldErrs = append(fieldErrs, FieldError{Field: f.Name, Message: msg})
			continue
		}
		field, value := f, raw
		apply = append(apply, func() {
			switch field.Name {
			case FieldNameTitle:
				p.Title = strings.TrimSpace(value)
			case FieldNameSize:
				p.Size = PanelSize(value)
			default:
				p.Settings[field.Name] = value
			}
		})
	}

	if len(fieldErrs) > 0 {
		return &ValidationError{Fields: fieldErrs}
	}

	for _, fn := range apply {
		fn()
	}
	p.Touch()
	p.IncrementVersion()
	return nil
}

// StoreVariantState writes a value the variant itself maintains (for
// example a cached external payload) bypassing the configuration schema.
func (p *Panel) StoreVariantState(key, value string) {
	if p.Settings == nil {
		p.Settings = make(map[string]string)
	}
	p.Settings[key] = value
	p.Touch()
	p.IncrementVersion()
}

// VariantState reads a value written by StoreVariantState
func (p *Panel) VariantState(key string) string {
	return p.Settings[key]
}

// Duplicate deep-copies the panel for a new owner. The copy carries a
// fresh identifier and version but identical title, size, sort order and
// settings.
func (p *Panel) Duplicate(owner Owner) *Panel {
	clone := &Panel{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Title:             p.Title,
		Size:              p.Size,
		SortOrder:         p.SortOrder,
		VariantType:       p.VariantType,
		SiteDefault:       owner.SiteDefault,
		Settings:          make(map[string]string, len(p.Settings)),
	}
	if owner.MemberID != nil {
		id := *owner.MemberID
		clone.OwnerID = &id
	}
	for k, v := range p.Settings {
		clone.Settings[k] = v
	}
	return clone
}
