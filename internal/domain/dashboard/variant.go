package dashboard

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/cms/dashboard/internal/domain/shared"
)

// FieldKind is the input type of a configuration field
type FieldKind string

const (
	FieldText    FieldKind = "text"
	FieldNumber  FieldKind = "number"
	FieldSelect  FieldKind = "select"
	FieldOptions FieldKind = "options"
)

// Names of the base configuration fields every variant shares
const (
	FieldNameTitle = "title"
	FieldNameSize  = "size"
)

const maxTitleLength = 50

// Option is one selectable value of a select or options field
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// ConfigField declares a single field of a variant's configuration
// schema. The schema both drives the configuration form and bounds
// which submitted keys a panel will accept.
type ConfigField struct {
	Name    string    `json:"name"`
	Label   string    `json:"label"`
	Kind    FieldKind `json:"kind"`
	Options []Option  `json:"options,omitempty"`
	Default string    `json:"default,omitempty"`
	MaxLen  int       `json:"max_len,omitempty"`
}

// Validate checks a submitted value against the field's constraints and
// returns a human-readable message, or "" when the value is acceptable.
func (f ConfigField) Validate(value string) string {
	if f.MaxLen > 0 && len(value) > f.MaxLen {
		return fmt.Sprintf("must be at most %d characters", f.MaxLen)
	}
	switch f.Kind {
	case FieldNumber:
		if _, err := strconv.Atoi(value); err != nil {
			return "must be a whole number"
		}
	case FieldSelect, FieldOptions:
		for _, o := range f.Options {
			if o.Value == value {
				return ""
			}
		}
		return fmt.Sprintf("must be one of: %s", strings.Join(optionValues(f.Options), ", "))
	}
	return ""
}

func optionValues(opts []Option) []string {
	values := make([]string, len(opts))
	for i, o := range opts {
		values[i] = o.Value
	}
	return values
}

// FieldError reports a single rejected configuration value
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates the rejected fields of a configuration
// submission.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = f.Field
	}
	return fmt.Sprintf("invalid configuration values: %s", strings.Join(names, ", "))
}

// VariantDescriptor describes one installable panel type: its identity,
// how it appears in the picker, and the configuration and item schemas
// its panels carry.
type VariantDescriptor struct {
	// Type is the stable identifier persisted on panels
	Type        string
	Label       string
	Description string
	Icon        string
	// Priority orders the picker; lower values sort first
	Priority    int
	DefaultSize PanelSize
	// ConfigureOnCreate marks variants that need configuration before
	// they can render anything useful, so clients open the configuration
	// form immediately after creation.
	ConfigureOnCreate bool
	// Fields is the variant-specific configuration schema, shown after
	// the shared title and size fields.
	Fields []ConfigField
	// ItemFields, when non-empty, declares the shape of child records
	// and marks the variant as a container.
	ItemFields []ConfigField
	// Registered optionally gates availability per deployment; a nil
	// func means always available.
	Registered func() bool
}

// ConfigSchema returns the full configuration schema: the shared title
// and size fields followed by the variant's own fields.
func (v *VariantDescriptor) ConfigSchema() []ConfigField {
	schema := []ConfigField{
		{Name: FieldNameTitle, Label: "Title", Kind: FieldText, MaxLen: maxTitleLength},
		{Name: FieldNameSize, Label: "Size", Kind: FieldOptions, Options: []Option{
			{Value: string(PanelSizeSmall), Label: "Small"},
			{Value: string(PanelSizeNormal), Label: "Normal"},
			{Value: string(PanelSizeLarge), Label: "Large"},
		}},
	}
	return append(schema, v.Fields...)
}

// HasItems reports whether the variant's panels carry child records
func (v *VariantDescriptor) HasItems() bool {
	return len(v.ItemFields) > 0
}

func (v *VariantDescriptor) enabled() bool {
	return v.Registered == nil || v.Registered()
}

// Registry holds the variant descriptors installed in this deployment.
// Registration happens during startup wiring; reads afterwards are
// lock-free.
type Registry struct {
	byType  map[string]*VariantDescriptor
	ordered []*VariantDescriptor
}

// NewRegistry creates an empty variant registry
func NewRegistry() *Registry {
	return &Registry{byType: make(map[string]*VariantDescriptor)}
}

// Register installs a variant descriptor. Registering an empty or
// duplicate type is an error.
func (r *Registry) Register(v VariantDescriptor) error {
	if v.Type == "" {
		return shared.NewDomainError("INVALID_VARIANT", "variant type must not be empty")
	}
	if _, exists := r.byType[v.Type]; exists {
		return shared.NewDomainError("DUPLICATE_VARIANT", fmt.Sprintf("variant %q is already registered", v.Type))
	}
	desc := v
	r.byType[v.Type] = &desc
	r.ordered = append(r.ordered, &desc)
	return nil
}

// Lookup returns the descriptor for a variant type
func (r *Registry) Lookup(variantType string) (*VariantDescriptor, bool) {
	v, ok := r.byType[variantType]
	return v, ok
}

// Available returns the variants offered to users, excluding the given
// types and any variant whose Registered gate declines, ordered by
// ascending priority. Equal priorities keep registration order.
func (r *Registry) Available(excluded []string) []*VariantDescriptor {
	skip := make(map[string]bool, len(excluded))
	for _, t := range excluded {
		skip[t] = true
	}
	var out []*VariantDescriptor
	for _, v := range r.ordered {
		if skip[v.Type] || !v.enabled() {
			continue
		}
		out = append(out, v)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority < out[j].Priority
	})
	return out
}
