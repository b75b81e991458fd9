package dashboard

import (
	"context"

	"github.com/cms/dashboard/internal/domain/dashboard"
	"github.com/cms/dashboard/internal/domain/shared"
)

// ContentProvider produces the renderable body of a panel variant.
// The returned value must be JSON-serializable; its shape is owned by
// the variant.
type ContentProvider interface {
	VariantType() string
	Content(ctx context.Context, panel *dashboard.Panel) (any, error)
}

// ActionProvider is implemented by content providers that expose named
// auxiliary actions beyond the panel body, such as dependent form
// lookups.
type ActionProvider interface {
	Action(ctx context.Context, panel *dashboard.Panel, action string, params map[string]string) (any, error)
}

// ErrUnknownAction is returned by ActionProviders for action names they
// do not expose.
var ErrUnknownAction = shared.NewDomainError("UNKNOWN_ACTION", "Panel does not expose this action")

// ProviderSet indexes content providers by variant type
type ProviderSet struct {
	byType map[string]ContentProvider
}

// NewProviderSet builds a provider set from the given providers
func NewProviderSet(providers ...ContentProvider) *ProviderSet {
	set := &ProviderSet{byType: make(map[string]ContentProvider, len(providers))}
	for _, p := range providers {
		set.byType[p.VariantType()] = p
	}
	return set
}

// For returns the provider for a variant type
func (s *ProviderSet) For(variantType string) (ContentProvider, bool) {
	p, ok := s.byType[variantType]
	return p, ok
}
