package dashboard

import (
	"context"

	"github.com/cms/dashboard/internal/domain/dashboard"
	"github.com/cms/dashboard/internal/domain/identity"
	"github.com/cms/dashboard/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PanelService handles the per-member panel lifecycle: layout reads,
// creation, configuration, reordering, deletion and content rendering.
type PanelService struct {
	panels    dashboard.PanelRepository
	registry  *dashboard.Registry
	providers *ProviderSet
	perms     identity.PermissionChecker
	excluded  []string
	logger    *zap.Logger
}

// NewPanelService creates a new panel service. The excluded list names
// variant types this deployment hides from the picker.
func NewPanelService(
	panels dashboard.PanelRepository,
	registry *dashboard.Registry,
	providers *ProviderSet,
	perms identity.PermissionChecker,
	excluded []string,
	logger *zap.Logger,
) *PanelService {
	return &PanelService{
		panels:    panels,
		registry:  registry,
		providers: providers,
		perms:     perms,
		excluded:  excluded,
		logger:    logger,
	}
}

// Layout returns the member's panels ordered by sort order
func (s *PanelService) Layout(ctx context.Context, memberID uuid.UUID) (*LayoutView, error) {
	if err := s.require(ctx, memberID, identity.PermissionDashboardAccess); err != nil {
		return nil, err
	}

	panels, err := s.panels.FindByOwner(ctx, dashboard.MemberOwner(memberID))
	if err != nil {
		return nil, err
	}

	canConfigure, canDelete, err := s.capabilities(ctx, memberID)
	if err != nil {
		return nil, err
	}

	view := &LayoutView{Panels: make([]PanelView, 0, len(panels))}
	for _, p := range panels {
		variant, _ := s.registry.Lookup(p.VariantType)
		pv := NewPanelView(p, variant)
		pv.CanConfigure = canConfigure
		pv.CanDelete = canDelete
		view.Panels = append(view.Panels, pv)
	}
	return view, nil
}

// AvailableVariants returns the variants the member may add, ordered by
// priority.
func (s *PanelService) AvailableVariants(ctx context.Context, memberID uuid.UUID) ([]VariantView, error) {
	if err := s.require(ctx, memberID, identity.PermissionDashboardAdd); err != nil {
		return nil, err
	}

	available := s.registry.Available(s.excluded)
	views := make([]VariantView, 0, len(available))
	for _, v := range available {
		views = append(views, NewVariantView(v))
	}
	return views, nil
}

// CreatePanel creates a panel of the given variant at the end of the
// member's layout.
func (s *PanelService) CreatePanel(ctx context.Context, memberID uuid.UUID, input CreatePanelInput) (*CreatePanelResult, error) {
	if err := s.require(ctx, memberID, identity.PermissionDashboardAdd); err != nil {
		return nil, err
	}

	variant, err := s.availableVariant(input.VariantType)
	if err != nil {
		return nil, err
	}

	owner := dashboard.MemberOwner(memberID)
	maxOrder, err := s.panels.MaxSortOrder(ctx, owner)
	if err != nil {
		return nil, err
	}

	panel := dashboard.NewPanel(variant, memberID)
	panel.SetSortOrder(maxOrder + 1)

	if err := s.panels.Save(ctx, panel); err != nil {
		return nil, err
	}

	s.logger.Info("Panel created",
		zap.String("panel_id", panel.GetID().String()),
		zap.String("variant", panel.VariantType),
		zap.String("member_id", memberID.String()))

	return &CreatePanelResult{
		Panel:             NewPanelView(panel, variant),
		ConfigureOnCreate: variant.ConfigureOnCreate,
	}, nil
}

// GetPanel returns one of the member's panels
func (s *PanelService) GetPanel(ctx context.Context, memberID, panelID uuid.UUID) (*PanelView, error) {
	if err := s.require(ctx, memberID, identity.PermissionDashboardAccess); err != nil {
		return nil, err
	}

	panel, err := s.ownedPanel(ctx, memberID, panelID)
	if err != nil {
		return nil, err
	}

	variant, _ := s.registry.Lookup(panel.VariantType)
	view := NewPanelView(panel, variant)
	view.CanConfigure, view.CanDelete, err = s.capabilities(ctx, memberID)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// GetConfiguration returns a panel's configuration schema and current
// values.
func (s *PanelService) GetConfiguration(ctx context.Context, memberID, panelID uuid.UUID) (*ConfigurationView, error) {
	if err := s.require(ctx, memberID, identity.PermissionDashboardConfigure); err != nil {
		return nil, err
	}

	panel, err := s.ownedPanel(ctx, memberID, panelID)
	if err != nil {
		return nil, err
	}

	variant, ok := s.registry.Lookup(panel.VariantType)
	if !ok {
		return nil, shared.ErrNotFound
	}

	values := map[string]string{
		dashboard.FieldNameTitle: panel.Title,
		dashboard.FieldNameSize:  string(panel.Size),
	}
	for _, f := range variant.Fields {
		if v, ok := panel.Settings[f.Name]; ok {
			values[f.Name] = v
		}
	}

	return &ConfigurationView{
		Panel:  NewPanelView(panel, variant),
		Schema: variant.ConfigSchema(),
		Values: values,
	}, nil
}

// Configure applies submitted configuration values to a panel
func (s *PanelService) Configure(ctx context.Context, memberID, panelID uuid.UUID, values map[string]string) (*PanelView, error) {
	if err := s.require(ctx, memberID, identity.PermissionDashboardConfigure); err != nil {
		return nil, err
	}

	panel, err := s.ownedPanel(ctx, memberID, panelID)
	if err != nil {
		return nil, err
	}

	variant, ok := s.registry.Lookup(panel.VariantType)
	if !ok {
		return nil, shared.ErrNotFound
	}

	if err := panel.ApplySettings(variant, values); err != nil {
		return nil, err
	}
	if err := s.panels.Save(ctx, panel); err != nil {
		return nil, err
	}

	s.logger.Info("Panel configured",
		zap.String("panel_id", panel.GetID().String()),
		zap.String("member_id", memberID.String()))

	view := NewPanelView(panel, variant)
	return &view, nil
}

// DeletePanel removes one of the member's panels and its items
func (s *PanelService) DeletePanel(ctx context.Context, memberID, panelID uuid.UUID) error {
	if err := s.require(ctx, memberID, identity.PermissionDashboardDelete); err != nil {
		return err
	}

	panel, err := s.ownedPanel(ctx, memberID, panelID)
	if err != nil {
		return err
	}

	if err := s.panels.Delete(ctx, panel.GetID()); err != nil {
		return err
	}

	s.logger.Info("Panel deleted",
		zap.String("panel_id", panelID.String()),
		zap.String("member_id", memberID.String()))
	return nil
}

// Reorder persists a new panel ordering. IDs that do not resolve to a
// panel owned by the member are skipped rather than rejected, so stale
// clients cannot fail the whole request.
func (s *PanelService) Reorder(ctx context.Context, memberID uuid.UUID, panelIDs []uuid.UUID) error {
	if err := s.require(ctx, memberID, identity.PermissionDashboardAccess); err != nil {
		return err
	}

	order := 0
	for _, id := range panelIDs {
		panel, err := s.panels.FindByID(ctx, id)
		if err != nil || !panel.OwnedBy(memberID) {
			continue
		}
		panel.SetSortOrder(order)
		if err := s.panels.Save(ctx, panel); err != nil {
			return err
		}
		order++
	}

	s.logger.Info("Panels reordered",
		zap.String("member_id", memberID.String()),
		zap.Int("count", order))
	return nil
}

// PanelContent renders a panel's body through its content provider
func (s *PanelService) PanelContent(ctx context.Context, memberID, panelID uuid.UUID) (any, error) {
	if err := s.require(ctx, memberID, identity.PermissionDashboardAccess); err != nil {
		return nil, err
	}

	panel, err := s.ownedPanel(ctx, memberID, panelID)
	if err != nil {
		return nil, err
	}

	provider, ok := s.providers.For(panel.VariantType)
	if !ok {
		return nil, shared.ErrNotFound
	}

	content, err := provider.Content(ctx, panel)
	if err != nil {
		return nil, err
	}

	// Providers may cache state on the panel while rendering
	if err := s.panels.Save(ctx, panel); err != nil {
		s.logger.Warn("Failed to persist panel state after render",
			zap.String("panel_id", panelID.String()), zap.Error(err))
	}
	return content, nil
}

// PanelAction invokes a named auxiliary action a panel's provider
// exposes.
func (s *PanelService) PanelAction(ctx context.Context, memberID, panelID uuid.UUID, action string, params map[string]string) (any, error) {
	if err := s.require(ctx, memberID, identity.PermissionDashboardAccess); err != nil {
		return nil, err
	}

	panel, err := s.ownedPanel(ctx, memberID, panelID)
	if err != nil {
		return nil, err
	}

	provider, ok := s.providers.For(panel.VariantType)
	if !ok {
		return nil, ErrUnknownAction
	}
	actions, ok := provider.(ActionProvider)
	if !ok {
		return nil, ErrUnknownAction
	}
	return actions.Action(ctx, panel, action, params)
}

// capabilities resolves the caller's configure and delete permissions
// once so layout responses can flag them per panel.
func (s *PanelService) capabilities(ctx context.Context, memberID uuid.UUID) (canConfigure, canDelete bool, err error) {
	canConfigure, err = s.perms.Check(ctx, memberID, identity.PermissionDashboardConfigure)
	if err != nil {
		return false, false, err
	}
	canDelete, err = s.perms.Check(ctx, memberID, identity.PermissionDashboardDelete)
	if err != nil {
		return false, false, err
	}
	return canConfigure, canDelete, nil
}

func (s *PanelService) require(ctx context.Context, memberID uuid.UUID, permission string) error {
	ok, err := s.perms.Check(ctx, memberID, permission)
	if err != nil {
		return err
	}
	if !ok {
		return shared.ErrPermissionDenied
	}
	return nil
}

func (s *PanelService) ownedPanel(ctx context.Context, memberID, panelID uuid.UUID) (*dashboard.Panel, error) {
	panel, err := s.panels.FindByID(ctx, panelID)
	if err != nil {
		return nil, err
	}
	if !panel.OwnedBy(memberID) {
		return nil, shared.ErrForbidden
	}
	return panel, nil
}

func (s *PanelService) availableVariant(variantType string) (*dashboard.VariantDescriptor, error) {
	for _, v := range s.registry.Available(s.excluded) {
		if v.Type == variantType {
			return v, nil
		}
	}
	return nil, shared.NewDomainError("UNKNOWN_VARIANT", "Panel variant is not available")
}
