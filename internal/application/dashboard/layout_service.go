package dashboard

import (
	"context"

	"github.com/cms/dashboard/internal/domain/dashboard"
	"github.com/cms/dashboard/internal/domain/identity"
	"github.com/cms/dashboard/internal/domain/shared"
	"github.com/cms/dashboard/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// LayoutService handles whole-layout operations: promoting a member's
// layout to the site default, propagating it to every member, and
// provisioning first-time users from the site default.
type LayoutService struct {
	panels  dashboard.PanelRepository
	items   dashboard.PanelItemRepository
	members identity.MemberRepository
	perms   identity.PermissionChecker
	logger  *zap.Logger
}

// NewLayoutService creates a new layout service
func NewLayoutService(
	panels dashboard.PanelRepository,
	items dashboard.PanelItemRepository,
	members identity.MemberRepository,
	perms identity.PermissionChecker,
	logger *zap.Logger,
) *LayoutService {
	return &LayoutService{
		panels:  panels,
		items:   items,
		members: members,
		perms:   perms,
		logger:  logger,
	}
}

// SetAsDefault replaces the site-default layout with a copy of the
// caller's current layout.
func (s *LayoutService) SetAsDefault(ctx context.Context, memberID uuid.UUID) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "layout", "set_as_default",
		attribute.String("member_id", memberID.String()))
	defer span.End()

	if err := s.requireAdmin(ctx, memberID); err != nil {
		telemetry.RecordError(span, err)
		return err
	}

	if err := s.copyLayout(ctx, dashboard.MemberOwner(memberID), dashboard.SiteDefaultOwner()); err != nil {
		telemetry.RecordError(span, err)
		return err
	}

	s.logger.Info("Site-default layout replaced",
		zap.String("member_id", memberID.String()))
	return nil
}

// ApplyToAll replaces every other member's layout with a copy of the
// caller's. Members are processed independently: one failure is
// recorded in the report and does not stop the rest.
func (s *LayoutService) ApplyToAll(ctx context.Context, memberID uuid.UUID) (*PropagationReport, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "layout", "apply_to_all",
		attribute.String("member_id", memberID.String()))
	defer span.End()

	if err := s.requireAdmin(ctx, memberID); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	targets, err := s.members.FindByPermission(ctx, identity.PermissionDashboardAccess)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	source := dashboard.MemberOwner(memberID)
	report := &PropagationReport{}
	for _, member := range targets {
		if member.GetID() == memberID {
			continue
		}
		if err := s.copyLayout(ctx, source, dashboard.MemberOwner(member.GetID())); err != nil {
			s.logger.Warn("Layout propagation failed for member",
				zap.String("member_id", member.GetID().String()),
				zap.Error(err))
			report.Failed = append(report.Failed, PropagationFailure{
				MemberID: member.GetID(),
				Email:    member.Email,
				Reason:   err.Error(),
			})
			continue
		}
		report.Applied++
	}

	span.SetAttributes(
		attribute.Int("applied", report.Applied),
		attribute.Int("failed", len(report.Failed)),
	)
	s.logger.Info("Layout applied to all members",
		zap.String("member_id", memberID.String()),
		zap.Int("applied", report.Applied),
		zap.Int("failed", len(report.Failed)))
	return report, nil
}

// EnsureDefaultLayout provisions a member's dashboard on first login:
// if they have never configured it and own no panels, they receive a
// copy of the site-default layout. The member is marked configured
// either way so later resets stick.
func (s *LayoutService) EnsureDefaultLayout(ctx context.Context, member *identity.Member) error {
	if member.HasConfiguredDashboard {
		return nil
	}

	existing, err := s.panels.FindByOwner(ctx, dashboard.MemberOwner(member.GetID()))
	if err != nil {
		return err
	}
	if len(existing) == 0 {
		if err := s.copyLayout(ctx, dashboard.SiteDefaultOwner(), dashboard.MemberOwner(member.GetID())); err != nil {
			return err
		}
		s.logger.Info("Default layout provisioned",
			zap.String("member_id", member.GetID().String()))
	}

	member.MarkDashboardConfigured()
	return s.members.Save(ctx, member)
}

// copyLayout duplicates the source owner's panels and their items and
// atomically replaces the target owner's layout with the copies.
func (s *LayoutService) copyLayout(ctx context.Context, source, target dashboard.Owner) error {
	panels, err := s.panels.FindByOwner(ctx, source)
	if err != nil {
		return err
	}

	clones := make([]*dashboard.Panel, 0, len(panels))
	cloneItems := make(map[uuid.UUID][]*dashboard.PanelItem)
	for _, p := range panels {
		clone := p.Duplicate(target)
		clones = append(clones, clone)

		items, err := s.items.FindByPanel(ctx, p.GetID())
		if err != nil {
			return err
		}
		for _, item := range items {
			cloneItems[clone.GetID()] = append(cloneItems[clone.GetID()], item.Duplicate(clone.GetID()))
		}
	}

	return s.panels.ReplaceLayout(ctx, target, clones, cloneItems)
}

func (s *LayoutService) requireAdmin(ctx context.Context, memberID uuid.UUID) error {
	ok, err := s.perms.Check(ctx, memberID, identity.PermissionAdmin)
	if err != nil {
		return err
	}
	if !ok {
		return shared.ErrPermissionDenied
	}
	return nil
}
