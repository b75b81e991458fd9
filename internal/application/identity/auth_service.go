package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cms/dashboard/internal/domain/identity"
	"github.com/cms/dashboard/internal/domain/shared"
	"github.com/cms/dashboard/internal/infrastructure/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DashboardProvisioner prepares a member's dashboard on first login.
type DashboardProvisioner interface {
	EnsureDefaultLayout(ctx context.Context, member *identity.Member) error
}

// AuthService handles authentication operations
type AuthService struct {
	members     identity.MemberRepository
	jwtService  *auth.JWTService
	blacklist   auth.TokenBlacklist
	provisioner DashboardProvisioner
	logger      *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	members identity.MemberRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	provisioner DashboardProvisioner,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		members:     members,
		jwtService:  jwtService,
		blacklist:   blacklist,
		provisioner: provisioner,
		logger:      logger,
	}
}

// Login authenticates a member and returns tokens. On the member's first
// login the site default dashboard layout is copied over before the
// response is built.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	s.logger.Info("Login attempt", zap.String("email", email))

	member, err := s.members.FindByEmail(ctx, email)
	if err != nil {
		s.logger.Warn("Member not found during login", zap.String("email", email))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	}

	if !member.VerifyPassword(input.Password) {
		s.logger.Warn("Invalid password attempt", zap.String("email", email))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	}

	// Provision the default layout before recording the login so a crash
	// in between never leaves the member marked configured without panels.
	if err := s.provisioner.EnsureDefaultLayout(ctx, member); err != nil {
		// The member can still work with an empty dashboard.
		s.logger.Warn("Failed to provision default dashboard layout",
			zap.String("member_id", member.GetID().String()),
			zap.Error(err))
	}

	tokenPair, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		MemberID:    member.GetID(),
		Email:       member.Email,
		Permissions: member.Permissions,
	})
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens")
	}

	member.RecordLogin()
	if err := s.members.Save(ctx, member); err != nil {
		// Don't fail the login over bookkeeping
		s.logger.Error("Failed to update member after successful login", zap.Error(err))
	}

	s.logger.Info("Member logged in successfully",
		zap.String("email", email),
		zap.String("member_id", member.GetID().String()))

	return &LoginResult{
		AccessToken:           tokenPair.AccessToken,
		RefreshToken:          tokenPair.RefreshToken,
		AccessTokenExpiresAt:  tokenPair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: tokenPair.RefreshTokenExpiresAt,
		TokenType:             tokenPair.TokenType,
		Member: MemberInfo{
			ID:                     member.GetID(),
			Email:                  member.Email,
			DisplayName:            member.DisplayNameOrEmail(),
			Permissions:            member.Permissions,
			HasConfiguredDashboard: member.HasConfiguredDashboard,
		},
	}, nil
}

// RefreshToken issues a fresh token pair from a valid refresh token.
// Permissions are reloaded from the member record so revocations take
// effect on refresh.
func (s *AuthService) RefreshToken(ctx context.Context, input RefreshTokenInput) (*RefreshTokenResult, error) {
	claims, err := s.jwtService.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		s.logger.Warn("Refresh token validation failed", zap.Error(err))
		return nil, mapTokenError(err)
	}

	revoked, err := s.blacklist.IsRevoked(ctx, claims.ID)
	if err != nil {
		s.logger.Error("Failed to check token blacklist", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to validate refresh token")
	}
	if revoked {
		s.logger.Warn("Refresh attempt with revoked token", zap.String("jti", claims.ID))
		return nil, shared.NewDomainError("TOKEN_REVOKED", "Refresh token has been revoked")
	}

	memberID, err := claims.GetMemberUUID()
	if err != nil {
		return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid member ID in token")
	}

	member, err := s.members.FindByID(ctx, memberID)
	if err != nil {
		s.logger.Warn("Member not found during token refresh",
			zap.String("member_id", memberID.String()))
		return nil, shared.NewDomainError("MEMBER_NOT_FOUND", "Member not found")
	}

	tokenPair, err := s.jwtService.RefreshTokenPair(input.RefreshToken, member.Email, member.Permissions)
	if err != nil {
		s.logger.Warn("Token refresh failed", zap.Error(err))
		return nil, mapTokenError(err)
	}

	s.logger.Info("Token refreshed successfully", zap.String("member_id", memberID.String()))

	return &RefreshTokenResult{
		AccessToken:           tokenPair.AccessToken,
		RefreshToken:          tokenPair.RefreshToken,
		AccessTokenExpiresAt:  tokenPair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: tokenPair.RefreshTokenExpiresAt,
		TokenType:             tokenPair.TokenType,
	}, nil
}

// Logout revokes the presented token until its natural expiry
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	s.logger.Info("Member logout", zap.String("member_id", input.MemberID.String()))

	if input.TokenID == "" {
		return nil
	}
	if err := s.blacklist.Revoke(ctx, input.TokenID, time.Until(input.ExpiresAt)); err != nil {
		s.logger.Error("Failed to revoke token", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to revoke token")
	}
	return nil
}

// CurrentMember returns the profile of an authenticated member
func (s *AuthService) CurrentMember(ctx context.Context, memberID uuid.UUID) (*MemberInfo, error) {
	member, err := s.members.FindByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("MEMBER_NOT_FOUND", "Member not found")
		}
		return nil, err
	}
	return &MemberInfo{
		ID:                     member.GetID(),
		Email:                  member.Email,
		DisplayName:            member.DisplayNameOrEmail(),
		Permissions:            member.Permissions,
		HasConfiguredDashboard: member.HasConfiguredDashboard,
	}, nil
}

func mapTokenError(err error) error {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return shared.NewDomainError("TOKEN_EXPIRED", "Refresh token has expired")
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrInvalidTokenType),
		errors.Is(err, auth.ErrInvalidClaims):
		return shared.NewDomainError("TOKEN_INVALID", "Invalid refresh token")
	default:
		return shared.NewDomainError("TOKEN_ERROR", "Failed to validate refresh token")
	}
}
