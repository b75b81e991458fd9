package identity

import (
	"context"
	"testing"
	"time"

	domainidentity "github.com/cms/dashboard/internal/domain/identity"
	"github.com/cms/dashboard/internal/domain/shared"
	"github.com/cms/dashboard/internal/infrastructure/auth"
	"github.com/cms/dashboard/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockMemberRepository struct {
	mock.Mock
}

func (m *MockMemberRepository) FindByID(ctx context.Context, id uuid.UUID) (*domainidentity.Member, error) {
	args := m.Called(ctx, id)
	if member, ok := args.Get(0).(*domainidentity.Member); ok {
		return member, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockMemberRepository) FindByEmail(ctx context.Context, email string) (*domainidentity.Member, error) {
	args := m.Called(ctx, email)
	if member, ok := args.Get(0).(*domainidentity.Member); ok {
		return member, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockMemberRepository) FindByPermission(ctx context.Context, permission string) ([]*domainidentity.Member, error) {
	args := m.Called(ctx, permission)
	if members, ok := args.Get(0).([]*domainidentity.Member); ok {
		return members, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockMemberRepository) Save(ctx context.Context, member *domainidentity.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockMemberRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type stubProvisioner struct {
	err    error
	called int
}

func (p *stubProvisioner) EnsureDefaultLayout(ctx context.Context, member *domainidentity.Member) error {
	p.called++
	return p.err
}

func testJWT() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-for-auth-service!",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "dashboard-test",
	})
}

func testLoginMember(t *testing.T) *domainidentity.Member {
	t.Helper()
	member, err := domainidentity.NewMember("member@example.com", "password123", domainidentity.AllDashboardPermissions)
	require.NoError(t, err)
	return member
}

func newAuthService(members *MockMemberRepository, provisioner *stubProvisioner) *AuthService {
	return NewAuthService(members, testJWT(), auth.NewMemoryTokenBlacklist(), provisioner, zap.NewNop())
}

func TestAuthServiceLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("returns tokens and member info", func(t *testing.T) {
		members := new(MockMemberRepository)
		provisioner := &stubProvisioner{}
		service := newAuthService(members, provisioner)

		member := testLoginMember(t)
		members.On("FindByEmail", ctx, "member@example.com").Return(member, nil)
		members.On("Save", ctx, member).Return(nil)

		result, err := service.Login(ctx, LoginInput{Email: " Member@Example.com ", Password: "password123"})
		require.NoError(t, err)
		assert.NotEmpty(t, result.AccessToken)
		assert.NotEmpty(t, result.RefreshToken)
		assert.Equal(t, "Bearer", result.TokenType)
		assert.Equal(t, member.GetID(), result.Member.ID)
		assert.Equal(t, 1, provisioner.called)
		assert.NotNil(t, member.LastLoginAt)
	})

	t.Run("rejects wrong password without provisioning", func(t *testing.T) {
		members := new(MockMemberRepository)
		provisioner := &stubProvisioner{}
		service := newAuthService(members, provisioner)

		members.On("FindByEmail", ctx, "member@example.com").Return(testLoginMember(t), nil)

		_, err := service.Login(ctx, LoginInput{Email: "member@example.com", Password: "wrong"})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
		assert.Equal(t, 0, provisioner.called)
	})

	t.Run("unknown email maps to invalid credentials", func(t *testing.T) {
		members := new(MockMemberRepository)
		service := newAuthService(members, &stubProvisioner{})

		members.On("FindByEmail", ctx, "ghost@example.com").Return(nil, shared.ErrNotFound)

		_, err := service.Login(ctx, LoginInput{Email: "ghost@example.com", Password: "password123"})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
	})

	t.Run("provisioning failure does not block login", func(t *testing.T) {
		members := new(MockMemberRepository)
		provisioner := &stubProvisioner{err: assert.AnError}
		service := newAuthService(members, provisioner)

		member := testLoginMember(t)
		members.On("FindByEmail", ctx, "member@example.com").Return(member, nil)
		members.On("Save", ctx, member).Return(nil)

		result, err := service.Login(ctx, LoginInput{Email: "member@example.com", Password: "password123"})
		require.NoError(t, err)
		assert.NotEmpty(t, result.AccessToken)
	})
}

func TestAuthServiceRefreshToken(t *testing.T) {
	ctx := context.Background()

	login := func(t *testing.T, service *AuthService, members *MockMemberRepository, member *domainidentity.Member) *LoginResult {
		t.Helper()
		members.On("FindByEmail", ctx, "member@example.com").Return(member, nil)
		members.On("Save", ctx, member).Return(nil)
		result, err := service.Login(ctx, LoginInput{Email: "member@example.com", Password: "password123"})
		require.NoError(t, err)
		return result
	}

	t.Run("reloads permissions from the member record", func(t *testing.T) {
		members := new(MockMemberRepository)
		service := newAuthService(members, &stubProvisioner{})

		member := testLoginMember(t)
		result := login(t, service, members, member)

		member.RevokePermission(domainidentity.PermissionDashboardDelete)
		members.On("FindByID", ctx, member.GetID()).Return(member, nil)

		refreshed, err := service.RefreshToken(ctx, RefreshTokenInput{RefreshToken: result.RefreshToken})
		require.NoError(t, err)

		claims, err := testJWT().ValidateAccessToken(refreshed.AccessToken)
		require.NoError(t, err)
		assert.False(t, claims.HasPermission(domainidentity.PermissionDashboardDelete))
		assert.True(t, claims.HasPermission(domainidentity.PermissionDashboardAccess))
	})

	t.Run("rejects a revoked refresh token", func(t *testing.T) {
		members := new(MockMemberRepository)
		blacklist := auth.NewMemoryTokenBlacklist()
		service := NewAuthService(members, testJWT(), blacklist, &stubProvisioner{}, zap.NewNop())

		member := testLoginMember(t)
		result := login(t, service, members, member)

		claims, err := testJWT().ValidateRefreshToken(result.RefreshToken)
		require.NoError(t, err)
		require.NoError(t, blacklist.Revoke(ctx, claims.ID, time.Hour))

		_, err = service.RefreshToken(ctx, RefreshTokenInput{RefreshToken: result.RefreshToken})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "TOKEN_REVOKED", domainErr.Code)
	})

	t.Run("rejects garbage tokens", func(t *testing.T) {
		members := new(MockMemberRepository)
		service := newAuthService(members, &stubProvisioner{})

		_, err := service.RefreshToken(ctx, RefreshTokenInput{RefreshToken: "not-a-token"})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "TOKEN_INVALID", domainErr.Code)
	})
}

func TestAuthServiceLogout(t *testing.T) {
	ctx := context.Background()

	members := new(MockMemberRepository)
	blacklist := auth.NewMemoryTokenBlacklist()
	service := NewAuthService(members, testJWT(), blacklist, &stubProvisioner{}, zap.NewNop())

	err := service.Logout(ctx, LogoutInput{
		MemberID:  uuid.New(),
		TokenID:   "jti-123",
		ExpiresAt: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	revoked, err := blacklist.IsRevoked(ctx, "jti-123")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestMemberPermissionChecker(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves from the member record", func(t *testing.T) {
		members := new(MockMemberRepository)
		checker := NewMemberPermissionChecker(members)

		member, err := domainidentity.NewMember("checker@example.com", "password123",
			[]string{domainidentity.PermissionDashboardAccess})
		require.NoError(t, err)
		members.On("FindByID", ctx, member.GetID()).Return(member, nil)

		ok, err := checker.Check(ctx, member.GetID(), domainidentity.PermissionDashboardAccess)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = checker.Check(ctx, member.GetID(), domainidentity.PermissionDashboardDelete)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("unknown members hold nothing", func(t *testing.T) {
		members := new(MockMemberRepository)
		checker := NewMemberPermissionChecker(members)

		id := uuid.New()
		members.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

		ok, err := checker.Check(ctx, id, domainidentity.PermissionDashboardAccess)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
