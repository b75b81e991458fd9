package dashboard

import (
	"context"

	domaindash "github.com/cms/dashboard/internal/domain/dashboard"
	"github.com/cms/dashboard/internal/domain/identity"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockPanelRepository is a mock implementation of dashboard.PanelRepository
type MockPanelRepository struct {
	mock.Mock
}

func (m *MockPanelRepository) FindByID(ctx context.Context, id uuid.UUID) (*domaindash.Panel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domaindash.Panel), args.Error(1)
}

func (m *MockPanelRepository) FindByOwner(ctx context.Context, owner domaindash.Owner) ([]*domaindash.Panel, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domaindash.Panel), args.Error(1)
}

func (m *MockPanelRepository) Save(ctx context.Context, panel *domaindash.Panel) error {
	args := m.Called(ctx, panel)
	return args.Error(0)
}

func (m *MockPanelRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPanelRepository) MaxSortOrder(ctx context.Context, owner domaindash.Owner) (int, error) {
	args := m.Called(ctx, owner)
	return args.Int(0), args.Error(1)
}

func (m *MockPanelRepository) ReplaceLayout(ctx context.Context, owner domaindash.Owner, panels []*domaindash.Panel, items map[uuid.UUID][]*domaindash.PanelItem) error {
	args := m.Called(ctx, owner, panels, items)
	return args.Error(0)
}

// MockPanelItemRepository is a mock implementation of dashboard.PanelItemRepository
type MockPanelItemRepository struct {
	mock.Mock
}

func (m *MockPanelItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*domaindash.PanelItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domaindash.PanelItem), args.Error(1)
}

func (m *MockPanelItemRepository) FindByPanel(ctx context.Context, panelID uuid.UUID) ([]*domaindash.PanelItem, error) {
	args := m.Called(ctx, panelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domaindash.PanelItem), args.Error(1)
}

func (m *MockPanelItemRepository) Save(ctx context.Context, item *domaindash.PanelItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockPanelItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPanelItemRepository) DeleteByPanel(ctx context.Context, panelID uuid.UUID) error {
	args := m.Called(ctx, panelID)
	return args.Error(0)
}

func (m *MockPanelItemRepository) MaxSortOrder(ctx context.Context, panelID uuid.UUID) (int, error) {
	args := m.Called(ctx, panelID)
	return args.Int(0), args.Error(1)
}

// MockMemberRepository is a mock implementation of identity.MemberRepository
type MockMemberRepository struct {
	mock.Mock
}

func (m *MockMemberRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Member, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Member), args.Error(1)
}

func (m *MockMemberRepository) FindByEmail(ctx context.Context, email string) (*identity.Member, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Member), args.Error(1)
}

func (m *MockMemberRepository) FindByPermission(ctx context.Context, permission string) ([]*identity.Member, error) {
	args := m.Called(ctx, permission)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*identity.Member), args.Error(1)
}

func (m *MockMemberRepository) Save(ctx context.Context, member *identity.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockMemberRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockPermissionChecker is a mock implementation of identity.PermissionChecker
type MockPermissionChecker struct {
	mock.Mock
}

func (m *MockPermissionChecker) Check(ctx context.Context, memberID uuid.UUID, permission string) (bool, error) {
	args := m.Called(ctx, memberID, permission)
	return args.Bool(0), args.Error(1)
}

// allowAll returns a checker that grants every permission
func allowAll() *MockPermissionChecker {
	perms := new(MockPermissionChecker)
	perms.On("Check", mock.Anything, mock.Anything, mock.Anything).Return(true, nil)
	return perms
}
