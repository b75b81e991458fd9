package dashboard

import (
	"context"
	"testing"

	domaindash "github.com/cms/dashboard/internal/domain/dashboard"
	"github.com/cms/dashboard/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func todoPanel(t *testing.T, registry *domaindash.Registry, memberID uuid.UUID) *domaindash.Panel {
	t.Helper()
	variant, _ := registry.Lookup(VariantTodo)
	return domaindash.NewPanel(variant, memberID)
}

func TestAddItemAppendsToPanel(t *testing.T) {
	panels := new(MockPanelRepository)
	items := new(MockPanelItemRepository)
	registry := testRegistry(t)
	svc := NewItemService(panels, items, registry, allowAll(), zap.NewNop())
	memberID := uuid.New()

	panel := todoPanel(t, registry, memberID)
	panels.On("FindByID", mock.Anything, panel.GetID()).Return(panel, nil)
	items.On("MaxSortOrder", mock.Anything, panel.GetID()).Return(1, nil)
	items.On("Save", mock.Anything, mock.MatchedBy(func(item *domaindash.PanelItem) bool {
		return item.SortOrder == 2 && item.Fields["text"] == "ship it"
	})).Return(nil)

	view, err := svc.AddItem(context.Background(), memberID, panel.GetID(), map[string]string{"text": "ship it"})

	require.NoError(t, err)
	assert.Equal(t, 2, view.SortOrder)
	items.AssertExpectations(t)
}

func TestAddItemRejectsNonContainerVariant(t *testing.T) {
	panels := new(MockPanelRepository)
	registry := testRegistry(t)
	svc := NewItemService(panels, new(MockPanelItemRepository), registry, allowAll(), zap.NewNop())
	memberID := uuid.New()

	variant, _ := registry.Lookup(VariantWeather)
	panel := domaindash.NewPanel(variant, memberID)
	panels.On("FindByID", mock.Anything, panel.GetID()).Return(panel, nil)

	_, err := svc.AddItem(context.Background(), memberID, panel.GetID(), map[string]string{"text": "x"})

	var derr *shared.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "NO_ITEMS", derr.Code)
}

func TestUpdateItemOfOtherPanelNotFound(t *testing.T) {
	panels := new(MockPanelRepository)
	items := new(MockPanelItemRepository)
	registry := testRegistry(t)
	svc := NewItemService(panels, items, registry, allowAll(), zap.NewNop())
	memberID := uuid.New()

	panel := todoPanel(t, registry, memberID)
	stray := domaindash.NewPanelItem(uuid.New(), map[string]string{"text": "elsewhere"})
	panels.On("FindByID", mock.Anything, panel.GetID()).Return(panel, nil)
	items.On("FindByID", mock.Anything, stray.GetID()).Return(stray, nil)

	_, err := svc.UpdateItem(context.Background(), memberID, panel.GetID(), stray.GetID(), map[string]string{"done": "true"})

	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestReorderItemsSkipsStrayIDs(t *testing.T) {
	panels := new(MockPanelRepository)
	items := new(MockPanelItemRepository)
	registry := testRegistry(t)
	svc := NewItemService(panels, items, registry, allowAll(), zap.NewNop())
	memberID := uuid.New()

	panel := todoPanel(t, registry, memberID)
	first := domaindash.NewPanelItem(panel.GetID(), nil)
	second := domaindash.NewPanelItem(panel.GetID(), nil)
	stray := domaindash.NewPanelItem(uuid.New(), nil)

	panels.On("FindByID", mock.Anything, panel.GetID()).Return(panel, nil)
	items.On("FindByID", mock.Anything, stray.GetID()).Return(stray, nil)
	items.On("FindByID", mock.Anything, second.GetID()).Return(second, nil)
	items.On("FindByID", mock.Anything, first.GetID()).Return(first, nil)
	items.On("Save", mock.Anything, mock.Anything).Return(nil)

	err := svc.ReorderItems(context.Background(), memberID, panel.GetID(), []uuid.UUID{
		stray.GetID(), second.GetID(), first.GetID(),
	})

	require.NoError(t, err)
	assert.Equal(t, 0, second.SortOrder)
	assert.Equal(t, 1, first.SortOrder)
	items.AssertNumberOfCalls(t, "Save", 2)
}

func TestDeleteItem(t *testing.T) {
	panels := new(MockPanelRepository)
	items := new(MockPanelItemRepository)
	registry := testRegistry(t)
	svc := NewItemService(panels, items, registry, allowAll(), zap.NewNop())
	memberID := uuid.New()

	panel := todoPanel(t, registry, memberID)
	item := domaindash.NewPanelItem(panel.GetID(), nil)
	panels.On("FindByID", mock.Anything, panel.GetID()).Return(panel, nil)
	items.On("FindByID", mock.Anything, item.GetID()).Return(item, nil)
	items.On("Delete", mock.Anything, item.GetID()).Return(nil)

	require.NoError(t, svc.DeleteItem(context.Background(), memberID, panel.GetID(), item.GetID()))
	items.AssertExpectations(t)
}
