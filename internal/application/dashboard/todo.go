package dashboard

import (
	"context"

	"github.com/cms/dashboard/internal/domain/dashboard"
)

// TodoContent is the body of a to-do panel
type TodoContent struct {
	Items []ItemView `json:"items"`
	Open  int        `json:"open"`
}

// TodoProvider renders to-do panels from their child items
type TodoProvider struct {
	items dashboard.PanelItemRepository
}

// NewTodoProvider creates a to-do content provider
func NewTodoProvider(items dashboard.PanelItemRepository) *TodoProvider {
	return &TodoProvider{items: items}
}

func (p *TodoProvider) VariantType() string { return VariantTodo }

// Content lists the panel's items in sort order with an open count
func (p *TodoProvider) Content(ctx context.Context, panel *dashboard.Panel) (any, error) {
	items, err := p.items.FindByPanel(ctx, panel.GetID())
	if err != nil {
		return nil, err
	}

	content := &TodoContent{Items: make([]ItemView, 0, len(items))}
	for _, item := range items {
		content.Items = append(content.Items, NewItemView(item))
		if item.Fields["done"] != "true" {
			content.Open++
		}
	}
	return content, nil
}
