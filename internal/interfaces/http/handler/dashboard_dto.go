package handler

import "github.com/google/uuid"

// CreatePanelRequest is the panel creation request body
type CreatePanelRequest struct {
	VariantType string `json:"variant_type" binding:"required"`
}

// ConfigureRequest carries submitted configuration values keyed by
// field name.
type ConfigureRequest struct {
	Values map[string]string `json:"values" binding:"required"`
}

// ReorderRequest lists IDs in their new display order
type ReorderRequest struct {
	IDs []uuid.UUID `json:"ids" binding:"required"`
}

// ItemRequest carries a container item's field values
type ItemRequest struct {
	Fields map[string]string `json:"fields" binding:"required"`
}
