package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (h *DashboardHandler) itemID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("itemID"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID")
		return uuid.Nil, false
	}
	return id, true
}

// ListItems returns a container panel's items
func (h *DashboardHandler) ListItems(c *gin.Context) {
	memberID, err := getMemberID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	panelID, ok := h.panelID(c)
	if !ok {
		return
	}

	items, err := h.items.ListItems(c.Request.Context(), memberID, panelID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// AddItem appends an item to a container panel
func (h *DashboardHandler) AddItem(c *gin.Context) {
	memberID, err := getMemberID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	panelID, ok := h.panelID(c)
	if !ok {
		return
	}

	var req ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	item, err := h.items.AddItem(c.Request.Context(), memberID, panelID, req.Fields)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, item)
}

// UpdateItem applies new field values to an item
func (h *DashboardHandler) UpdateItem(c *gin.Context) {
	memberID, err := getMemberID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	panelID, ok := h.panelID(c)
	if !ok {
		return
	}
	itemID, ok := h.itemID(c)
	if !ok {
		return
	}

	var req ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	item, err := h.items.UpdateItem(c.Request.Context(), memberID, panelID, itemID, req.Fields)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// DeleteItem removes an item from a container panel
func (h *DashboardHandler) DeleteItem(c *gin.Context) {
	memberID, err := getMemberID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	panelID, ok := h.panelID(c)
	if !ok {
		return
	}
	itemID, ok := h.itemID(c)
	if !ok {
		return
	}

	if err := h.items.DeleteItem(c.Request.Context(), memberID, panelID, itemID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ReorderItems applies a new item order within a panel
func (h *DashboardHandler) ReorderItems(c *gin.Context) {
	memberID, err := getMemberID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	panelID, ok := h.panelID(c)
	if !ok {
		return
	}

	var req ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.items.ReorderItems(c.Request.Context(), memberID, panelID, req.IDs); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
