package handler

import (
	appdashboard "github.com/cms/dashboard/internal/application/dashboard"
	"github.com/cms/dashboard/internal/domain/identity"
	"github.com/cms/dashboard/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DashboardHandler handles dashboard layout and panel HTTP requests
type DashboardHandler struct {
	BaseHandler
	panels  *appdashboard.PanelService
	items   *appdashboard.ItemService
	layouts *appdashboard.LayoutService
	authMW  gin.HandlerFunc
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(
	panels *appdashboard.PanelService,
	items *appdashboard.ItemService,
	layouts *appdashboard.LayoutService,
	authMW gin.HandlerFunc,
) *DashboardHandler {
	return &DashboardHandler{
		panels:  panels,
		items:   items,
		layouts: layouts,
		authMW:  authMW,
	}
}

// RegisterRoutes registers the dashboard routes
func (h *DashboardHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/dashboard", h.authMW, middleware.RequirePermission(identity.PermissionDashboardAccess))
	{
		g.GET("", h.Layout)
		g.GET("/available", h.AvailableVariants)
		g.PUT("/sort", h.Reorder)
		g.POST("/setdefault", h.SetAsDefault)
		g.POST("/applytoall", h.ApplyToAll)

		g.POST("/panel", h.CreatePanel)
		g.GET("/panel/:id", h.GetPanel)
		g.DELETE("/panel/:id", h.DeletePanel)
		g.GET("/panel/:id/configuration", h.GetConfiguration)
		g.PUT("/panel/:id/configuration", h.Configure)
		g.GET("/panel/:id/content", h.PanelContent)
		g.GET("/panel/:id/actions/:action", h.PanelAction)

		g.GET("/panel/:id/items", h.ListItems)
		g.POST("/panel/:id/items", h.AddItem)
		g.PUT("/panel/:id/items/sort", h.ReorderItems)
		g.PUT("/panel/:id/items/:itemID", h.UpdateItem)
		g.DELETE("/panel/:id/items/:itemID", h.DeleteItem)
	}
}

func (h *DashboardHandler) panelID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid panel ID")
		return uuid.Nil, false
	}
	return id, true
}

// Layout returns the caller's dashboard layout
func (h *DashboardHandler) Layout(c *gin.Context) {
	memberID, err := getMemberID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	layout, err := h.panels.Layout(c.Request.Context(), memberID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, layout)
}

// AvailableVariants returns the panel picker entries
func (h *DashboardHandler) AvailableVariants(c *gin.Context) {
	memberID, err := getMemberID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	variants, err := h.panels.AvailableVariants(c.Request.Context(), memberID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, variants)
}

// CreatePanel adds a panel of the requested type to the caller's layout
func (h *DashboardHandler) CreatePanel(c *gin.Context) {
	memberID, err := getMemberID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CreatePanelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.panels.CreatePanel(c.Request.Context(), memberID, appdashboard.CreatePanelInput{
		VariantType: req.VariantType,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// GetPanel returns a single panel
func (h *DashboardHandler) GetPanel(c *gin.Context) {
	memberID, err := getMemberID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	panelID, ok := h.panelID(c)
	if !ok {
		return
	}

	panel, err := h.panels.GetPanel(c.Request.Context(), memberID, panelID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, panel)
}

// DeletePanel removes a panel from the caller's layout
func (h *DashboardHandler) DeletePanel(c *gin.Context) {
	memberID, err := getMemberID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	panelID, ok := h.panelID(c)
	if !ok {
		return
	}

	if err := h.panels.DeletePanel(c.Request.Context(), memberID, panelID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// GetConfiguration returns a panel's configuration form
func (h *DashboardHandler) GetConfiguration(c *gin.Context) {
	memberID, err := getMemberID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	panelID, ok := h.panelID(c)
	if !ok {
		return
	}

	configuration, err := h.panels.GetConfiguration(c.Request.Context(), memberID, panelID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, configuration)
}

// Configure applies submitted configuration values to a panel
func (h *DashboardHandler) Configure(c *gin.Context) {
	memberID, err := getMemberID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	panelID, ok := h.panelID(c)
	if !ok {
		return
	}

	var req ConfigureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	panel, err := h.panels.Configure(c.Request.Context(), memberID, panelID, req.Values)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, panel)
}

// PanelContent renders a panel's current content
func (h *DashboardHandler) PanelContent(c *gin.Context) {
	memberID, err := getMemberID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	panelID, ok := h.panelID(c)
	if !ok {
		return
	}

	content, err := h.panels.PanelContent(c.Request.Context(), memberID, panelID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, content)
}

// PanelAction invokes a named action on a panel. Query parameters are
// passed through as action parameters.
func (h *DashboardHandler) PanelAction(c *gin.Context) {
	memberID, err := getMemberID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	panelID, ok := h.panelID(c)
	if !ok {
		return
	}

	params := make(map[string]string)
	for key, values := range c.Request.URL.Query() {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}

	result, err := h.panels.PanelAction(c.Request.Context(), memberID, panelID, c.Param("action"), params)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Reorder applies a new panel order to the caller's layout
func (h *DashboardHandler) Reorder(c *gin.Context) {
	memberID, err := getMemberID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.panels.Reorder(c.Request.Context(), memberID, req.IDs); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// SetAsDefault copies the caller's layout to the site default
func (h *DashboardHandler) SetAsDefault(c *gin.Context) {
	memberID, err := getMemberID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	if err := h.layouts.SetAsDefault(c.Request.Context(), memberID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ApplyToAll replaces every other member's layout with the caller's.
// Per-member failures are reported, not fatal.
func (h *DashboardHandler) ApplyToAll(c *gin.Context) {
	memberID, err := getMemberID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	report, err := h.layouts.ApplyToAll(c.Request.Context(), memberID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}
