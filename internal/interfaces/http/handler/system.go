package handler

import (
	"net/http"

	"github.com/cms/dashboard/internal/infrastructure/persistence"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// SystemHandler serves health and readiness probes
type SystemHandler struct {
	BaseHandler
	db      *persistence.Database
	redis   *redis.Client
	appName string
	env     string
}

// NewSystemHandler creates a new system handler. The redis client may
// be nil when caching runs in-process.
func NewSystemHandler(db *persistence.Database, redisClient *redis.Client, appName, env string) *SystemHandler {
	return &SystemHandler{
		db:      db,
		redis:   redisClient,
		appName: appName,
		env:     env,
	}
}

// RegisterRoutes registers the system routes
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.Health)
}

// Health reports the service's dependency status
func (h *SystemHandler) Health(c *gin.Context) {
	status := http.StatusOK
	checks := gin.H{}

	if err := h.db.Ping(); err != nil {
		checks["database"] = "unreachable"
		status = http.StatusServiceUnavailable
	} else {
		checks["database"] = "ok"
	}

	if h.redis != nil {
		if err := h.redis.Ping(c.Request.Context()).Err(); err != nil {
			// Cache degradation is not fatal
			checks["redis"] = "unreachable"
		} else {
			checks["redis"] = "ok"
		}
	}

	c.JSON(status, gin.H{
		"app":    h.appName,
		"env":    h.env,
		"checks": checks,
	})
}
