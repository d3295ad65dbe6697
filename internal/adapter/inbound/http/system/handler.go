package systemhttp

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handler serves the service banner and health endpoints.
type Handler struct {
	version string
}

// NewHandler creates a new system handler.
func NewHandler(version string) *Handler {
	if version == "" {
		version = "1.0.0"
	}
	return &Handler{version: version}
}

// RegisterRoutes registers system routes on the root router.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/", h.Root)
	r.GET("/health", h.Health)
}

// Root handles GET /.
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "AI Wonderland Backend API",
		"version": h.version,
		"status":  "running",
	})
}

// Health handles GET /health.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
