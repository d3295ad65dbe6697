package extractionhttp

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aiwonderland/imagecode/internal/adapter/inbound/http/httpx"
	"github.com/aiwonderland/imagecode/internal/domain/codegen"
	"github.com/aiwonderland/imagecode/internal/port/inbound"
)

// Handler handles design extraction HTTP requests.
type Handler struct {
	domain    inbound.CodegenDomain
	maxUpload int64
}

// NewHandler creates a new extraction handler.
func NewHandler(domain inbound.CodegenDomain, maxUpload int64) *Handler {
	return &Handler{domain: domain, maxUpload: maxUpload}
}

// RegisterRoutes registers extraction routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	group := r.Group("/ai-extraction")
	{
		group.POST("/extract-elements", h.ExtractElements)
		group.POST("/extract-colors", h.ExtractColors)
		group.POST("/extract-typography", h.ExtractTypography)
	}
}

// ElementsResponse is the body of an element extraction.
type ElementsResponse struct {
	Success  bool              `json:"success"`
	Elements []codegen.Element `json:"elements"`
	Count    int               `json:"count"`
	Fallback bool              `json:"fallback,omitempty"`
}

// ExtractElements handles POST /api/ai-extraction/extract-elements.
func (h *Handler) ExtractElements(c *gin.Context) {
	upload, err := httpx.ReadUpload(c, h.maxUpload)
	if err != nil {
		httpx.RespondError(c, err)
		return
	}

	result, err := h.domain.ExtractElements(c.Request.Context(), upload)
	if err != nil {
		httpx.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ElementsResponse{
		Success:  true,
		Elements: result.Elements,
		Count:    len(result.Elements),
		Fallback: result.Fallback,
	})
}

// ExtractColors handles POST /api/ai-extraction/extract-colors.
func (h *Handler) ExtractColors(c *gin.Context) {
	upload, err := httpx.ReadUpload(c, h.maxUpload)
	if err != nil {
		httpx.RespondError(c, err)
		return
	}

	colors, err := h.domain.ExtractColors(c.Request.Context(), upload)
	if err != nil {
		httpx.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "colors": colors})
}

// ExtractTypography handles POST /api/ai-extraction/extract-typography.
func (h *Handler) ExtractTypography(c *gin.Context) {
	upload, err := httpx.ReadUpload(c, h.maxUpload)
	if err != nil {
		httpx.RespondError(c, err)
		return
	}

	typography, err := h.domain.ExtractTypography(c.Request.Context(), upload)
	if err != nil {
		httpx.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "typography": typography})
}
