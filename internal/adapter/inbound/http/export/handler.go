package exporthttp

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aiwonderland/imagecode/internal/adapter/inbound/http/httpx"
	"github.com/aiwonderland/imagecode/internal/domain/export"
	"github.com/aiwonderland/imagecode/internal/port/inbound"
	apperrors "github.com/aiwonderland/imagecode/internal/utils/errors"
	"github.com/aiwonderland/imagecode/internal/utils/middleware"
)

const maxRequestBody = 10 << 20

// Handler handles export HTTP requests.
type Handler struct {
	domain inbound.ExportDomain
}

// NewHandler creates a new export handler.
func NewHandler(domain inbound.ExportDomain) *Handler {
	return &Handler{domain: domain}
}

// RegisterRoutes registers export routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	group := r.Group("/export")
	{
		group.POST("/generate-files", h.GenerateFiles)
		group.POST("/download-zip", h.DownloadZip)
	}
}

// FilesResponse is the body of a file listing.
type FilesResponse struct {
	Success     bool          `json:"success"`
	Files       []export.File `json:"files"`
	ProjectName string        `json:"projectName"`
}

// GenerateFiles handles POST /api/export/generate-files.
func (h *Handler) GenerateFiles(c *gin.Context) {
	req, ok := bindRequest(c)
	if !ok {
		return
	}

	files, err := h.domain.GenerateFiles(req)
	if err != nil {
		httpx.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, FilesResponse{
		Success:     true,
		Files:       files,
		ProjectName: req.ProjectName,
	})
}

// DownloadZip handles POST /api/export/download-zip.
func (h *Handler) DownloadZip(c *gin.Context) {
	req, ok := bindRequest(c)
	if !ok {
		return
	}

	archive, err := h.domain.BuildZip(c.Request.Context(), req)
	if err != nil {
		httpx.RespondError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+archive.Filename)
	if archive.Key != "" {
		c.Header(middleware.ExportKeyHeader, archive.Key)
	}
	if archive.URL != "" {
		c.Header(middleware.ExportURLHeader, archive.URL)
	}
	c.Data(http.StatusOK, "application/zip", archive.Data)
}

func bindRequest(c *gin.Context) (*export.Request, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxRequestBody)

	var req export.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.RespondError(c, apperrors.BadRequest("invalid export request: "+err.Error()))
		return nil, false
	}
	return &req, true
}
