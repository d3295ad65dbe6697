package imagetocodehttp

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/aiwonderland/imagecode/internal/adapter/inbound/http/httpx"
	"github.com/aiwonderland/imagecode/internal/domain/codegen"
	"github.com/aiwonderland/imagecode/internal/port/inbound"
	apperrors "github.com/aiwonderland/imagecode/internal/utils/errors"
)

// Handler handles image-to-code HTTP requests.
type Handler struct {
	domain    inbound.CodegenDomain
	maxUpload int64
}

// NewHandler creates a new image-to-code handler.
func NewHandler(domain inbound.CodegenDomain, maxUpload int64) *Handler {
	return &Handler{domain: domain, maxUpload: maxUpload}
}

// RegisterRoutes registers image-to-code routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	group := r.Group("/image-to-code")
	{
		group.POST("/convert", h.Convert)
		group.GET("/frameworks", h.ListFrameworks)
	}
}

// ImageDimensions is the size of the image sent to the model.
type ImageDimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ConvertMetadata describes how the code was produced.
type ConvertMetadata struct {
	ModelUsed       string          `json:"model_used"`
	IncludeStyling  bool            `json:"include_styling"`
	ImageDimensions ImageDimensions `json:"image_dimensions"`
	Fallback        bool            `json:"fallback,omitempty"`
	Error           string          `json:"error,omitempty"`
	Cached          bool            `json:"cached,omitempty"`
}

// ConvertResponse is the body of a successful conversion.
type ConvertResponse struct {
	Success   bool              `json:"success"`
	Code      string            `json:"code"`
	Framework codegen.Framework `json:"framework"`
	Metadata  ConvertMetadata   `json:"metadata"`
}

// Convert handles POST /api/image-to-code/convert.
func (h *Handler) Convert(c *gin.Context) {
	upload, err := httpx.ReadUpload(c, h.maxUpload)
	if err != nil {
		httpx.RespondError(c, err)
		return
	}

	framework, ok := codegen.ParseFramework(c.PostForm("framework"))
	if !ok {
		httpx.RespondError(c, apperrors.BadRequest("unsupported framework: "+c.PostForm("framework")))
		return
	}

	includeStyling := true
	if raw := strings.TrimSpace(c.PostForm("include_styling")); raw != "" {
		includeStyling, err = strconv.ParseBool(raw)
		if err != nil {
			httpx.RespondError(c, apperrors.BadRequest("include_styling must be a boolean"))
			return
		}
	}

	result, err := h.domain.Generate(c.Request.Context(), upload, codegen.GenerateOptions{
		Framework:      framework,
		IncludeStyling: includeStyling,
		Model:          strings.TrimSpace(c.PostForm("model")),
	})
	if err != nil {
		httpx.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ConvertResponse{
		Success:   true,
		Code:      result.Code,
		Framework: result.Framework,
		Metadata: ConvertMetadata{
			ModelUsed:       result.Model,
			IncludeStyling:  result.IncludeStyling,
			ImageDimensions: ImageDimensions{Width: result.Width, Height: result.Height},
			Fallback:        result.Fallback,
			Error:           result.Error,
			Cached:          result.Cached,
		},
	})
}

// ListFrameworks handles GET /api/image-to-code/frameworks.
func (h *Handler) ListFrameworks(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"frameworks": h.domain.ListFrameworks()})
}
