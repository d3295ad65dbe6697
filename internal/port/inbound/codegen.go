package inbound

import (
	"context"

	"github.com/aiwonderland/imagecode/internal/domain/codegen"
	"github.com/aiwonderland/imagecode/internal/domain/imagenorm"
)

// CodegenDomain converts screenshots into code and design tokens.
type CodegenDomain interface {
	ListFrameworks() []codegen.FrameworkInfo
	Generate(ctx context.Context, upload imagenorm.Upload, opts codegen.GenerateOptions) (*codegen.GenerateResult, error)
	ExtractElements(ctx context.Context, upload imagenorm.Upload) (*codegen.ElementsResult, error)
	ExtractColors(ctx context.Context, upload imagenorm.Upload) ([]codegen.Color, error)
	ExtractTypography(ctx context.Context, upload imagenorm.Upload) (codegen.Typography, error)
}

var _ CodegenDomain = (*codegen.Domain)(nil)
