package inbound

import (
	"context"

	"github.com/aiwonderland/imagecode/internal/domain/export"
)

// ExportDomain packages generated code for download.
type ExportDomain interface {
	GenerateFiles(req *export.Request) ([]export.File, error)
	BuildZip(ctx context.Context, req *export.Request) (*export.Archive, error)
}

var _ ExportDomain = (*export.Domain)(nil)
