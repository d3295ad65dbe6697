// Package export packages generated code as project files and ZIP archives.
package export

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aiwonderland/imagecode/internal/domain/codegen"
	"github.com/aiwonderland/imagecode/internal/port/outbound"
	"github.com/aiwonderland/imagecode/internal/utils/metrics"
)

const (
	maxProjectNameLen = 100
	zipContentType    = "application/zip"
)

// Request describes a project to export.
type Request struct {
	Code               string `json:"code"`
	Framework          string `json:"framework"`
	ProjectName        string `json:"projectName"`
	IncludePackageJSON *bool  `json:"includePackageJson,omitempty"`
	IncludeReadme      *bool  `json:"includeReadme,omitempty"`
}

func (r *Request) packageJSON() bool {
	return r.IncludePackageJSON == nil || *r.IncludePackageJSON
}

func (r *Request) readme() bool {
	return r.IncludeReadme == nil || *r.IncludeReadme
}

// File is one generated project file.
type File struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// Archive is a built project ZIP.
type Archive struct {
	// Filename is the suggested download name.
	Filename string
	Data     []byte
	// Key and URL are set when the archive was stored.
	Key string
	URL string
}

// Domain implements project export.
type Domain struct {
	storage outbound.ArchiveStoragePort
	metrics *metrics.Metrics
	config  *Config
	logger  *zap.Logger
}

// NewDomain creates an export domain. storage and m may be nil.
func NewDomain(storage outbound.ArchiveStoragePort, m *metrics.Metrics, config *Config, logger *zap.Logger) *Domain {
	if config == nil {
		config = DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Domain{
		storage: storage,
		metrics: m,
		config:  config,
		logger:  logger.Named("export"),
	}
}

// GenerateFiles returns the project files for req.
func (d *Domain) GenerateFiles(req *Request) ([]File, error) {
	f, err := validate(req)
	if err != nil {
		return nil, err
	}

	var files []File
	if path, ok := sourcePath(f); ok {
		files = append(files, File{Path: path, Content: req.Code})
	}
	return append(files, d.supportFiles(req, f)...), nil
}

// BuildZip builds a deflated project archive. When storage is configured
// the archive is uploaded as well; upload failures are logged only.
func (d *Domain) BuildZip(ctx context.Context, req *Request) (*Archive, error) {
	f, err := validate(req)
	if err != nil {
		return nil, err
	}

	var files []File
	if path, ok := archiveSourcePath(f); ok {
		files = append(files, File{Path: path, Content: req.Code})
	}
	files = append(files, d.supportFiles(req, f)...)

	data, err := writeZip(files, time.Now())
	if err != nil {
		return nil, fmt.Errorf("build zip: %w", err)
	}

	archive := &Archive{
		Filename: req.ProjectName + ".zip",
		Data:     data,
	}
	d.store(ctx, req.ProjectName, archive)

	if d.metrics != nil {
		d.metrics.RecordExport(string(f), archive.Key != "")
	}
	return archive, nil
}

func (d *Domain) store(ctx context.Context, project string, archive *Archive) {
	if d.storage == nil {
		return
	}

	key := fmt.Sprintf("%s%s/%s.zip", d.config.KeyPrefix, project, uuid.New().String())
	err := d.storage.Put(ctx, key, bytes.NewReader(archive.Data), int64(len(archive.Data)), zipContentType)
	if err != nil {
		d.logger.Warn("failed to store export archive", zap.String("key", key), zap.Error(err))
		return
	}
	archive.Key = key

	url, err := d.storage.PresignGet(ctx, key, d.config.URLExpiry)
	if err != nil {
		d.logger.Warn("failed to presign export archive", zap.String("key", key), zap.Error(err))
		return
	}
	archive.URL = url
}

func (d *Domain) supportFiles(req *Request, f codegen.Framework) []File {
	var files []File
	if req.packageJSON() {
		if content, ok := packageJSON(req.ProjectName, f); ok {
			files = append(files, File{Path: "package.json", Content: content})
		}
	}
	if req.readme() {
		files = append(files, File{Path: "README.md", Content: readmeFor(req.ProjectName, f)})
	}
	return files
}

func validate(req *Request) (codegen.Framework, error) {
	if err := ValidateProjectName(req.ProjectName); err != nil {
		return "", err
	}
	f, ok := codegen.ParseFramework(req.Framework)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFramework, req.Framework)
	}
	return f, nil
}

// ValidateProjectName checks that name is safe to use as a file name
// and inside a Content-Disposition header.
func ValidateProjectName(name string) error {
	if name == "" || len(name) > maxProjectNameLen {
		return fmt.Errorf("%w: must be 1-%d characters", ErrInvalidProjectName, maxProjectNameLen)
	}
	if name == "." || name == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidProjectName, name)
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '.', r == '_', r == '-':
		default:
			return fmt.Errorf("%w: only letters, digits, '.', '_' and '-' are allowed", ErrInvalidProjectName)
		}
	}
	return nil
}

// sourcePath is the main file path in the file listing.
func sourcePath(f codegen.Framework) (string, bool) {
	switch f {
	case codegen.FrameworkReact:
		return "App.tsx", true
	case codegen.FrameworkNextJS:
		return "app/page.tsx", true
	case codegen.FrameworkVue:
		return "App.vue", true
	case codegen.FrameworkHTML, codegen.FrameworkTailwind:
		return "index.html", true
	default:
		return "", false
	}
}

// archiveSourcePath is the main file path inside the ZIP.
func archiveSourcePath(f codegen.Framework) (string, bool) {
	switch f {
	case codegen.FrameworkReact:
		return "src/App.tsx", true
	case codegen.FrameworkVue:
		return "src/App.vue", true
	default:
		return sourcePath(f)
	}
}

func writeZip(files []File, modified time.Time) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range files {
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     f.Path,
			Method:   zip.Deflate,
			Modified: modified,
		})
		if err != nil {
			return nil, err
		}
		if _, err := w.Write([]byte(f.Content)); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
