package exporthttp

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/aiwonderland/imagecode/internal/domain/export"
	"github.com/aiwonderland/imagecode/internal/utils/middleware"
)

// MockExportDomain is a mock implementation of inbound.ExportDomain.
type MockExportDomain struct {
	mock.Mock
}

func (m *MockExportDomain) GenerateFiles(req *export.Request) ([]export.File, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]export.File), args.Error(1)
}

func (m *MockExportDomain) BuildZip(ctx context.Context, req *export.Request) (*export.Archive, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*export.Archive), args.Error(1)
}

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(d *MockExportDomain, path, body string) *httptest.ResponseRecorder {
	r := gin.New()
	NewHandler(d).RegisterRoutes(r.Group("/api"))
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_GenerateFiles(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		d := new(MockExportDomain)
		d.On("GenerateFiles", mock.MatchedBy(func(r *export.Request) bool {
			return r.ProjectName == "demo" && r.Framework == "react" && r.IncludeReadme != nil && !*r.IncludeReadme
		})).Return([]export.File{{Path: "App.tsx", Content: "code"}}, nil)

		w := serve(d, "/api/export/generate-files",
			`{"code":"code","framework":"react","projectName":"demo","includeReadme":false}`)

		require.Equal(t, http.StatusOK, w.Code)
		var resp FilesResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, "demo", resp.ProjectName)
		assert.Equal(t, []export.File{{Path: "App.tsx", Content: "code"}}, resp.Files)
		d.AssertExpectations(t)
	})

	t.Run("invalid project name", func(t *testing.T) {
		d := new(MockExportDomain)
		d.On("GenerateFiles", mock.Anything).Return(nil, export.ErrInvalidProjectName)

		w := serve(d, "/api/export/generate-files", `{"code":"x","framework":"react","projectName":"../etc"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed json", func(t *testing.T) {
		d := new(MockExportDomain)

		w := serve(d, "/api/export/generate-files", `{"code":`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		d.AssertNotCalled(t, "GenerateFiles", mock.Anything)
	})
}

func TestHandler_DownloadZip(t *testing.T) {
	t.Run("stored archive", func(t *testing.T) {
		d := new(MockExportDomain)
		d.On("BuildZip", mock.Anything, mock.Anything).Return(&export.Archive{
			Filename: "demo.zip",
			Data:     []byte("PK\x03\x04"),
			Key:      "exports/demo/abc.zip",
			URL:      "https://example.test/demo.zip",
		}, nil)

		w := serve(d, "/api/export/download-zip", `{"code":"x","framework":"react","projectName":"demo"}`)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/zip", w.Header().Get("Content-Type"))
		assert.Equal(t, "attachment; filename=demo.zip", w.Header().Get("Content-Disposition"))
		assert.Equal(t, "exports/demo/abc.zip", w.Header().Get(middleware.ExportKeyHeader))
		assert.Equal(t, "https://example.test/demo.zip", w.Header().Get(middleware.ExportURLHeader))
		assert.Equal(t, []byte("PK\x03\x04"), w.Body.Bytes())
	})

	t.Run("no storage", func(t *testing.T) {
		d := new(MockExportDomain)
		d.On("BuildZip", mock.Anything, mock.Anything).Return(&export.Archive{
			Filename: "demo.zip",
			Data:     []byte("PK"),
		}, nil)

		w := serve(d, "/api/export/download-zip", `{"code":"x","framework":"html","projectName":"demo"}`)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get(middleware.ExportKeyHeader))
		assert.Empty(t, w.Header().Get(middleware.ExportURLHeader))
	})

	t.Run("unsupported framework", func(t *testing.T) {
		d := new(MockExportDomain)
		d.On("BuildZip", mock.Anything, mock.Anything).Return(nil, export.ErrUnsupportedFramework)

		w := serve(d, "/api/export/download-zip", `{"code":"x","framework":"svelte","projectName":"demo"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
