package export

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aiwonderland/imagecode/internal/port/outbound"
	"github.com/aiwonderland/imagecode/internal/utils/metrics"
)

type MockArchiveStorage struct {
	mock.Mock
}

func (m *MockArchiveStorage) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	args := m.Called(ctx, key, body, size, contentType)
	return args.Error(0)
}

func (m *MockArchiveStorage) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, key, expiry)
	return args.String(0), args.Error(1)
}

var _ outbound.ArchiveStoragePort = (*MockArchiveStorage)(nil)

func boolPtr(b bool) *bool { return &b }

func readZip(t *testing.T, data []byte) map[string]string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	out := make(map[string]string)
	for _, f := range zr.File {
		assert.Equal(t, zip.Deflate, f.Method)
		rc, err := f.Open()
		require.NoError(t, err)
		b, err := io.ReadAll(rc)
		require.NoError(t, err)
		rc.Close()
		out[f.Name] = string(b)
	}
	return out
}

func paths(files []File) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Path
	}
	return out
}

func TestGenerateFiles(t *testing.T) {
	d := NewDomain(nil, nil, nil, zap.NewNop())

	tests := []struct {
		name string
		req  Request
		want []string
	}{
		{"react with defaults", Request{Code: "x", Framework: "react", ProjectName: "demo"}, []string{"App.tsx", "package.json", "README.md"}},
		{"nextjs", Request{Code: "x", Framework: "nextjs", ProjectName: "demo"}, []string{"app/page.tsx", "package.json", "README.md"}},
		{"html has no package.json", Request{Code: "x", Framework: "html", ProjectName: "demo"}, []string{"index.html", "README.md"}},
		{"vue", Request{Code: "x", Framework: "vue", ProjectName: "demo"}, []string{"App.vue", "README.md"}},
		{"flags off", Request{Code: "x", Framework: "react", ProjectName: "demo", IncludePackageJSON: boolPtr(false), IncludeReadme: boolPtr(false)}, []string{"App.tsx"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files, err := d.GenerateFiles(&tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, paths(files))
			assert.Equal(t, "x", files[0].Content)
		})
	}

	t.Run("package.json and readme content", func(t *testing.T) {
		files, err := d.GenerateFiles(&Request{Code: "x", Framework: "nextjs", ProjectName: "my-app"})
		require.NoError(t, err)
		assert.Contains(t, files[1].Content, `"name": "my-app"`)
		assert.Contains(t, files[1].Content, `"next": "16.0.0"`)
		assert.True(t, strings.HasPrefix(files[2].Content, "# my-app\n\nGenerated with AI Wonderland Image-to-Code\n"))
		assert.Contains(t, files[2].Content, "- [Nextjs Documentation](https://nextjs.dev)\n")
	})

	t.Run("rejects bad input", func(t *testing.T) {
		_, err := d.GenerateFiles(&Request{Framework: "react", ProjectName: "a b"})
		assert.ErrorIs(t, err, ErrInvalidProjectName)

		_, err = d.GenerateFiles(&Request{Framework: "svelte", ProjectName: "ok"})
		assert.ErrorIs(t, err, ErrUnsupportedFramework)
	})
}

func TestValidateProjectName(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
	}{
		{"my-app_1.0", true},
		{"", false},
		{strings.Repeat("a", 100), true},
		{strings.Repeat("a", 101), false},
		{"..", false},
		{"evil\r\nX-Injected: 1", false},
		{"a/b", false},
		{`quote"`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateProjectName(tt.name)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidProjectName)
			}
		})
	}
}

func TestBuildZip(t *testing.T) {
	t.Run("react archive layout", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		m := metrics.NewWithRegistry("test", reg, reg)
		d := NewDomain(nil, m, nil, zap.NewNop())

		archive, err := d.BuildZip(context.Background(), &Request{Code: "export default 1", Framework: "react", ProjectName: "demo"})
		require.NoError(t, err)
		assert.Equal(t, "demo.zip", archive.Filename)
		assert.Empty(t, archive.Key)

		entries := readZip(t, archive.Data)
		assert.Len(t, entries, 3)
		assert.Equal(t, "export default 1", entries["src/App.tsx"])
		assert.Contains(t, entries["package.json"], `"vite": "^5.0.0"`)
		assert.Contains(t, entries["README.md"], "react")
		assert.Equal(t, float64(1), testutil.ToFloat64(m.ExportArchivesTotal.WithLabelValues("react", "false")))
	})

	t.Run("html without readme", func(t *testing.T) {
		d := NewDomain(nil, nil, nil, nil)
		archive, err := d.BuildZip(context.Background(), &Request{Code: "<p/>", Framework: "html", ProjectName: "site", IncludeReadme: boolPtr(false)})
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"index.html": "<p/>"}, readZip(t, archive.Data))
	})

	t.Run("stores archive when storage configured", func(t *testing.T) {
		storage := new(MockArchiveStorage)
		storage.On("Put", mock.Anything, mock.MatchedBy(func(key string) bool {
			return strings.HasPrefix(key, "exports/demo/") && strings.HasSuffix(key, ".zip")
		}), mock.Anything, mock.Anything, "application/zip").Return(nil)
		storage.On("PresignGet", mock.Anything, mock.Anything, 24*time.Hour).Return("https://example.test/demo.zip", nil)

		d := NewDomain(storage, nil, nil, zap.NewNop())
		archive, err := d.BuildZip(context.Background(), &Request{Code: "x", Framework: "nextjs", ProjectName: "demo"})
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(archive.Key, "exports/demo/"))
		assert.Equal(t, "https://example.test/demo.zip", archive.URL)
		storage.AssertExpectations(t)

		size := storage.Calls[0].Arguments.Get(3).(int64)
		assert.Equal(t, int64(len(archive.Data)), size)
	})

	t.Run("storage failure does not fail the download", func(t *testing.T) {
		storage := new(MockArchiveStorage)
		storage.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("bucket gone"))

		d := NewDomain(storage, nil, nil, zap.NewNop())
		archive, err := d.BuildZip(context.Background(), &Request{Code: "x", Framework: "react", ProjectName: "demo"})
		require.NoError(t, err)
		assert.NotEmpty(t, archive.Data)
		assert.Empty(t, archive.Key)
		storage.AssertNotCalled(t, "PresignGet", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("invalid request", func(t *testing.T) {
		d := NewDomain(nil, nil, nil, nil)
		_, err := d.BuildZip(context.Background(), &Request{Framework: "react", ProjectName: ""})
		assert.ErrorIs(t, err, ErrInvalidProjectName)
	})
}
