package app

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aiwonderland/imagecode/internal/infra/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: error\n"), 0o600))

	cfg, err := config.LoadFile(path)
	require.NoError(t, err)
	cfg.Redis.Address = ""
	cfg.Storage.Bucket = ""
	cfg.AI.APIKey = ""
	cfg.AI.Fallback = "mock"

	a, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(a.Stop)
	return a
}

func pngBody(t *testing.T, filename string) (*bytes.Buffer, string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 32, 24))
	for y := 0; y < 24; y++ {
		for x := 0; x < 32; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 40, B: 40, A: 255})
		}
	}

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	h.Set("Content-Type", "image/png")
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	require.NoError(t, png.Encode(part, img))
	require.NoError(t, w.WriteField("framework", "html"))
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func TestApp_SystemRoutes(t *testing.T) {
	a := newTestApp(t)

	t.Run("root", func(t *testing.T) {
		w := httptest.NewRecorder()
		a.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "running", body["status"])
		assert.Equal(t, Version, body["version"])
	})

	t.Run("health", func(t *testing.T) {
		w := httptest.NewRecorder()
		a.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
	})

	t.Run("metrics", func(t *testing.T) {
		w := httptest.NewRecorder()
		a.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "go_goroutines")
	})

	t.Run("request id echoed", func(t *testing.T) {
		w := httptest.NewRecorder()
		a.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	})
}

func TestApp_Convert(t *testing.T) {
	a := newTestApp(t)

	t.Run("mock fallback without api key", func(t *testing.T) {
		body, contentType := pngBody(t, "shot.png")
		req := httptest.NewRequest(http.MethodPost, "/api/image-to-code/convert", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		a.Router().ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var resp struct {
			Success   bool   `json:"success"`
			Framework string `json:"framework"`
			Code      string `json:"code"`
			Metadata  struct {
				ModelUsed       string `json:"model_used"`
				Fallback        bool   `json:"fallback"`
				ImageDimensions struct {
					Width  int `json:"width"`
					Height int `json:"height"`
				} `json:"image_dimensions"`
			} `json:"metadata"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, "html", resp.Framework)
		assert.Contains(t, resp.Code, "<!DOCTYPE html>")
		assert.True(t, resp.Metadata.Fallback)
		assert.Equal(t, 32, resp.Metadata.ImageDimensions.Width)
		assert.Equal(t, 24, resp.Metadata.ImageDimensions.Height)
	})

	t.Run("rejects disallowed extension", func(t *testing.T) {
		body, contentType := pngBody(t, "shot.bmp")
		req := httptest.NewRequest(http.MethodPost, "/api/image-to-code/convert", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		a.Router().ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
	})

	t.Run("frameworks", func(t *testing.T) {
		w := httptest.NewRecorder()
		a.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/image-to-code/frameworks", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"nextjs"`)
	})
}

func TestApp_Export(t *testing.T) {
	a := newTestApp(t)

	payload := `{"code":"export default function App() { return null }","framework":"react","projectName":"demo"}`
	req := httptest.NewRequest(http.MethodPost, "/api/export/download-zip", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.Router().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/zip", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "demo.zip")
	assert.Empty(t, w.Header().Get("X-Export-URL"))
}
