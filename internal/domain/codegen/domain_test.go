package codegen

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aiwonderland/imagecode/internal/domain/imagenorm"
	"github.com/aiwonderland/imagecode/internal/port/outbound"
	"github.com/aiwonderland/imagecode/internal/utils/metrics"
)

// --- Mock implementations ---

type MockVisionModel struct {
	mock.Mock
}

func (m *MockVisionModel) Complete(ctx context.Context, req *outbound.VisionRequest) (*outbound.VisionResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*outbound.VisionResponse), args.Error(1)
}

func (m *MockVisionModel) Provider() string {
	return "mock-provider"
}

func (m *MockVisionModel) DefaultModel() string {
	return "gpt-4o"
}

var _ outbound.VisionModelPort = (*MockVisionModel)(nil)

type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
	ttls map[string]time.Duration
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (c *memoryCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data[key], nil
}

func (c *memoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	c.ttls[key] = ttl
	return nil
}

func (c *memoryCache) Name() string { return "test" }

var _ outbound.ResultCachePort = (*memoryCache)(nil)

// --- Helpers ---

func pngUpload(t *testing.T, w, h int) imagenorm.Upload {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 0x28, G: 0x68, B: 0xc8, A: 0xff})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return imagenorm.Upload{Data: buf.Bytes(), Filename: "shot.png", ContentType: "image/png"}
}

func newTestDomain(vision outbound.VisionModelPort, cache outbound.ResultCachePort, cfg *Config) (*Domain, *metrics.Metrics) {
	reg := prometheus.NewRegistry()
	m := metrics.NewWithRegistry("test", reg, reg)
	pool := imagenorm.NewPool(imagenorm.New(nil), 2)
	return NewDomain(pool, vision, cache, m, cfg, zap.NewNop()), m
}

func visionFailure(unavailable bool) error {
	return &outbound.ExternalServiceError{
		Provider:    "openai",
		Op:          "chat completion",
		StatusCode:  500,
		Unavailable: unavailable,
		Err:         errors.New("upstream exploded"),
	}
}

// --- Tests ---

func TestDomain_Generate(t *testing.T) {
	t.Run("calls vision model and caches result", func(t *testing.T) {
		vision := new(MockVisionModel)
		vision.On("Complete", mock.Anything, mock.MatchedBy(func(req *outbound.VisionRequest) bool {
			return req.Model == "gpt-4o" &&
				req.MaxTokens == 4096 &&
				req.Prompt == BuildPrompt(FrameworkVue, false) &&
				len(req.ImageDataURI) > len("data:image/jpeg;base64,") &&
				req.ImageDataURI[:len("data:image/jpeg;base64,")] == "data:image/jpeg;base64,"
		})).Return(&outbound.VisionResponse{Content: "<template/>", Model: "gpt-4o-2024"}, nil).Once()

		cache := newMemoryCache()
		d, m := newTestDomain(vision, cache, nil)
		upload := pngUpload(t, 40, 30)

		res, err := d.Generate(context.Background(), upload, GenerateOptions{Framework: FrameworkVue})
		require.NoError(t, err)
		assert.Equal(t, "<template/>", res.Code)
		assert.Equal(t, FrameworkVue, res.Framework)
		assert.Equal(t, "gpt-4o-2024", res.Model)
		assert.Equal(t, 40, res.Width)
		assert.Equal(t, 30, res.Height)
		assert.False(t, res.Fallback)
		assert.False(t, res.Cached)
		require.Len(t, cache.data, 1)
		for _, ttl := range cache.ttls {
			assert.Equal(t, time.Hour, ttl)
		}

		again, err := d.Generate(context.Background(), upload, GenerateOptions{Framework: FrameworkVue})
		require.NoError(t, err)
		assert.True(t, again.Cached)
		assert.Equal(t, "<template/>", again.Code)
		assert.Equal(t, 30, again.Height)

		vision.AssertExpectations(t)
		assert.Equal(t, float64(1), testutil.ToFloat64(m.CacheHitsTotal.WithLabelValues("codegen")))
		assert.Equal(t, float64(1), testutil.ToFloat64(m.CacheMissesTotal.WithLabelValues("codegen")))
		assert.Equal(t, float64(2), testutil.ToFloat64(m.ImageNormalizeTotal.WithLabelValues("ok")))
	})

	t.Run("defaults to react and explicit model", func(t *testing.T) {
		vision := new(MockVisionModel)
		vision.On("Complete", mock.Anything, mock.MatchedBy(func(req *outbound.VisionRequest) bool {
			return req.Model == "gpt-4o-mini" && req.Prompt == BuildPrompt(FrameworkReact, true)
		})).Return(&outbound.VisionResponse{Content: "code"}, nil)

		d, _ := newTestDomain(vision, nil, nil)
		res, err := d.Generate(context.Background(), pngUpload(t, 8, 8), GenerateOptions{IncludeStyling: true, Model: "gpt-4o-mini"})
		require.NoError(t, err)
		assert.Equal(t, FrameworkReact, res.Framework)
		assert.Equal(t, "gpt-4o-mini", res.Model)
		assert.True(t, res.IncludeStyling)
	})

	t.Run("mock fallback on external failure", func(t *testing.T) {
		vision := new(MockVisionModel)
		vision.On("Complete", mock.Anything, mock.Anything).Return(nil, visionFailure(false))

		cache := newMemoryCache()
		d, _ := newTestDomain(vision, cache, &Config{Fallback: FallbackMock})
		res, err := d.Generate(context.Background(), pngUpload(t, 8, 8), GenerateOptions{Framework: FrameworkNextJS})
		require.NoError(t, err)
		assert.True(t, res.Fallback)
		assert.Equal(t, MockModel, res.Model)
		assert.Equal(t, MockCode(FrameworkNextJS), res.Code)
		assert.Contains(t, res.Error, "upstream exploded")
		assert.Empty(t, cache.data)
	})

	t.Run("error fallback surfaces external failure", func(t *testing.T) {
		vision := new(MockVisionModel)
		vision.On("Complete", mock.Anything, mock.Anything).Return(nil, visionFailure(true))

		d, _ := newTestDomain(vision, nil, &Config{Fallback: FallbackError})
		_, err := d.Generate(context.Background(), pngUpload(t, 8, 8), GenerateOptions{})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrExternalService)
		ext, ok := outbound.AsExternalServiceError(err)
		require.True(t, ok)
		assert.True(t, ext.Unavailable)
	})

	t.Run("non external errors are not replaced", func(t *testing.T) {
		boom := errors.New("boom")
		vision := new(MockVisionModel)
		vision.On("Complete", mock.Anything, mock.Anything).Return(nil, boom)

		d, _ := newTestDomain(vision, nil, &Config{Fallback: FallbackMock})
		_, err := d.Generate(context.Background(), pngUpload(t, 8, 8), GenerateOptions{})
		assert.ErrorIs(t, err, boom)
	})

	t.Run("unknown framework", func(t *testing.T) {
		vision := new(MockVisionModel)
		d, _ := newTestDomain(vision, nil, nil)
		_, err := d.Generate(context.Background(), pngUpload(t, 8, 8), GenerateOptions{Framework: "svelte"})
		assert.ErrorIs(t, err, ErrUnknownFramework)
		vision.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
	})

	t.Run("invalid image never reaches the model", func(t *testing.T) {
		vision := new(MockVisionModel)
		d, m := newTestDomain(vision, nil, nil)
		_, err := d.Generate(context.Background(),
			imagenorm.Upload{Data: []byte("not an image"), Filename: "x.png"}, GenerateOptions{})
		assert.Equal(t, imagenorm.KindInvalidImageData, imagenorm.KindOf(err))
		vision.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
		assert.Equal(t, float64(1), testutil.ToFloat64(m.ImageNormalizeTotal.WithLabelValues("InvalidImageData")))
	})

	t.Run("canceled context is not replaced by fallback", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		vision := new(MockVisionModel)
		vision.On("Complete", mock.Anything, mock.Anything).
			Run(func(mock.Arguments) { cancel() }).
			Return(nil, visionFailure(false))

		d, _ := newTestDomain(vision, nil, &Config{Fallback: FallbackMock})
		_, err := d.Generate(ctx, pngUpload(t, 8, 8), GenerateOptions{})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestDomain_ExtractElements(t *testing.T) {
	t.Run("returns placeholder elements on success", func(t *testing.T) {
		vision := new(MockVisionModel)
		vision.On("Complete", mock.Anything, mock.MatchedBy(func(req *outbound.VisionRequest) bool {
			return req.Prompt == ElementPrompt && req.MaxTokens == 2048
		})).Return(&outbound.VisionResponse{Content: "[]", Model: "gpt-4o"}, nil)

		d, _ := newTestDomain(vision, nil, nil)
		res, err := d.ExtractElements(context.Background(), pngUpload(t, 8, 8))
		require.NoError(t, err)
		assert.Equal(t, MockElements(), res.Elements)
		assert.False(t, res.Fallback)
	})

	t.Run("mock fallback", func(t *testing.T) {
		vision := new(MockVisionModel)
		vision.On("Complete", mock.Anything, mock.Anything).Return(nil, visionFailure(false))

		d, _ := newTestDomain(vision, nil, nil)
		res, err := d.ExtractElements(context.Background(), pngUpload(t, 8, 8))
		require.NoError(t, err)
		assert.True(t, res.Fallback)
		assert.Len(t, res.Elements, 4)
	})

	t.Run("error fallback", func(t *testing.T) {
		vision := new(MockVisionModel)
		vision.On("Complete", mock.Anything, mock.Anything).Return(nil, visionFailure(false))

		d, _ := newTestDomain(vision, nil, &Config{Fallback: FallbackError})
		_, err := d.ExtractElements(context.Background(), pngUpload(t, 8, 8))
		assert.ErrorIs(t, err, ErrExternalService)
	})
}

func TestDomain_ExtractColors(t *testing.T) {
	d, _ := newTestDomain(new(MockVisionModel), nil, nil)

	colors, err := d.ExtractColors(context.Background(), pngUpload(t, 32, 32))
	require.NoError(t, err)
	require.NotEmpty(t, colors)
	assert.Equal(t, "Primary", colors[0].Name)
	assert.GreaterOrEqual(t, colors[0].Usage, 90)

	_, err = d.ExtractColors(context.Background(), imagenorm.Upload{Data: []byte("x"), Filename: "x.bmp"})
	assert.Equal(t, imagenorm.KindUnsupportedMediaType, imagenorm.KindOf(err))
}

func TestDomain_ExtractTypography(t *testing.T) {
	d, _ := newTestDomain(new(MockVisionModel), nil, nil)

	typo, err := d.ExtractTypography(context.Background(), pngUpload(t, 8, 8))
	require.NoError(t, err)
	assert.Equal(t, DefaultTypography(), typo)

	_, err = d.ExtractTypography(context.Background(), imagenorm.Upload{Data: []byte("junk"), Filename: "a.jpg"})
	assert.Equal(t, imagenorm.KindInvalidImageData, imagenorm.KindOf(err))
}

func TestDomain_ListFrameworks(t *testing.T) {
	d, _ := newTestDomain(new(MockVisionModel), nil, nil)
	assert.Equal(t, Frameworks(), d.ListFrameworks())
}
