// Package codegen turns UI screenshots into framework code through a
// vision model and extracts design tokens from them.
package codegen

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/aiwonderland/imagecode/internal/domain/imagenorm"
	"github.com/aiwonderland/imagecode/internal/port/outbound"
	"github.com/aiwonderland/imagecode/internal/utils/metrics"
)

// MockModel is reported as the model of fallback results.
const MockModel = "mock"

const cacheName = "codegen"

// GenerateOptions selects what to generate.
type GenerateOptions struct {
	Framework      Framework
	IncludeStyling bool
	// Model overrides the provider default when set.
	Model string
}

// GenerateResult is the outcome of a code generation.
type GenerateResult struct {
	Code           string    `json:"code"`
	Framework      Framework `json:"framework"`
	Model          string    `json:"model"`
	IncludeStyling bool      `json:"include_styling"`
	Width          int       `json:"width"`
	Height         int       `json:"height"`
	Fallback       bool      `json:"-"`
	Error          string    `json:"-"`
	Cached         bool      `json:"-"`
}

// ElementsResult is the outcome of an element extraction.
type ElementsResult struct {
	Elements []Element
	Model    string
	Fallback bool
	Error    string
}

// Domain implements image-to-code generation and design extraction.
type Domain struct {
	pool    *imagenorm.Pool
	vision  outbound.VisionModelPort
	cache   outbound.ResultCachePort
	metrics *metrics.Metrics
	config  *Config
	logger  *zap.Logger
}

// NewDomain creates a codegen domain. cache and m may be nil.
func NewDomain(
	pool *imagenorm.Pool,
	vision outbound.VisionModelPort,
	cache outbound.ResultCachePort,
	m *metrics.Metrics,
	config *Config,
	logger *zap.Logger,
) *Domain {
	if config == nil {
		config = DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Domain{
		pool:    pool,
		vision:  vision,
		cache:   cache,
		metrics: m,
		config:  config.withDefaults(),
		logger:  logger.Named("codegen"),
	}
}

// ListFrameworks returns the framework catalog.
func (d *Domain) ListFrameworks() []FrameworkInfo {
	return Frameworks()
}

// Generate converts an uploaded screenshot into code.
func (d *Domain) Generate(ctx context.Context, upload imagenorm.Upload, opts GenerateOptions) (*GenerateResult, error) {
	if opts.Framework == "" {
		opts.Framework = DefaultFramework
	}
	if !opts.Framework.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFramework, opts.Framework)
	}

	img, err := d.normalize(ctx, upload)
	if err != nil {
		return nil, err
	}

	model := opts.Model
	if model == "" {
		model = d.vision.DefaultModel()
	}

	key := cacheKey(img.Payload, opts.Framework, opts.IncludeStyling, model)
	if cached := d.cacheGet(ctx, key); cached != nil {
		cached.Cached = true
		return cached, nil
	}

	resp, err := d.vision.Complete(ctx, &outbound.VisionRequest{
		Model:        model,
		Prompt:       BuildPrompt(opts.Framework, opts.IncludeStyling),
		ImageDataURI: img.DataURI(),
		MaxTokens:    d.config.MaxTokens,
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if err := d.fallbackAllowed(err); err != nil {
			return nil, err
		}
		d.logger.Warn("vision model failed, returning placeholder code",
			zap.String("framework", string(opts.Framework)),
			zap.Error(err),
		)
		return &GenerateResult{
			Code:           MockCode(opts.Framework),
			Framework:      opts.Framework,
			Model:          MockModel,
			IncludeStyling: opts.IncludeStyling,
			Width:          img.Width,
			Height:         img.Height,
			Fallback:       true,
			Error:          err.Error(),
		}, nil
	}

	if resp.Model != "" {
		model = resp.Model
	}
	result := &GenerateResult{
		Code:           resp.Content,
		Framework:      opts.Framework,
		Model:          model,
		IncludeStyling: opts.IncludeStyling,
		Width:          img.Width,
		Height:         img.Height,
	}
	d.cacheSet(ctx, key, result)

	d.logger.Info("code generated",
		zap.String("framework", string(opts.Framework)),
		zap.String("model", model),
		zap.Int("width", img.Width),
		zap.Int("height", img.Height),
		zap.Int("completion_tokens", resp.CompletionTokens),
	)
	return result, nil
}

// ExtractElements lists the UI elements of a screenshot. The model output
// is not parsed; the placeholder element list is returned.
func (d *Domain) ExtractElements(ctx context.Context, upload imagenorm.Upload) (*ElementsResult, error) {
	img, err := d.normalize(ctx, upload)
	if err != nil {
		return nil, err
	}

	resp, err := d.vision.Complete(ctx, &outbound.VisionRequest{
		Model:        d.vision.DefaultModel(),
		Prompt:       ElementPrompt,
		ImageDataURI: img.DataURI(),
		MaxTokens:    d.config.ElementMaxTokens,
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if err := d.fallbackAllowed(err); err != nil {
			return nil, err
		}
		d.logger.Warn("vision model failed, returning placeholder elements", zap.Error(err))
		return &ElementsResult{
			Elements: MockElements(),
			Model:    MockModel,
			Fallback: true,
			Error:    err.Error(),
		}, nil
	}

	return &ElementsResult{
		Elements: MockElements(),
		Model:    resp.Model,
	}, nil
}

// ExtractColors returns the dominant colors of a screenshot.
func (d *Domain) ExtractColors(ctx context.Context, upload imagenorm.Upload) ([]Color, error) {
	img, err := d.normalize(ctx, upload)
	if err != nil {
		return nil, err
	}
	colors, err := ExtractPalette(img.Payload)
	if err != nil {
		return nil, fmt.Errorf("extract palette: %w", err)
	}
	return colors, nil
}

// ExtractTypography returns the typography summary of a screenshot.
func (d *Domain) ExtractTypography(ctx context.Context, upload imagenorm.Upload) (Typography, error) {
	if _, err := d.normalize(ctx, upload); err != nil {
		return Typography{}, err
	}
	return DefaultTypography(), nil
}

func (d *Domain) normalize(ctx context.Context, upload imagenorm.Upload) (*imagenorm.NormalizedImage, error) {
	start := time.Now()
	img, err := d.pool.Normalize(ctx, upload)
	if d.metrics != nil {
		switch {
		case err == nil:
			d.metrics.RecordNormalize("ok", img.OriginalSize, len(img.Payload), time.Since(start))
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			d.metrics.RecordNormalize("canceled", 0, 0, time.Since(start))
		default:
			d.metrics.RecordNormalize(imagenorm.KindOf(err).String(), len(upload.Data), 0, time.Since(start))
		}
	}
	if err != nil {
		return nil, err
	}
	return img, nil
}

// fallbackAllowed returns nil when err may be replaced by placeholder
// output, otherwise the error to return.
func (d *Domain) fallbackAllowed(err error) error {
	if _, ok := outbound.AsExternalServiceError(err); !ok {
		return err
	}
	if d.config.Fallback == FallbackError {
		return fmt.Errorf("%w: %w", ErrExternalService, err)
	}
	return nil
}

func (d *Domain) cacheGet(ctx context.Context, key string) *GenerateResult {
	if d.cache == nil {
		return nil
	}
	data, err := d.cache.Get(ctx, key)
	if err != nil {
		d.logger.Warn("cache get failed", zap.String("backend", d.cache.Name()), zap.Error(err))
		return nil
	}
	if data == nil {
		d.recordCache(false)
		return nil
	}

	var result GenerateResult
	if err := json.Unmarshal(data, &result); err != nil {
		d.logger.Warn("cache entry corrupt", zap.String("key", key), zap.Error(err))
		d.recordCache(false)
		return nil
	}
	d.recordCache(true)
	return &result
}

func (d *Domain) cacheSet(ctx context.Context, key string, result *GenerateResult) {
	if d.cache == nil {
		return
	}
	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := d.cache.Set(ctx, key, data, d.config.CacheTTL); err != nil {
		d.logger.Warn("cache set failed", zap.String("backend", d.cache.Name()), zap.Error(err))
	}
}

func (d *Domain) recordCache(hit bool) {
	if d.metrics == nil {
		return
	}
	if hit {
		d.metrics.RecordCacheHit(cacheName)
	} else {
		d.metrics.RecordCacheMiss(cacheName)
	}
}

// cacheKey identifies a generation by image content and options.
func cacheKey(payload []byte, f Framework, includeStyling bool, model string) string {
	h := sha256.New()
	h.Write(payload)
	h.Write([]byte{0})
	h.Write([]byte(f))
	h.Write([]byte{0})
	h.Write([]byte(strconv.FormatBool(includeStyling)))
	h.Write([]byte{0})
	h.Write([]byte(model))
	return hex.EncodeToString(h.Sum(nil))
}
