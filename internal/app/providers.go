package app

import (
	"context"
	"net/http"

	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	// Domains
	"github.com/aiwonderland/imagecode/internal/domain/codegen"
	"github.com/aiwonderland/imagecode/internal/domain/export"
	"github.com/aiwonderland/imagecode/internal/domain/imagenorm"

	// Inbound adapters
	exporthttp "github.com/aiwonderland/imagecode/internal/adapter/inbound/http/export"
	extractionhttp "github.com/aiwonderland/imagecode/internal/adapter/inbound/http/extraction"
	imagetocodehttp "github.com/aiwonderland/imagecode/internal/adapter/inbound/http/imagetocode"
	systemhttp "github.com/aiwonderland/imagecode/internal/adapter/inbound/http/system"

	// Ports
	"github.com/aiwonderland/imagecode/internal/port/inbound"
	"github.com/aiwonderland/imagecode/internal/port/outbound"

	// Outbound adapters
	"github.com/aiwonderland/imagecode/internal/adapter/outbound/memory"
	openaiadapter "github.com/aiwonderland/imagecode/internal/adapter/outbound/openai"
	redisadapter "github.com/aiwonderland/imagecode/internal/adapter/outbound/redis"
	s3adapter "github.com/aiwonderland/imagecode/internal/adapter/outbound/s3"

	// Infrastructure
	"github.com/aiwonderland/imagecode/internal/infra/config"
	"github.com/aiwonderland/imagecode/internal/infra/httpclient"

	// Utils
	"github.com/aiwonderland/imagecode/internal/utils/logger"
	"github.com/aiwonderland/imagecode/internal/utils/metrics"
)

// Version is reported by the service banner.
const Version = "1.0.0"

// ===== Infrastructure Providers =====

// InfraSet provides infrastructure dependencies.
var InfraSet = wire.NewSet(
	ProvideLogger,
	ProvideZapLogger,
	ProvideMetrics,
	ProvideHTTPClient,
	ProvideRedisClient,
	ProvideRateLimiter,
	ProvideResultCache,
	ProvideArchiveStorage,
)

// ProvideLogger creates the request logger.
func ProvideLogger(cfg *config.Config) *logger.Logger {
	return logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
}

// ProvideZapLogger creates the zap logger used by domains and adapters.
func ProvideZapLogger(cfg *config.Config) (*zap.Logger, func(), error) {
	zapLog, err := logger.NewZapLogger(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		return nil, nil, err
	}
	return zapLog, func() { _ = zapLog.Sync() }, nil
}

// ProvideMetrics creates metrics on a registry owned by this application.
func ProvideMetrics() *metrics.Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return metrics.NewWithRegistry("imagecode", reg, reg)
}

// ProvideHTTPClient creates a shared HTTP client with connection pooling.
func ProvideHTTPClient(cfg *config.Config) *http.Client {
	return httpclient.New(cfg.HTTPClient)
}

// ProvideRedisClient connects to Redis when configured. Redis is
// optional; a failed connection is logged and the service runs without it.
func ProvideRedisClient(cfg *config.Config, zapLog *zap.Logger) (goredis.UniversalClient, func()) {
	if cfg.Redis.Address == "" {
		return nil, func() {}
	}
	client, err := redisadapter.NewClient(context.Background(), cfg.Redis)
	if err != nil {
		zapLog.Warn("Redis connection failed, continuing without it", zap.Error(err))
		return nil, func() {}
	}
	return client, func() { _ = client.Close() }
}

// ProvideRateLimiter creates the API rate limiter. It requires Redis.
func ProvideRateLimiter(cfg *config.Config, redis goredis.UniversalClient) outbound.RateLimiterPort {
	if redis == nil || !cfg.RateLimit.Enabled {
		return nil
	}
	return redisadapter.NewRateLimiter(redis)
}

// ProvideResultCache picks Redis when available, otherwise an in-process LRU.
func ProvideResultCache(cfg *config.Config, redis goredis.UniversalClient) outbound.ResultCachePort {
	if !cfg.Cache.Enabled {
		return nil
	}
	if redis != nil {
		return redisadapter.NewResultCache(redis, cfg.Cache.TTL)
	}
	return memory.NewResultCache(cfg.Cache.Size, cfg.Cache.TTL)
}

// ProvideArchiveStorage creates export archive storage when configured.
func ProvideArchiveStorage(cfg *config.Config, zapLog *zap.Logger) outbound.ArchiveStoragePort {
	if !cfg.Storage.Enabled() {
		return nil
	}
	storage, err := s3adapter.NewArchiveStorage(context.Background(), &s3adapter.Config{
		Endpoint:        cfg.Storage.Endpoint,
		Region:          cfg.Storage.Region,
		AccessKeyID:     cfg.Storage.AccessKeyID,
		SecretAccessKey: cfg.Storage.SecretAccessKey,
		Bucket:          cfg.Storage.Bucket,
	})
	if err != nil {
		zapLog.Warn("archive storage disabled", zap.Error(err))
		return nil
	}
	return storage
}

// ===== Domain Providers =====

// DomainSet provides domain dependencies.
var DomainSet = wire.NewSet(
	ProvideImagePool,
	ProvideVisionModel,
	ProvideCodegenDomain,
	ProvideExportDomain,
)

// ProvideImagePool creates the bounded image normalization pool.
func ProvideImagePool(cfg *config.Config) *imagenorm.Pool {
	n := imagenorm.New(&imagenorm.Config{
		MaxUploadSize:     cfg.Upload.MaxSize,
		AllowedExtensions: cfg.Upload.AllowedExtensions,
		MaxDimension:      cfg.Upload.MaxDimension,
		Quality:           cfg.Upload.JPEGQuality,
		MaxPixels:         cfg.Upload.MaxPixels,
	})
	return imagenorm.NewPool(n, cfg.Upload.MaxConcurrent)
}

// ProvideVisionModel creates the vision model client once for the process.
func ProvideVisionModel(cfg *config.Config, client *http.Client, m *metrics.Metrics, zapLog *zap.Logger) outbound.VisionModelPort {
	if cfg.AI.APIKey == "" {
		zapLog.Warn("no AI API key configured, vision calls will use the fallback strategy",
			zap.String("fallback", cfg.AI.Fallback))
	}
	return openaiadapter.NewVisionAdapter(&openaiadapter.Config{
		APIKey:           cfg.AI.APIKey,
		BaseURL:          cfg.AI.BaseURL,
		Model:            cfg.AI.Model,
		Timeout:          cfg.AI.Timeout,
		FailureThreshold: cfg.AI.FailureThreshold,
		CircuitTimeout:   cfg.AI.CircuitTimeout,
		MaxHalfOpen:      cfg.AI.MaxHalfOpen,
	}, client, m, zapLog)
}

// ProvideCodegenDomain creates the codegen domain.
func ProvideCodegenDomain(
	pool *imagenorm.Pool,
	vision outbound.VisionModelPort,
	cache outbound.ResultCachePort,
	m *metrics.Metrics,
	cfg *config.Config,
	zapLog *zap.Logger,
) inbound.CodegenDomain {
	return codegen.NewDomain(pool, vision, cache, m, &codegen.Config{
		MaxTokens:        cfg.AI.MaxTokens,
		ElementMaxTokens: cfg.AI.ElementMaxTokens,
		Fallback:         codegen.FallbackStrategy(cfg.AI.Fallback),
		CacheTTL:         cfg.Cache.TTL,
	}, zapLog)
}

// ProvideExportDomain creates the export domain.
func ProvideExportDomain(
	storage outbound.ArchiveStoragePort,
	m *metrics.Metrics,
	cfg *config.Config,
	zapLog *zap.Logger,
) inbound.ExportDomain {
	return export.NewDomain(storage, m, &export.Config{
		KeyPrefix: cfg.Storage.Prefix,
		URLExpiry: cfg.Storage.URLExpiry,
	}, zapLog)
}

// ===== Handler Providers =====

// HandlerSet provides HTTP handlers.
var HandlerSet = wire.NewSet(
	ProvideImageToCodeHandler,
	ProvideExtractionHandler,
	ProvideExportHandler,
	ProvideSystemHandler,
)

// ProvideImageToCodeHandler creates the image-to-code handler.
func ProvideImageToCodeHandler(d inbound.CodegenDomain, cfg *config.Config) *imagetocodehttp.Handler {
	return imagetocodehttp.NewHandler(d, cfg.Upload.MaxSize)
}

// ProvideExtractionHandler creates the extraction handler.
func ProvideExtractionHandler(d inbound.CodegenDomain, cfg *config.Config) *extractionhttp.Handler {
	return extractionhttp.NewHandler(d, cfg.Upload.MaxSize)
}

// ProvideExportHandler creates the export handler.
func ProvideExportHandler(d inbound.ExportDomain) *exporthttp.Handler {
	return exporthttp.NewHandler(d)
}

// ProvideSystemHandler creates the banner and health handler.
func ProvideSystemHandler() *systemhttp.Handler {
	return systemhttp.NewHandler(Version)
}

// AppSet is the complete provider set.
var AppSet = wire.NewSet(
	InfraSet,
	DomainSet,
	HandlerSet,
)
