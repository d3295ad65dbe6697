//go:build wireinject
// +build wireinject

package app

import (
	"net/http"

	"github.com/google/wire"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	// Inbound adapters
	exporthttp "github.com/aiwonderland/imagecode/internal/adapter/inbound/http/export"
	extractionhttp "github.com/aiwonderland/imagecode/internal/adapter/inbound/http/extraction"
	imagetocodehttp "github.com/aiwonderland/imagecode/internal/adapter/inbound/http/imagetocode"
	systemhttp "github.com/aiwonderland/imagecode/internal/adapter/inbound/http/system"

	// Ports
	"github.com/aiwonderland/imagecode/internal/port/inbound"
	"github.com/aiwonderland/imagecode/internal/port/outbound"

	// Infrastructure
	"github.com/aiwonderland/imagecode/internal/infra/config"

	// Utils
	"github.com/aiwonderland/imagecode/internal/utils/logger"
	"github.com/aiwonderland/imagecode/internal/utils/metrics"
)

// Dependencies holds all injected dependencies.
type Dependencies struct {
	Config      *config.Config
	Redis       goredis.UniversalClient
	HTTPClient  *http.Client
	RateLimiter outbound.RateLimiterPort
	Logger      *logger.Logger
	ZapLogger   *zap.Logger
	Metrics     *metrics.Metrics

	// Domains
	CodegenDomain inbound.CodegenDomain
	ExportDomain  inbound.ExportDomain

	// HTTP Handlers
	ImageToCodeHandler *imagetocodehttp.Handler
	ExtractionHandler  *extractionhttp.Handler
	ExportHandler      *exporthttp.Handler
	SystemHandler      *systemhttp.Handler
}

// InitializeDependencies creates all dependencies using Wire.
func InitializeDependencies(cfg *config.Config) (*Dependencies, func(), error) {
	wire.Build(
		AppSet,
		wire.Struct(new(Dependencies), "*"),
	)
	return nil, nil, nil
}
