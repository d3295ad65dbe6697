package app

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aiwonderland/imagecode/internal/infra/config"
	"github.com/aiwonderland/imagecode/internal/utils/middleware"
)

// Routes that honor the Idempotency-Key header.
var idempotentRoutes = []string{
	"/api/image-to-code/convert",
	"/api/export/download-zip",
}

// App is the assembled HTTP application.
type App struct {
	deps    *Dependencies
	router  *gin.Engine
	cleanup func()
}

// New creates the application from configuration.
func New(cfg *config.Config) (*App, error) {
	deps, cleanup, err := InitializeDependencies(cfg)
	if err != nil {
		return nil, fmt.Errorf("initialize dependencies: %w", err)
	}

	app := &App{
		deps:    deps,
		cleanup: cleanup,
	}
	app.setupRouter()

	deps.ZapLogger.Info("application initialized",
		zap.Bool("redis", deps.Redis != nil),
		zap.Bool("rate_limit", deps.RateLimiter != nil),
		zap.Bool("archive_storage", cfg.Storage.Enabled()),
		zap.String("ai_provider", cfg.AI.Provider),
	)
	return app, nil
}

func (a *App) setupRouter() {
	cfg := a.deps.Config
	log := a.deps.Logger

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(log))
	r.Use(middleware.Metrics(a.deps.Metrics))

	corsCfg := middleware.DefaultCORSConfig()
	if len(cfg.CORS.AllowOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.CORS.AllowOrigins
	}
	r.Use(middleware.CORS(corsCfg))
	r.Use(middleware.RateLimitAPI(a.deps.RateLimiter, cfg.RateLimit.Limit, cfg.RateLimit.Window, log))
	r.Use(middleware.Idempotency(a.deps.Redis, middleware.IdempotencyConfig{
		Paths:  idempotentRoutes,
		Logger: log,
	}))

	a.deps.SystemHandler.RegisterRoutes(r)
	r.GET("/metrics", gin.WrapH(a.deps.Metrics.Handler()))

	api := r.Group("/api")
	a.deps.ImageToCodeHandler.RegisterRoutes(api)
	a.deps.ExtractionHandler.RegisterRoutes(api)
	a.deps.ExportHandler.RegisterRoutes(api)

	a.router = r
}

// Router returns the HTTP handler.
func (a *App) Router() *gin.Engine {
	return a.router
}

// Stop releases application resources.
func (a *App) Stop() {
	a.deps.ZapLogger.Info("stopping application")
	if a.cleanup != nil {
		a.cleanup()
	}
}
