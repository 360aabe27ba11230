package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"alfredoptarigan/resume-screener/internal/config"
	"alfredoptarigan/resume-screener/internal/handlers"
	"alfredoptarigan/resume-screener/internal/logger"
	"alfredoptarigan/resume-screener/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	zl, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		log.Fatalf("creating a logger: %v", err)
	}
	defer zl.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Cache store
	redisClient := config.InitRedis(ctx, cfg, zl)
	resultCache := services.NewRedisResultCache(redisClient)

	// Model backend
	backend, err := services.NewModelBackend(ctx, cfg.Model)
	if err != nil {
		zl.Fatal("failed to initialize model backend", zap.Error(err))
	}
	zl.Info("model backend initialized", logger.ModelFields(backend.Provider(), backend.Model())...)

	if cfg.Model.Warmup {
		warmupCtx, cancel := context.WithTimeout(ctx, cfg.Model.Timeout)
		if err := services.Warmup(warmupCtx, backend); err != nil {
			zl.Warn("model warmup skipped", zap.Error(err))
		} else {
			zl.Info("model warmed up")
		}
		cancel()
	}

	metrics := services.NewMetrics()

	// Model calls run on their own pool, detached from request contexts.
	dispatcher := services.NewDispatcher(backend, services.DispatcherOptions{
		Concurrency: cfg.Model.Concurrency,
		RateLimit:   cfg.Model.RateLimit,
		Timeout:     cfg.Model.Timeout,
	}, zl)
	dispatcher.Start(context.Background())

	screener := services.NewScreenerService(dispatcher, cfg.Model.NumCtx, metrics, zl)
	pipeline := services.NewPipelineService(
		services.NewPDFParserService(),
		services.NewNormalizer(cfg.Screening.MaxResumeChars),
		resultCache,
		screener,
		services.PipelineOptions{
			KeyPrefix:            cfg.Cache.KeyPrefix,
			TTL:                  cfg.Cache.TTL,
			RawJobDescriptionKey: cfg.Screening.RawJobDescriptionKey,
		},
		metrics,
		zl,
	)

	app := handlers.NewApp(
		handlers.AppConfig{
			BodyLimit: cfg.Storage.BodyLimit(),
			AccessLog: true,
			Logger:    zl,
		},
		handlers.NewScreenHandler(pipeline, cfg.Storage.MaxFileSize),
		handlers.NewHealthHandler(metrics),
	)

	// Graceful shutdown
	go func() {
		<-ctx.Done()
		zl.Info("shutting down server")
		if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
			zl.Error("server forced to shutdown", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	zl.Info("server starting",
		zap.String("addr", addr),
		zap.String("env", cfg.Server.Env),
		zap.Int("resume_max_chars", cfg.Screening.MaxResumeChars),
		zap.Duration("cache_ttl", cfg.Cache.TTL),
	)

	if err := app.Listen(addr); err != nil {
		zl.Error("server stopped", zap.Error(err))
	}

	dispatcher.Stop()
	if err := redisClient.Close(); err != nil {
		zl.Warn("closing cache store client", zap.Error(err))
	}
	zl.Info("shutdown complete")
}
