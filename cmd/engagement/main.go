package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"engagement/internal/backend"
	"engagement/internal/cli"
	"engagement/internal/config"
	"engagement/internal/core"
	"engagement/internal/dataset"
	apphttp "engagement/internal/http"
	applog "engagement/internal/log"
)

func main() {
	if err := cli.LoadEnvFile(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cfg := config.Load()
	logger := cli.SetupLogger(cfg)
	cli.ValidateConfig(logger, cfg)

	backendConfig, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid data source configuration", applog.FieldError, err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	source, err := backend.NewFactory(logger.Logger).CreateSource(ctx, backendConfig)
	if err != nil {
		cancel()
		var loadErr *core.LoadError
		if errors.As(err, &loadErr) {
			logLoadError(logger, err)
		} else {
			logger.Error("Failed to initialize data source", applog.FieldError, err, "type", cfg.DataSource)
		}
		os.Exit(1)
	}

	loader := dataset.NewLoader(source.Source)
	data, err := loader.Load(ctx)
	cancel()
	if err != nil {
		logLoadError(logger, err)
		cleanupSource(logger, source)
		os.Exit(1)
	}

	srv, err := apphttp.NewServer(":"+cfg.Port, loader, apphttp.Options{
		CacheMaxEntries:      cfg.CacheMaxEntries,
		CacheTTL:             cfg.CacheTTL,
		CacheCleanupSchedule: cfg.CacheCleanupSchedule,
		RateLimitPerMinute:   cfg.RateLimitPerMinute,
		Logger:               logger,
	})
	if err != nil {
		logger.Error("Failed to create HTTP server", applog.FieldError, err)
		cleanupSource(logger, source)
		os.Exit(1)
	}

	shutdownCtx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", applog.FieldError, err)
		}
		cleanupSource(logger, source)
	})

	logger.Info("Starting engagement dashboard",
		"port", cfg.Port,
		applog.FieldSource, source.Source.Name(),
		applog.FieldRows, data.Len())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", applog.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(shutdownCtx, done)
	logger.Info("Server stopped gracefully")
}

func logLoadError(logger *applog.Logger, err error) {
	var loadErr *core.LoadError
	if errors.As(err, &loadErr) {
		logger.Error("Failed to load dataset",
			applog.FieldOperation, applog.OpLoad,
			applog.FieldError, loadErr.Err,
			applog.FieldSource, loadErr.Source,
			"row", loadErr.Row,
			"column", loadErr.Column)
		return
	}
	logger.Error("Failed to load dataset", applog.FieldOperation, applog.OpLoad, applog.FieldError, err)
}

func cleanupSource(logger *applog.Logger, source *backend.SourceResult) {
	if source.Cleanup == nil {
		return
	}
	if err := source.Cleanup(); err != nil {
		logger.Warn("Data source cleanup failed", applog.FieldError, err)
	}
}
