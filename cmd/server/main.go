package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/nulzo/llm-provider-kit/internal/analytics"
	"github.com/nulzo/llm-provider-kit/internal/config"
	"github.com/nulzo/llm-provider-kit/internal/platform/logger"
	"github.com/nulzo/llm-provider-kit/internal/platform/otel"
	"github.com/nulzo/llm-provider-kit/internal/registry"
	"github.com/nulzo/llm-provider-kit/internal/server"
	"github.com/nulzo/llm-provider-kit/internal/store/sqlite"
	"go.uber.org/zap"

	_ "github.com/nulzo/llm-provider-kit/internal/llm/all"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	if err := logger.Initialize(cfg.Log.Logger("stdout")); err != nil {
		logger.Fatal("failed to initialize logger", zap.Error(err))
	}
	defer logger.Sync()
	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Tracing.Enabled {
		shutdown, err := otel.InitTracer("llm-gateway", cfg.Tracing.SampleRatio, log, os.Stdout)
		if err != nil {
			log.Fatal("failed to initialize tracer", zap.Error(err))
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				log.Error("failed to shutdown tracer", zap.Error(err))
			}
		}()
	}

	reg := registry.New(
		registry.WithLogger(log),
		registry.WithDataDir(cfg.Catalog.DataDir),
		registry.WithCredentialsFile(cfg.Credentials.Path),
		registry.WithBaseURLs(cfg.Client.BaseURLs),
	)
	sel := reg.Selection()
	log.Info("registry ready",
		zap.Strings("clients", reg.Clients()),
		zap.Int("models", reg.Catalog().Len()),
		zap.String("provider", sel.Provider),
		zap.String("model", sel.Model),
	)

	var opts []server.Option
	if cfg.Store.Path != "" {
		repo, err := sqlite.Open(cfg.Store.Path, log)
		if err != nil {
			log.Fatal("failed to open store", zap.String("path", cfg.Store.Path), zap.Error(err))
		}
		defer func() {
			if err := repo.Close(); err != nil {
				log.Error("failed to close store", zap.Error(err))
			}
		}()

		ingestor := analytics.NewIngestor(log, repo)
		ingestor.Start(context.Background())
		defer ingestor.Stop()

		opts = append(opts, server.WithAnalytics(analytics.NewService(repo), ingestor))
	}

	srv := server.New(cfg, log, reg, opts...)
	if err := srv.Run(ctx); err != nil {
		log.Error("server stopped", zap.Error(err))
	}
}
