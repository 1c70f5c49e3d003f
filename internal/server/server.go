// Package server exposes the provider registry over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nulzo/llm-provider-kit/internal/analytics"
	"github.com/nulzo/llm-provider-kit/internal/config"
	"github.com/nulzo/llm-provider-kit/internal/server/middleware"
	v1 "github.com/nulzo/llm-provider-kit/internal/server/v1"
	"github.com/nulzo/llm-provider-kit/internal/server/validator"
	"go.uber.org/zap"
)

const serviceName = "llm-gateway"

type Server struct {
	router    *gin.Engine
	config    *config.Config
	logger    *zap.Logger
	registry  v1.Registry
	validator *validator.Validator

	analytics analytics.Service
	ingestor  analytics.Ingestor
}

type Option func(*Server)

// WithAnalytics records requests through ing and serves history from svc.
func WithAnalytics(svc analytics.Service, ing analytics.Ingestor) Option {
	return func(s *Server) {
		s.analytics = svc
		s.ingestor = ing
	}
}

func New(cfg *config.Config, logger *zap.Logger, reg v1.Registry, opts ...Option) *Server {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(middleware.Recovery(logger))
	engine.Use(middleware.RequestID())
	if cfg.Tracing.Enabled {
		engine.Use(middleware.Tracing(serviceName))
	}
	engine.Use(middleware.Logger(logger))

	s := &Server{
		router:    engine,
		config:    cfg,
		logger:    logger,
		registry:  reg,
		validator: validator.New(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.SetupRoutes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.config.Server.Port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
