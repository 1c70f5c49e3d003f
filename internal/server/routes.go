package server

import (
	"github.com/nulzo/llm-provider-kit/internal/server/middleware"
	v1 "github.com/nulzo/llm-provider-kit/internal/server/v1"
)

func (s *Server) SetupRoutes() {
	s.router.Use(middleware.ErrorHandler(s.logger))

	health := v1.NewHealthHandler(s.registry)
	s.router.GET("/health", health.Health)

	limiter := middleware.NewRateLimiter(s.config.RateLimit.RequestsPerSecond, s.config.RateLimit.Burst, s.logger)

	var recorder v1.Recorder
	if s.ingestor != nil {
		recorder = s.ingestor
	}

	api := s.router.Group("/v1")
	api.Use(limiter.Middleware())
	{
		models := v1.NewModelHandler(s.registry)
		api.GET("/models", models.ListModels)

		selection := v1.NewSelectionHandler(s.registry, s.validator)
		api.GET("/selection", selection.Get)
		api.PUT("/selection", selection.Set)
		api.POST("/reload", selection.Reload)

		chat := v1.NewChatHandler(s.registry, s.validator, recorder)
		api.POST("/chat/completions", chat.CreateCompletion)

		embeddings := v1.NewEmbeddingHandler(s.registry, s.validator, recorder)
		api.POST("/embeddings", embeddings.CreateEmbeddings)

		if s.analytics != nil {
			history := v1.NewAnalyticsHandler(s.analytics)
			api.GET("/usage", history.Usage)
			api.GET("/requests", history.Requests)
			api.GET("/probes", history.Probes)
		}
	}
}
