package server

import (
	"github.com/calder-ai/relaycore/internal/server/middleware"
	v1 "github.com/calder-ai/relaycore/internal/server/v1"
)

func (s *Server) SetupRoutes() {
	s.router.Use(middleware.ErrorHandler(s.logger))

	healthHandler := v1.NewHealthHandler()
	s.router.GET("/healthz", healthHandler.Health)

	limiter := middleware.NewRateLimiter(
		s.config.RateLimit.RequestsPerSecond,
		s.config.RateLimit.Burst,
		s.logger,
	)

	staged := s.router.Group("/")
	staged.Use(limiter.Middleware())
	{
		handler := v1.NewStagingHandler(s.service)
		staged.POST("/:requestId", handler.Ingest)
		staged.GET("/:requestId/metadata", handler.Metadata)
		staged.GET("/:requestId/unsafe/read", handler.UnsafeRead)
		staged.GET("/:requestId/body-length", handler.BodyLength)
		staged.POST("/:requestId/s3/set-body", handler.SetBody)
		staged.POST("/:requestId/sign-aws", handler.SignAWS)
		staged.POST("/:requestId/s3/upload-body", handler.UploadBody)
		staged.DELETE("/:requestId", handler.Delete)
	}
}
