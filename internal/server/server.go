package server

import (
	"net/http"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/calder-ai/relaycore/internal/config"
	"github.com/calder-ai/relaycore/internal/server/middleware"
	"github.com/calder-ai/relaycore/internal/staging"
)

const serviceName = "relaycore-staging"

type Server struct {
	router  *gin.Engine
	config  *config.Config
	logger  *zap.Logger
	service *staging.Service
}

func New(cfg *config.Config, logger *zap.Logger, service *staging.Service) *Server {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	engine.Use(ginzap.Ginzap(logger, time.RFC3339, true))
	engine.Use(ginzap.RecoveryWithZap(logger, true))
	engine.Use(otelgin.Middleware(serviceName))
	engine.Use(middleware.RequestID())

	s := &Server{
		router:  engine,
		config:  cfg,
		logger:  logger,
		service: service,
	}

	s.SetupRoutes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}
