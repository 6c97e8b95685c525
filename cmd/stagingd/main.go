package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/calder-ai/relaycore/internal/config"
	"github.com/calder-ai/relaycore/internal/platform/logger"
	"github.com/calder-ai/relaycore/internal/platform/otel"
	"github.com/calder-ai/relaycore/internal/server"
	"github.com/calder-ai/relaycore/internal/staging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Initialize(logger.DefaultConfig())
		logger.Get().Fatal("failed to load configuration", zap.Error(err))
	}

	logger.Initialize(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	log := logger.Get()
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Tracing.Enabled {
		shutdown, err := otel.InitTracer("relaycore-staging", log, os.Stdout)
		if err != nil {
			log.Fatal("failed to initialize tracing", zap.Error(err))
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				log.Warn("tracer shutdown failed", zap.Error(err))
			}
		}()
	}

	var store staging.Store
	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			log.Fatal("redis unreachable", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		}
		store = staging.NewRedisStore(client)
		log.Info("using redis staged-entry store", zap.String("addr", cfg.Redis.Addr))
	} else {
		memStore := staging.NewMemoryStore(log)
		memStore.StartSweeper(ctx, cfg.Staging.SweepInterval())
		store = memStore
		log.Info("using in-memory staged-entry store",
			zap.Duration("ttl", cfg.Staging.TTL()),
			zap.Duration("sweep_interval", cfg.Staging.SweepInterval()),
		)
	}

	service := staging.NewService(store, staging.Options{
		MaxBodyBytes:      cfg.Staging.MaxBodyBytes,
		TTL:               cfg.Staging.TTL(),
		UnsafeReadEnabled: cfg.Staging.UnsafeReadEnabled,
		UpstreamTimeout:   cfg.Staging.UpstreamTimeout(),
		Logger:            log,
	})

	srv := server.New(cfg, log, service)
	httpServer := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: srv.Handler(),
	}

	go func() {
		log.Info("staging service listening", zap.String("port", cfg.Server.Port))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}
