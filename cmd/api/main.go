package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"roomMakerAi/internal/bootstrap"
	"roomMakerAi/internal/config"
	"roomMakerAi/internal/events"
	"roomMakerAi/internal/logging"
	"roomMakerAi/internal/server"
	"roomMakerAi/internal/session"
)

func main() {
	cfg, err := config.Load(configPath())
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	components, err := bootstrap.Build(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to wire providers", zap.Error(err))
	}

	studio := session.NewStudio(components.Orchestrator,
		session.WithUploader(components.Uploader),
		session.WithBroker(events.NewBroker()),
		session.WithLogger(logger.Named("session")),
	)

	srv := server.New(server.Options{
		Port:           cfg.Port,
		StaticDir:      cfg.StaticDir,
		RatePerMinute:  cfg.RateLimit.PerMinute,
		RateBurst:      cfg.RateLimit.Burst,
		GenerateWindow: cfg.AI.Timeout,
		Logger:         logger,
	}, session.Handler{Studio: studio, Logger: logger.Named("http")})

	go func() {
		<-ctx.Done()
		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("server shutdown error", zap.Error(err))
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server failed", zap.Error(err))
	}
}

func configPath() string {
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		return path
	}
	return "config.json"
}
