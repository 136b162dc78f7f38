package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mcoot/scoretracker/internal/api"
	"github.com/mcoot/scoretracker/internal/config"
	"github.com/mcoot/scoretracker/internal/factory"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.Log.Level,
	}))
	slog.SetDefault(logger)

	// Build factory config for the selected storage
	factoryCfg := factory.Config{
		Logger:      logger,
		StorageType: cfg.Storage.Type,
	}
	switch cfg.Storage.Type {
	case factory.StorageTypeRedis:
		redisCfg := cfg.RedisStorageConfig()
		factoryCfg.RedisConfig = &redisCfg
	case factory.StorageTypeDatabase:
		dbCfg := cfg.DatabaseStorageConfig()
		factoryCfg.DatabaseConfig = &dbCfg
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Create application and restore the saved session
	app, err := factory.New(ctx, factoryCfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Warn("failed to close storage", slog.String("error", err.Error()))
		}
	}()

	router := api.NewRouter(api.RouterConfig{
		Logger:            logger,
		SessionController: app.SessionController,
		Hub:               app.Hub,
	})

	serverConfig := api.DefaultServerConfig()
	serverConfig.Host = cfg.Server.Host
	serverConfig.Port = cfg.Server.Port
	server := api.NewServer(router, serverConfig, logger)

	// Handle graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	// Bind before serving so a busy port fails fast
	if err := server.Listen(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		return
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve()
	}()

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			return
		}
	case <-ctx.Done():
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			return
		}
	}

	logger.Info("server stopped")
}
