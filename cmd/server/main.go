package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shadowsignal/internal/app"
	"shadowsignal/internal/config"
	"shadowsignal/internal/domain"
	"shadowsignal/internal/history"
	httpTransport "shadowsignal/internal/transport/http"
	"shadowsignal/internal/transport/ws"
	"shadowsignal/internal/words"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		slog.Error("failed to load .env", "error", err)
		os.Exit(1)
	}

	// Load configuration
	cfg := config.Load()

	// Set up logger
	var logger *slog.Logger
	logOpts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Logging.Level),
	}

	if cfg.Logging.Format == "json" {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, logOpts))
	} else {
		logger = slog.New(slog.NewTextHandler(os.Stdout, logOpts))
	}

	slog.SetDefault(logger)

	logger.Info("starting shadow signal server",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
	)

	content, err := words.Load(cfg.Words.File)
	if err != nil {
		logger.Error("failed to load word list", "path", cfg.Words.File, "error", err)
		os.Exit(1)
	}

	hub := ws.NewHub(logger)

	opts := []app.Option{}
	var games httpTransport.GameHistory
	if cfg.HistoryEnabled() {
		store, err := history.Open(cfg.Database.URL, history.Pool{
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetimeSeconds) * time.Second,
		})
		if err != nil {
			logger.Error("failed to open game history", "error", err)
			os.Exit(1)
		}
		defer store.Close()

		opts = append(opts, app.WithRecorder(store))
		games = store
		logger.Info("game history enabled")
	}

	controller := app.NewController(gameSettings(cfg), content, hub, logger, opts...)
	defer controller.Close()

	wsHandler := ws.NewHandler(hub, controller, ws.Limits{
		MessagesPerSecond: cfg.Limits.MessagesPerSecond,
		Burst:             cfg.Limits.Burst,
	}, logger)

	// Create HTTP server
	server := httpTransport.NewServer(cfg, controller, games, wsHandler, logger)

	// Start server in goroutine
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server stopped")
}

func gameSettings(cfg *config.Config) app.Settings {
	settings := app.DefaultSettings()
	settings.MinPlayers = cfg.Game.MinPlayers
	settings.MaxPlayers = cfg.Game.MaxPlayers
	settings.TurnTicks = cfg.Game.TurnSeconds
	settings.ResultDelay = time.Duration(cfg.Game.ResultDelaySeconds) * time.Second
	settings.RoomCodeLength = cfg.Game.RoomCodeLength
	if mode := domain.Mode(cfg.Game.DefaultMode); mode.IsValid() {
		settings.DefaultMode = mode
	}
	return settings
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
