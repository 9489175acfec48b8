package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"fintrack/internal/backend"
	"fintrack/internal/config"
	"fintrack/internal/log"
	"fintrack/internal/services"
)

func main() {
	// Load .env for local development; absent in production is fine.
	_ = godotenv.Load()

	cfg := config.Load()
	logger := log.New(log.Config{
		Level:     log.ParseLevel(cfg.LogLevel),
		Component: "recurring-worker",
	})
	log.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := backend.NewFactory(logger).Create(ctx, cfg)
	if err != nil {
		logger.Error("Failed to initialize data backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer st.Close()

	processor := services.NewRecurringProcessor(st, logger)

	logger.Info("Recurring processor started",
		"interval", cfg.RecurringInterval,
		"backend", cfg.DataBackend,
		"user", cfg.DefaultUserID)

	if err := processor.Run(ctx, cfg.DefaultUserID, cfg.RecurringInterval); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Recurring processor stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Recurring processor stopped gracefully")
}
