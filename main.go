package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"digest_server/config"
	"digest_server/internal/bootstrap"
	"digest_server/pkg/logger"
)

func main() {
	// Initialize logger early
	logger.Init(logger.Config{
		Level:   logger.ParseLevel(os.Getenv("LOG_LEVEL")),
		Service: "inbox-digest",
	})

	// Load .env file if exists (for local development)
	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found, using environment variables")
	}

	mode := flag.String("mode", "run", "Run mode: run, daemon")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config: %v", err)
	}

	switch *mode {
	case "run":
		runOnce(cfg)
	case "daemon":
		runDaemon(cfg)
	default:
		logger.Fatal("Unknown mode: %s", *mode)
	}
}

func runOnce(cfg *config.Config) {
	ctx := context.Background()

	pipe, err := bootstrap.NewPipeline(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize pipeline: %v", err)
	}

	if _, err := pipe.Run(ctx); err != nil {
		logger.Fatal("Pipeline run interrupted: %v", err)
	}
}

func runDaemon(cfg *config.Config) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pipe, err := bootstrap.NewPipeline(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize pipeline: %v", err)
	}

	// Graceful shutdown on SIGINT/SIGTERM
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("Shutting down digest daemon...")
		cancel()
	}()

	logger.Info("Starting digest daemon (interval: %v)", cfg.RunInterval)

	ticker := time.NewTicker(cfg.RunInterval)
	defer ticker.Stop()

	for {
		if _, err := pipe.Run(ctx); err != nil {
			logger.Info("Daemon stopped: %v", err)
			return
		}
		select {
		case <-ctx.Done():
			logger.Info("Digest daemon shut down gracefully")
			return
		case <-ticker.C:
		}
	}
}
