package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/matchpulse/matchpulse/internal/app"
	"github.com/matchpulse/matchpulse/internal/config"
	"github.com/matchpulse/matchpulse/internal/platform/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	dataDir := flag.String("data-dir", cfg.DataDir, "directory holding match cache files")
	flag.Parse()

	logger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	svc, closeRepos, err := app.NewIngestion(cfg, logger)
	if err != nil {
		logger.Error("build ingestion", "error", err)
		os.Exit(1)
	}
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result, err := svc.IngestDirectory(ctx, *dataDir)
	if closeErr := closeRepos(); closeErr != nil {
		logger.Error("close repositories", "error", closeErr)
	}
	if err != nil {
		logger.Error("ingestion run failed", "error", err)
		os.Exit(1)
	}

	for _, file := range result.Files {
		if file.Status != "failed" {
			continue
		}
		logger.Error("file failed", "file", file.File, "message", file.Message)
	}

	if result.Failed > 0 {
		os.Exit(1)
	}
}
