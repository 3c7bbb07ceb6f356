package main

import (
	"os"

	"NewsRoundup/internal/app"
	"NewsRoundup/internal/config"
	"NewsRoundup/internal/logging"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)

	application := app.New(cfg, logger)

	if err := newRootCommand(application, logger).Execute(); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}
