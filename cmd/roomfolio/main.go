// Package main is the entry point for the portfolio viewer.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/roomfolio/internal/config"
	"github.com/Faultbox/roomfolio/internal/logger"
	"github.com/Faultbox/roomfolio/internal/site"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Roomfolio ===",
		zap.String("start_page", cfg.Site.StartPage),
		zap.String("assets", cfg.Assets.Root),
	)
	logger.Sugar.Debugf("Config: %+v", cfg)

	app, err := site.New(cfg)
	if err != nil {
		logger.Error("failed to start", zap.Error(err))
		os.Exit(1)
	}
	defer app.Close()

	if err := app.Run(); err != nil {
		logger.Error("site error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("closed normally")
}
