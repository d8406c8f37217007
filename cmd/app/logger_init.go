package main

import (
	"github.com/avragame/aura-engine/internal/config"
	"github.com/avragame/aura-engine/internal/logger"
)

// initLogger initializes the logger using centralized app configuration
func initLogger(cfg *config.Config) {
	logger.Init(logger.Config{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		ServiceName: "aura-engine",
		Environment: cfg.Environment,
	})
}
