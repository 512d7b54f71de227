package main

import (
	"github.com/FightFi/Sportsbook/internal/config"
	"github.com/FightFi/Sportsbook/internal/logger"
)

// initLogger initializes the logger using centralized app configuration
func initLogger(cfg *config.Config) {
	// Source locations are only worth the noise in dev
	addSource := cfg.Environment == logger.EnvironmentDev || cfg.Environment == "development"

	loggerConfig := logger.NewConfig(
		cfg.LogLevel,
		cfg.LogFormat,
		logger.DefaultServiceName,
		cfg.Version,
		cfg.Environment,
		addSource,
	)

	logger.InitLogger(loggerConfig)
}
