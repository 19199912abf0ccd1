// Package logger provides a zap logger preconfigured per environment.
package logger

import (
	"log"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	envLocal       = "local"
	envDevelopment = "development"
	envProduction  = "production"
)

// New builds a zap logger for the given environment. Local and development
// environments get a human-readable console encoder at debug level,
// production gets JSON at info level.
func New(env string) *zap.Logger {
	var cfg zap.Config

	switch env {
	case envLocal, envDevelopment:
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	case envProduction:
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewProductionConfig()
	}

	logger, err := cfg.Build()
	if err != nil {
		log.Fatalf("failed to build zap logger: %v", err)
	}

	return logger
}
