package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the process logger. dev/test environments get the console
// development encoder; everything else logs JSON. LOG_LEVEL overrides the
// preset's default level.
func New(env string) *zap.Logger {
	var cfg zap.Config
	switch env {
	case "dev", "development", "test":
		cfg = zap.NewDevelopmentConfig()
	default:
		cfg = zap.NewProductionConfig()
	}
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		if parsed, err := zapcore.ParseLevel(lvl); err == nil {
			cfg.Level = zap.NewAtomicLevelAt(parsed)
		}
	}
	logger, err := cfg.Build()
	if err != nil {
		// Build only fails on bad sink paths; presets never carry those.
		return zap.NewNop()
	}
	return logger
}
