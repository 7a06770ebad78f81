package logger

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/aliskhannn/xueling-bot/internal/config"
)

// New builds the logger of cfg.Env: JSON at info level in production,
// console output at debug level for local and dev runs.
func New(cfg *config.Config) (*zap.Logger, error) {
	switch cfg.Env {
	case config.EnvProduction:
		return zap.NewProduction()
	case config.EnvLocal, config.EnvDev:
		return zap.NewDevelopment()
	default:
		return nil, fmt.Errorf("unknown environment %q", cfg.Env)
	}
}
