package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aliskhannn/xueling-bot/internal/config"
)

func TestNewByEnvironment(t *testing.T) {
	tests := []struct {
		env   string
		debug bool
	}{
		{config.EnvLocal, true},
		{config.EnvDev, true},
		{config.EnvProduction, false},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			lg, err := New(&config.Config{Env: tt.env})
			require.NoError(t, err)
			assert.Equal(t, tt.debug, lg.Core().Enabled(zap.DebugLevel))
		})
	}
}

func TestNewRejectsUnknownEnvironment(t *testing.T) {
	_, err := New(&config.Config{Env: "staging"})
	assert.Error(t, err)
}
