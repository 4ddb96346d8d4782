package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamasa/config"
	"gamasa/shared/constant"
	"gamasa/shared/logger"
)

func restore(t *testing.T) {
	originalLogger := log.Logger
	originalLevel := zerolog.GlobalLevel()

	t.Cleanup(func() {
		log.Logger = originalLogger
		zerolog.SetGlobalLevel(originalLevel)
	})
}

func TestInitLogger(t *testing.T) {
	restore(t)

	logger.InitLogger()

	assert.Equal(t, zerolog.TimeFormatUnix, zerolog.TimeFieldFormat)
	assert.Equal(t, zerolog.TraceLevel, zerolog.GlobalLevel())
}

func TestErrorWithStack(t *testing.T) {
	restore(t)

	var buf bytes.Buffer
	log.Logger = log.Output(&buf)

	logger.ErrorWithStack(errors.New("receipt upload failed"))

	assert.Contains(t, buf.String(), "receipt upload failed")
}

func TestSetLogLevel(t *testing.T) {
	tests := []struct {
		name     string
		logLevel string
		want     zerolog.Level
	}{
		{name: "debug", logLevel: "debug", want: zerolog.DebugLevel},
		{name: "info", logLevel: "info", want: zerolog.InfoLevel},
		{name: "error", logLevel: "error", want: zerolog.ErrorLevel},
		{name: "disabled", logLevel: "disabled", want: zerolog.Disabled},
		{name: "invalid falls back to trace", logLevel: "loud", want: zerolog.TraceLevel},
		{name: "empty is no level", logLevel: "", want: zerolog.NoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			restore(t)

			cfg := &config.Config{}
			cfg.Server.LogLevel = tt.logLevel

			logger.SetLogLevel(cfg)

			assert.Equal(t, tt.want, zerolog.GlobalLevel())
		})
	}
}

func TestConfigureOutput(t *testing.T) {
	t.Run("production writes json tagged with the app", func(t *testing.T) {
		restore(t)

		cfg := &config.Config{}
		cfg.Server.Env = constant.ServerEnvProduction
		cfg.Server.LogLevel = "info"
		cfg.App.Name = "gamasa"

		var buf bytes.Buffer
		logger.ConfigureOutput(cfg, &buf)

		log.Info().Msg("booking confirmed")

		lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
		require.Len(t, lines, 1)

		var line map[string]any
		require.NoError(t, json.Unmarshal(lines[0], &line))
		assert.Equal(t, "gamasa", line["app"])
		assert.Equal(t, "booking confirmed", line["message"])
	})

	t.Run("development keeps the current writer", func(t *testing.T) {
		restore(t)

		var console bytes.Buffer
		log.Logger = log.Output(&console)

		cfg := &config.Config{}
		cfg.Server.Env = constant.ServerEnvDevelopment
		cfg.Server.LogLevel = "debug"

		var buf bytes.Buffer
		logger.ConfigureOutput(cfg, &buf)

		log.Debug().Msg("hello")

		assert.Empty(t, buf.String())
		assert.Contains(t, console.String(), "hello")
	})
}
