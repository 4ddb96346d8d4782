package logger

import (
	"io"
	"os"
	"time"

	"gamasa/config"
	"gamasa/shared/constant"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger installs a console logger at trace level. Configure narrows it once the
// config is loaded.
func InitLogger() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	log.Trace().Msg("Zerolog initialized.")
}

// Configure applies the configured level. Outside development the output switches to
// JSON lines tagged with the app name.
func Configure(cfg *config.Config) {
	ConfigureOutput(cfg, os.Stdout)
}

func ConfigureOutput(cfg *config.Config, out io.Writer) {
	if cfg.Server.Env != constant.Empty && cfg.Server.Env != constant.ServerEnvDevelopment {
		log.Logger = zerolog.New(out).With().
			Timestamp().
			Str("app", cfg.App.Name).
			Str("env", cfg.Server.Env).
			Logger()
	}

	SetLogLevel(cfg)
}

func ErrorWithStack(err error) {
	log.Error().Msgf("%+v", errors.WithStack(err))
}

// SetLogLevel falls back to trace when the level cannot be parsed. The level is applied
// before anything is logged, so the confirmation only shows at trace.
func SetLogLevel(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		level = zerolog.TraceLevel
	}

	zerolog.SetGlobalLevel(level)

	if err != nil {
		log.Trace().Str("loglevel", level.String()).Msg("Environment has no log level set up, using default.")

		return
	}

	log.Trace().Str("loglevel", level.String()).Msg("Desired log level detected.")
}
