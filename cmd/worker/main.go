package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"gamasa/config"
	"gamasa/di"
	"gamasa/shared/logger"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.Configure(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	worker := di.InitializeWorker()
	worker.Listen(ctx)

	log.Info().Msg("Notification worker stopped.")
}
