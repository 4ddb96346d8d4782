package main

import (
	"gamasa/config"
	"gamasa/di"
	"gamasa/helper"
	"gamasa/shared/logger"

	"github.com/rs/zerolog/log"
)

// @title Gamasa Properties API
// @version 1.0
// @description Rental marketplace for Gamasa: listings, bookings, paid contact unlocks, reviews and chat.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.
func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.Configure(cfg)

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to migrate database")
		}
	}

	http := di.InitializeService()
	http.Serve()
}
