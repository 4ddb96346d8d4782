package main

import (
	"os"

	"gamasa/config"
	"gamasa/helper"
	"gamasa/shared/logger"

	"github.com/rs/zerolog/log"
)

const (
	argLength = 2
)

func main() {
	logger.InitLogger()

	if len(os.Args) < argLength {
		log.Fatal().Msg("Migration action (up/down/drop/step-up) is required")
	}

	action := helper.Action(os.Args[1])
	if !action.Valid() {
		log.Fatal().Str("action", os.Args[1]).Msg("Invalid action. Use 'up', 'down', 'drop' or 'step-up'")
	}

	if err := helper.Runner(config.Get(), action); err != nil {
		log.Fatal().Err(err).Str("action", os.Args[1]).Msg("Migration failed")
	}

	log.Info().Str("action", os.Args[1]).Msg("Migration completed")
}
