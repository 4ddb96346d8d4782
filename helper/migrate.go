package helper

//nolint:revive
import (
	"errors"
	"fmt"
	"net/url"

	"gamasa/config"
	"gamasa/infras/postgres"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"
)

const migrationsSource = "file://migrations/postgres"

type Action string

const (
	ActionUp     Action = "up"
	ActionDown   Action = "down"
	ActionStepUp Action = "step-up"
	ActionDrop   Action = "drop"
)

var ErrUnknownAction = errors.New("unknown migration action")

// ConnectionString targets the write node and adds the migrations table option when set.
func ConnectionString(cfg *config.Config) string {
	dsn := postgres.DSN(cfg.DB.Postgres, cfg.DB.Postgres.Write)

	if cfg.DB.Postgres.MigrationTable == "" {
		return dsn
	}

	return dsn + "&x-migrations-table=" + url.QueryEscape(cfg.DB.Postgres.MigrationTable)
}

func open(cfg *config.Config) (*migrate.Migrate, error) {
	mig, err := migrate.New(migrationsSource, ConnectionString(cfg))
	if err != nil {
		return nil, fmt.Errorf("error creating migrate instance: %w", err)
	}

	return mig, nil
}

func (a Action) Valid() bool {
	switch a {
	case ActionUp, ActionDown, ActionStepUp, ActionDrop:
		return true
	default:
		return false
	}
}

func Runner(cfg *config.Config, action Action) error {
	if !action.Valid() {
		return fmt.Errorf("%w: %s", ErrUnknownAction, action)
	}

	mig, err := open(cfg)
	if err != nil {
		return err
	}

	defer mig.Close()

	switch action {
	case ActionUp:
		err = mig.Up()
	case ActionDown:
		err = mig.Steps(-1)
	case ActionStepUp:
		err = mig.Steps(1)
	case ActionDrop:
		err = mig.Down()
	}

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("error running %s migration: %w", action, err)
	}

	version, dirty, versionErr := mig.Version()
	if versionErr != nil && !errors.Is(versionErr, migrate.ErrNilVersion) {
		return fmt.Errorf("error reading migration version: %w", versionErr)
	}

	log.Info().
		Str("action", string(action)).
		Uint("version", version).
		Bool("dirty", dirty).
		Msg("Database migration finished")

	return nil
}

func Up(cfg *config.Config) error {
	return Runner(cfg, ActionUp)
}
