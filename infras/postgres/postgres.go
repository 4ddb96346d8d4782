package postgres

//nolint:revive
import (
	"context"
	"net"
	"net/url"
	"time"

	"gamasa/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const driverName = "postgres"

type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

// New opens both pools and exits the process when either node stays unreachable.
func New(cfg *config.Config) *Connection {
	pg := cfg.DB.Postgres

	write, err := Connect("write", pg, pg.Write)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to write database")
	}

	read, err := Connect("read", pg, pg.Read)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to read database")
	}

	return &Connection{Read: read, Write: write}
}

// WithTransaction runs fn inside a transaction on the write connection. The transaction
// commits when fn returns nil and rolls back otherwise.
func (c *Connection) WithTransaction(ctx context.Context, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := c.Write.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()

			panic(p)
		}
	}()

	if err = fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Error().Err(rbErr).Msg("failed to rollback transaction")
		}

		return err
	}

	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "commit transaction")
	}

	return nil
}

// DSN builds the connection URL of node. The optional prefix is prepended to the database name.
func DSN(pg config.Postgres, node config.PostgresNode) string {
	query := url.Values{}
	query.Set("sslmode", node.SSLMode)

	if node.Timezone != "" {
		query.Set("timezone", node.Timezone)
	}

	dsn := url.URL{
		Scheme:   driverName,
		User:     url.UserPassword(node.Username, node.Password),
		Host:     net.JoinHostPort(node.Host, node.Port),
		Path:     "/" + pg.Prefix + node.Name,
		RawQuery: query.Encode(),
	}

	return dsn.String()
}

// Connect dials node, retrying up to MaxRetry times with RetryWaitTime seconds between attempts.
func Connect(name string, pg config.Postgres, node config.PostgresNode) (*sqlx.DB, error) {
	dsn := DSN(pg, node)
	logger := log.With().Str("name", name).Str("host", node.Host).Str("db", pg.Prefix+node.Name).Logger()

	var err error

	for attempt := 1; attempt <= max(pg.MaxRetry, 1); attempt++ {
		var db *sqlx.DB

		db, err = sqlx.Connect(driverName, dsn)
		if err == nil {
			db.SetMaxOpenConns(pg.MaxOpenConns)
			db.SetMaxIdleConns(pg.MaxIdleConns)
			db.SetConnMaxLifetime(time.Duration(pg.ConnMaxLifetimeMinutes) * time.Minute)

			logger.Info().Msg("Connected to database")

			return db, nil
		}

		logger.Error().Err(err).Int("attempt", attempt).Msg("Failed connecting to database, retrying")

		time.Sleep(time.Duration(pg.RetryWaitTime) * time.Second)
	}

	return nil, errors.Wrapf(err, "connect %s database", name)
}
