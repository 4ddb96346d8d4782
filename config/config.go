// Package config loads the service settings from the environment, after an optional .env file.
package config

import (
	"sync"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const envFile = ".env"

type PostgresNode struct {
	Host     string `envconfig:"HOST"     default:"localhost"`
	Port     string `envconfig:"PORT"     default:"5432"`
	Username string `envconfig:"USER"`
	Password string `envconfig:"PASSWORD"`
	Name     string `envconfig:"NAME"`
	Timezone string `envconfig:"TIMEZONE"`
	SSLMode  string `envconfig:"SSL_MODE" default:"disable"`
}

type Postgres struct {
	MaxRetry               int    `envconfig:"MAX_RETRY"                 default:"3"`
	RetryWaitTime          int    `envconfig:"RETRY_WAIT_TIME"           default:"2"`
	MaxOpenConns           int    `envconfig:"MAX_OPEN_CONNS"            default:"10"`
	MaxIdleConns           int    `envconfig:"MAX_IDLE_CONNS"            default:"10"`
	ConnMaxLifetimeMinutes int    `envconfig:"CONN_MAX_LIFETIME_MINUTES" default:"30"`
	MigrationTable         string `envconfig:"MIGRATION_TABLE"`
	AutoMigrate            bool   `envconfig:"AUTO_MIGRATE"`
	Prefix                 string `envconfig:"PREFIX"`

	Read  PostgresNode `envconfig:"READ"`
	Write PostgresNode `envconfig:"WRITE"`
}

type Redis struct {
	Host     string `envconfig:"HOST"      default:"localhost"`
	Port     string `envconfig:"PORT"      default:"6379"`
	Password string `envconfig:"PASSWORD"`
	DB       int    `envconfig:"DB"`
	PoolSize int    `envconfig:"POOL_SIZE" default:"20"`
}

type Config struct {
	Server struct {
		Env      string `envconfig:"ENV"       default:"development"`
		LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
		Port     string `envconfig:"PORT"      default:"8080"`
		Host     string `envconfig:"HOST"`
		Shutdown struct {
			CleanupPeriodSeconds int64 `envconfig:"CLEANUP_PERIOD_SECONDS" default:"10"`
			GracePeriodSeconds   int64 `envconfig:"GRACE_PERIOD_SECONDS"   default:"5"`
		} `envconfig:"SHUTDOWN"`
	} `envconfig:"SERVER"`

	App struct {
		Name     string `envconfig:"APP_NAME" default:"gamasa"`
		Timezone string `envconfig:"TIMEZONE" default:"Africa/Cairo"`
		CORS     struct {
			AllowCredentials bool     `envconfig:"ALLOW_CREDENTIALS"`
			AllowedHeaders   []string `envconfig:"ALLOWED_HEADERS"`
			AllowedMethods   []string `envconfig:"ALLOWED_METHODS"`
			AllowedOrigins   []string `envconfig:"ALLOWED_ORIGINS"`
			Enable           bool     `envconfig:"ENABLE"`
			MaxAgeSeconds    int      `envconfig:"MAX_AGE_SECONDS"`
		} `envconfig:"CORS"`
		RateLimiter struct {
			Enable        bool `envconfig:"ENABLE"`
			MaxRequests   int  `envconfig:"MAX_REQUESTS"   default:"120"`
			WindowSeconds int  `envconfig:"WINDOW_SECONDS" default:"60"`
		} `envconfig:"RATE_LIMITER"`
		APIKey string `envconfig:"API_KEY"`
	} `envconfig:"APP"`

	Cache struct {
		Redis struct {
			Primary Redis `envconfig:"PRIMARY"`
		} `envconfig:"REDIS"`
		TTL int `envconfig:"TTL" default:"300"`
	} `envconfig:"CACHE"`

	JWT struct {
		AccessSecret     string `envconfig:"ACCESS_SECRET"`
		RefreshSecret    string `envconfig:"REFRESH_SECRET"`
		AccessExpireMin  int    `envconfig:"ACCESS_EXPIRE_MIN"  default:"60"`
		RefreshExpireMin int    `envconfig:"REFRESH_EXPIRE_MIN" default:"43200"`
	} `envconfig:"JWT"`

	DB struct {
		Postgres Postgres `envconfig:"POSTGRES"`
	} `envconfig:"DB"`

	Kafka struct {
		Brokers       []string `envconfig:"BROKERS"`
		ConsumerGroup string   `envconfig:"CONSUMER_GROUP" default:"gamasa-worker"`
		SASL          struct {
			Username string `envconfig:"USERNAME"`
			Password string `envconfig:"PASSWORD"`
		} `envconfig:"SASL"`
		Topic struct {
			Notification string `envconfig:"NOTIFICATION" default:"gamasa.notifications"`
		} `envconfig:"TOPIC"`
	} `envconfig:"KAFKA"`

	Marketplace struct {
		UnlockFee        float64 `envconfig:"UNLOCK_FEE"          default:"50"`
		MinPaymentAmount float64 `envconfig:"MIN_PAYMENT_AMOUNT"  default:"50"`
		ReceiptMaxSizeMB int     `envconfig:"RECEIPT_MAX_SIZE_MB" default:"5"`
	} `envconfig:"MARKETPLACE"`

	Chat struct {
		TypingTTLSeconds   int     `envconfig:"TYPING_TTL_SECONDS"`
		PresenceTTLSeconds int     `envconfig:"PRESENCE_TTL_SECONDS"`
		EventsPerSecond    float64 `envconfig:"EVENTS_PER_SECOND"`
		EventsBurst        int     `envconfig:"EVENTS_BURST"`
		MaxMessageLength   int     `envconfig:"MAX_MESSAGE_LENGTH"`
	} `envconfig:"CHAT"`

	External struct {
		Otel struct {
			Endpoint string `envconfig:"ENDPOINT"`
		} `envconfig:"OTEL"`
		S3 struct {
			APIEndpoint     string `envconfig:"API_ENDPOINT"`
			AccessKeyID     string `envconfig:"ACCESS_KEY_ID"`
			SecretAccessKey string `envconfig:"SECRET_ACCESS_KEY"`
			BucketName      string `envconfig:"BUCKET_NAME"`
			PublicDomain    string `envconfig:"PUBLIC_DOMAIN"`
			Region          string `envconfig:"REGION" default:"auto"`
		} `envconfig:"S3"`
		Firebase struct {
			Enable          bool   `envconfig:"ENABLE"`
			CredentialsFile string `envconfig:"CREDENTIALS_FILE"`
		} `envconfig:"FIREBASE"`
	} `envconfig:"EXTERNAL"`
}

var (
	conf    *Config
	loadErr error
	once    sync.Once
)

// Load reads the optional env files into the process environment and decodes it.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil {
		log.Warn().Err(err).Msg("Could not load env file, continuing with existing environment variables")
	}

	cfg := new(Config)

	if err := envconfig.Process("", cfg); err != nil {
		return nil, errors.Wrap(err, "process environment variables")
	}

	return cfg, nil
}

// Get returns the process wide configuration, loading it on first use.
func Get() *Config {
	once.Do(func() {
		conf, loadErr = Load(envFile)
		if loadErr == nil {
			log.Info().Str("env", conf.Server.Env).Msg("Service configuration initialized")
		}
	})

	if loadErr != nil {
		log.Fatal().Err(loadErr).Msg("Failed to initialize configuration")
	}

	return conf
}
