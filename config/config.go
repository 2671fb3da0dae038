package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	StorageInMemory = "inmemory"
	StoragePostgres = "postgres"
)

type Config struct {
	Postgres    PostgresConfig
	HTTP        HTTPConfig
	Session     SessionConfig
	StorageType string `env:"STORAGE_TYPE" env-default:"inmemory"`
	PostsOnPage int    `env:"POSTS_ON_PAGE" env-default:"10"`
	LogLevel    string `env:"LOG_LEVEL" env-default:"info"`
}

type PostgresConfig struct {
	User     string `env:"POSTGRES_USER" env-default:"postgres"`
	Password string `env:"POSTGRES_PASSWORD" env-default:"postgres"`
	DB       string `env:"POSTGRES_DB" env-default:"yatube"`
	Host     string `env:"POSTGRES_HOST" env-default:"localhost"`
	Port     int    `env:"POSTGRES_PORT" env-default:"5432"`
	SSLMode  string `env:"POSTGRES_SSLMODE" env-default:"disable"`
	Migrate  bool   `env:"POSTGRES_MIGRATE" env-default:"true"`
}

// GetDSN builds a postgres URL with user and password escaped.
func (pc PostgresConfig) GetDSN() string {
	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(pc.User, pc.Password),
		Host:     net.JoinHostPort(pc.Host, strconv.Itoa(pc.Port)),
		Path:     "/" + pc.DB,
		RawQuery: url.Values{"sslmode": {pc.SSLMode}}.Encode(),
	}
	return dsn.String()
}

type HTTPConfig struct {
	Port            string        `env:"HTTP_PORT" env-default:"8000"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

type SessionConfig struct {
	Secret string `env:"SESSION_SECRET" env-required:"true"`
	Secure bool   `env:"SESSION_SECURE" env-default:"false"`
}

// MinSessionSecretLength is the shortest secret the cookie store accepts.
const MinSessionSecretLength = 32

// LoadConfig reads the environment, after overlaying envFile when it exists.
func LoadConfig(envFile string) (Config, error) {
	var cfg Config

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return cfg, fmt.Errorf("godotenv.Load: %w", err)
		}
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return cfg, fmt.Errorf("cleanenv.ReadEnv: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.StorageType {
	case StorageInMemory, StoragePostgres:
	default:
		return fmt.Errorf("unknown STORAGE_TYPE %q", c.StorageType)
	}
	if c.PostsOnPage <= 0 {
		return fmt.Errorf("POSTS_ON_PAGE must be > 0, got %d", c.PostsOnPage)
	}
	if len(c.Session.Secret) < MinSessionSecretLength {
		return fmt.Errorf("SESSION_SECRET must be at least %d bytes", MinSessionSecretLength)
	}
	return nil
}
