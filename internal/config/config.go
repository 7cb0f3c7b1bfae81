// Package config loads process settings from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
)

const (
	EnvironmentDevelopment = "development"

	StoreRedis  = "redis"
	StoreBadger = "badger"
)

// Config holds every setting of the server
type Config struct {
	ListenAddr  string `env:"LISTEN_ADDR,default=:8080"`
	LogLevel    string `env:"LOG_LEVEL,default=INFO"`
	Environment string `env:"ENVIRONMENT,default=production"`

	StoreBackend  string `env:"STORE_BACKEND,default=redis"`
	RedisAddr     string `env:"REDIS_ADDR,default=localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB,default=0"`
	BadgerPath    string `env:"BADGER_PATH,default=data/badger"`

	JWTSecret      string        `env:"JWT_SECRET,required=true"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT,default=5s"`

	PersistenceTimeout   time.Duration `env:"PERSISTENCE_TIMEOUT,default=5s"`
	PersistenceQueueSize int           `env:"PERSISTENCE_QUEUE_SIZE,default=256"`

	TicketCount        int           `env:"DEFAULT_TICKET_COUNT,default=5"`
	RoundLength        time.Duration `env:"DEFAULT_ROUND_LENGTH,default=30s"`
	RoundInterimLength time.Duration `env:"DEFAULT_ROUND_INTERIM_LENGTH,default=5s"`
}

// Load reads an optional .env file, then the process environment
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Parse builds a config from an explicit set of variables
func Parse(vars map[string]string) (*Config, error) {
	var cfg Config
	if err := env.Unmarshal(env.EnvSet(vars), &cfg); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks values the tags cannot express
func (c *Config) Validate() error {
	var errs []error

	if c.StoreBackend != StoreRedis && c.StoreBackend != StoreBadger {
		errs = append(errs, fmt.Errorf("STORE_BACKEND must be %q or %q, got %q", StoreRedis, StoreBadger, c.StoreBackend))
	}

	if c.TicketCount <= 0 {
		errs = append(errs, errors.New("DEFAULT_TICKET_COUNT must be positive"))
	}

	if c.RoundLength <= 0 {
		errs = append(errs, errors.New("DEFAULT_ROUND_LENGTH must be positive"))
	}

	if c.RoundInterimLength < 0 {
		errs = append(errs, errors.New("DEFAULT_ROUND_INTERIM_LENGTH cannot be negative"))
	}

	return errors.Join(errs...)
}

// AllowDevActions reports whether administrative actions are enabled
func (c *Config) AllowDevActions() bool {
	return c.Environment == EnvironmentDevelopment
}
