// Package config reads the baselinker-sync configuration from the environment.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/Sternrassler/baselinker-client/pkg/client"
	"github.com/Sternrassler/baselinker-client/pkg/logging"
	"github.com/go-playground/validator/v10"
)

// Config is the complete baselinker-sync configuration.
type Config struct {
	BaseLinker BaseLinker `validate:"required"`
	Log        Log
	Redis      Redis
	Metrics    Metrics
	Journal    Journal
}

// BaseLinker holds the API endpoint and credentials.
type BaseLinker struct {
	Host    string        `validate:"required,url"`
	Token   string        `validate:"required"`
	Timeout time.Duration `validate:"gt=0"`
}

// Log holds logger settings. Level is checked by logging.ValidateLevel.
type Log struct {
	Level  string `validate:"required"`
	Pretty bool
}

// Redis holds the journal cursor store connection.
type Redis struct {
	// URL is optional; without it journal cursors live in memory.
	URL string `validate:"omitempty,url"`
}

// Metrics holds the status server address. Empty disables the server.
type Metrics struct {
	Addr string `validate:"omitempty,hostname_port"`
}

// Journal identifies the journal follower and its starting point.
type Journal struct {
	Name       string `validate:"required"`
	StartLogID int64  `validate:"gte=0"`
}

// New reads the configuration from the environment, using defaults for
// unset variables.
func New() Config {
	return Config{
		BaseLinker: BaseLinker{
			Host:    env("BASELINKER_HOST", client.DefaultHost),
			Token:   env("BASELINKER_TOKEN", ""),
			Timeout: envDuration("BASELINKER_TIMEOUT", 30*time.Second),
		},

		Log: Log{
			Level:  env("LOG_LEVEL", "info"),
			Pretty: envBool("LOG_PRETTY", false),
		},

		Redis: Redis{
			URL: env("REDIS_URL", ""),
		},

		Metrics: Metrics{
			Addr: env("METRICS_ADDR", "localhost:9090"),
		},

		Journal: Journal{
			Name:       env("JOURNAL_NAME", "baselinker-sync"),
			StartLogID: envInt64("JOURNAL_START_LOG_ID", 0),
		},
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return err
	}
	return logging.ValidateLevel(logging.LogLevel(c.Log.Level))
}

// ClientConfig returns the client configuration.
func (c Config) ClientConfig() client.Config {
	cfg := client.DefaultConfig(c.BaseLinker.Host, c.BaseLinker.Token)
	cfg.Timeout = c.BaseLinker.Timeout
	return cfg
}

// LoggingConfig returns the logger configuration.
func (c Config) LoggingConfig() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = logging.LogLevel(c.Log.Level)
	cfg.Pretty = c.Log.Pretty
	cfg.Service = "baselinker-sync"
	return cfg
}

func env(key string, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if value, ok := os.LookupEnv(key); ok {
		i, err := strconv.ParseInt(value, 10, 64)
		if err == nil {
			return i
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		b, err := strconv.ParseBool(value)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		d, err := time.ParseDuration(value)
		if err == nil {
			return d
		}
	}
	return fallback
}
