// Package logging configures zerolog for the BaseLinker client and its tools.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogLevel represents the logging level.
type LogLevel string

const (
	// LevelDebug logs every request with its parameters.
	LevelDebug LogLevel = "debug"

	// LevelInfo logs journal progress and service lifecycle.
	LevelInfo LogLevel = "info"

	// LevelWarn logs rejected requests and undecodable responses.
	LevelWarn LogLevel = "warn"

	// LevelError logs transport failures only.
	LevelError LogLevel = "error"

	// LevelDisabled turns logging off.
	LevelDisabled LogLevel = "disabled"
)

// Config holds logger configuration.
type Config struct {
	// Level is the minimum log level to output.
	Level LogLevel

	// Pretty enables human-readable console output instead of JSON.
	Pretty bool

	// Output defaults to os.Stderr. Stdout is left to command output.
	Output io.Writer

	// Service is added to every entry when set.
	Service string
}

// DefaultConfig returns a default logger configuration.
func DefaultConfig() Config {
	return Config{
		Level:  LevelInfo,
		Output: os.Stderr,
	}
}

// Setup configures the global zerolog logger and returns it.
func Setup(cfg Config) zerolog.Logger {
	zerolog.SetGlobalLevel(parseLevel(cfg.Level))

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{Out: output, TimeFormat: "15:04:05"}
	}

	ctx := zerolog.New(output).With().Timestamp()
	if cfg.Service != "" {
		ctx = ctx.Str("service", cfg.Service)
	}
	logger := ctx.Logger()

	log.Logger = logger
	return logger
}

// ValidateLevel reports whether level is one Setup understands.
func ValidateLevel(level LogLevel) error {
	switch strings.ToLower(string(level)) {
	case "debug", "info", "warn", "warning", "error", "disabled":
		return nil
	default:
		return fmt.Errorf("unknown log level %q", level)
	}
}

// parseLevel converts LogLevel to zerolog.Level. Unknown levels mean info.
func parseLevel(level LogLevel) zerolog.Level {
	switch strings.ToLower(string(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// NewLogger creates a logger tagged with the given component name.
func NewLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

// Log Level Guidelines:
//
// Debug: request flow
//   - method and encoded parameters before each call
//   - status, size and duration after each call
//   - pages fetched during pagination, empty journal polls
//
// Info: progress
//   - journal cursor advanced
//   - sync command start, finish and item counts
//   - metrics server startup/shutdown
//
// Warn: the API answered but the call failed
//   - non-200 responses (with error_class and error_code)
//   - responses that could not be decoded
//
// Error: no usable answer
//   - transport failures, timeouts, cancellation
//   - journal polls that failed
//   - configuration errors
//
// Context Fields:
//   - component: baselinker-client, journal-follower, baselinker-sync
//   - method: API method name (getOrders, getJournalList)
//   - status: HTTP status code
//   - error_class: client, server, redirect, unexpected, network, api
//   - error_code: error_code reported by the API
//   - page, page_size, total: pagination progress
//   - follower, last_log_id: journal follower state
