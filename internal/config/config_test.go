package config

import (
	"testing"
	"time"

	"github.com/Sternrassler/baselinker-client/pkg/client"
	"github.com/Sternrassler/baselinker-client/pkg/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	for _, key := range []string{
		"BASELINKER_HOST", "BASELINKER_TOKEN", "BASELINKER_TIMEOUT",
		"LOG_LEVEL", "LOG_PRETTY", "REDIS_URL", "METRICS_ADDR",
		"JOURNAL_NAME", "JOURNAL_START_LOG_ID",
	} {
		t.Setenv(key, "")
	}
	// t.Setenv cannot unset; empty values are read as set.
	t.Setenv("BASELINKER_HOST", client.DefaultHost)
	t.Setenv("BASELINKER_TIMEOUT", "30s")
	t.Setenv("LOG_LEVEL", "info")
	t.Setenv("JOURNAL_NAME", "baselinker-sync")

	cfg := New()

	assert.Equal(t, client.DefaultHost, cfg.BaseLinker.Host)
	assert.Equal(t, 30*time.Second, cfg.BaseLinker.Timeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Log.Pretty)
	assert.Empty(t, cfg.Redis.URL)
	assert.Zero(t, cfg.Journal.StartLogID)

	assert.Error(t, cfg.Validate(), "token is required")
}

func TestNew_FromEnv(t *testing.T) {
	t.Setenv("BASELINKER_HOST", "http://localhost:8080/connector.php")
	t.Setenv("BASELINKER_TOKEN", "3001-abc")
	t.Setenv("BASELINKER_TIMEOUT", "5s")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_PRETTY", "true")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("METRICS_ADDR", "0.0.0.0:9100")
	t.Setenv("JOURNAL_NAME", "warehouse")
	t.Setenv("JOURNAL_START_LOG_ID", "123456")

	cfg := New()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "3001-abc", cfg.BaseLinker.Token)
	assert.Equal(t, 5*time.Second, cfg.BaseLinker.Timeout)
	assert.True(t, cfg.Log.Pretty)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
	assert.Equal(t, "warehouse", cfg.Journal.Name)
	assert.Equal(t, int64(123456), cfg.Journal.StartLogID)

	clientCfg := cfg.ClientConfig()
	assert.Equal(t, "http://localhost:8080/connector.php", clientCfg.Host)
	assert.Equal(t, "3001-abc", clientCfg.Token)
	assert.Equal(t, 5*time.Second, clientCfg.Timeout)
	assert.NoError(t, clientCfg.Validate())

	logCfg := cfg.LoggingConfig()
	assert.Equal(t, logging.LevelDebug, logCfg.Level)
	assert.True(t, logCfg.Pretty)
	assert.Equal(t, "baselinker-sync", logCfg.Service)
}

func TestNew_MalformedNumbersFallBack(t *testing.T) {
	t.Setenv("BASELINKER_TIMEOUT", "soon")
	t.Setenv("JOURNAL_START_LOG_ID", "first")
	t.Setenv("LOG_PRETTY", "maybe")

	cfg := New()

	assert.Equal(t, 30*time.Second, cfg.BaseLinker.Timeout)
	assert.Zero(t, cfg.Journal.StartLogID)
	assert.False(t, cfg.Log.Pretty)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			BaseLinker: BaseLinker{Host: client.DefaultHost, Token: "t", Timeout: time.Second},
			Log:        Log{Level: "info"},
			Metrics:    Metrics{Addr: "localhost:9090"},
			Journal:    Journal{Name: "sync"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"no metrics address", func(c *Config) { c.Metrics.Addr = "" }, false},
		{"bad host", func(c *Config) { c.BaseLinker.Host = "connector" }, true},
		{"zero timeout", func(c *Config) { c.BaseLinker.Timeout = 0 }, true},
		{"unknown log level", func(c *Config) { c.Log.Level = "verbose" }, true},
		{"empty log level", func(c *Config) { c.Log.Level = "" }, true},
		{"upper case log level", func(c *Config) { c.Log.Level = "WARN" }, false},
		{"bad redis url", func(c *Config) { c.Redis.URL = "localhost" }, true},
		{"bad metrics address", func(c *Config) { c.Metrics.Addr = "9090" }, true},
		{"negative start log id", func(c *Config) { c.Journal.StartLogID = -5 }, true},
		{"empty journal name", func(c *Config) { c.Journal.Name = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
