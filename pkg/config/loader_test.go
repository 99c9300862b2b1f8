package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuskit/notify/pkg/config"
)

type testConfig struct {
	Host    string `env:"TEST_NOTIFY_HOST" envDefault:"localhost"`
	Port    int    `env:"TEST_NOTIFY_PORT" envDefault:"8080"`
	APIKey  string `env:"TEST_NOTIFY_API_KEY"`
	Workers int    `env:"TEST_NOTIFY_WORKERS" envDefault:"4"`
}

type requiredConfig struct {
	Token string `env:"TEST_NOTIFY_REQUIRED_TOKEN,required"`
}

func TestLoad(t *testing.T) {
	t.Run("defaults applied", func(t *testing.T) {
		var cfg testConfig
		err := config.Load(&cfg)
		require.NoError(t, err)
		assert.Equal(t, "localhost", cfg.Host)
		assert.Equal(t, 8080, cfg.Port)
		assert.Equal(t, 4, cfg.Workers)
	})

	t.Run("env overrides defaults", func(t *testing.T) {
		t.Setenv("TEST_NOTIFY_HOST", "notify.example.edu")
		t.Setenv("TEST_NOTIFY_PORT", "9090")

		var cfg testConfig
		err := config.Load(&cfg)
		require.NoError(t, err)
		assert.Equal(t, "notify.example.edu", cfg.Host)
		assert.Equal(t, 9090, cfg.Port)
	})

	t.Run("nil pointer", func(t *testing.T) {
		err := config.Load[testConfig](nil)
		assert.ErrorIs(t, err, config.ErrNilPointer)
	})

	t.Run("missing required variable", func(t *testing.T) {
		var cfg requiredConfig
		err := config.Load(&cfg)
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})

	t.Run("invalid value type", func(t *testing.T) {
		t.Setenv("TEST_NOTIFY_PORT", "not-a-number")

		var cfg testConfig
		err := config.Load(&cfg)
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})
}

func TestMustLoad(t *testing.T) {
	t.Run("panics on failure", func(t *testing.T) {
		assert.Panics(t, func() {
			var cfg requiredConfig
			config.MustLoad(&cfg)
		})
	})

	t.Run("succeeds with defaults", func(t *testing.T) {
		assert.NotPanics(t, func() {
			var cfg testConfig
			config.MustLoad(&cfg)
		})
	})
}
