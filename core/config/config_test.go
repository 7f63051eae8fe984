package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailcraft/core/config"
)

type previewConfig struct {
	Dir   string `env:"MAILCRAFT_TEST_PREVIEW_DIR" envDefault:"./previews"`
	Limit int    `env:"MAILCRAFT_TEST_PREVIEW_LIMIT" envDefault:"10"`
}

type requiredConfig struct {
	Key string `env:"MAILCRAFT_TEST_REQUIRED_KEY,required"`
}

type brokenConfig struct {
	Count int `env:"MAILCRAFT_TEST_BROKEN_COUNT"`
}

// Tests in this file mutate the environment and the shared cache, so they run sequentially.

func TestLoad(t *testing.T) {
	config.Reset()
	t.Setenv("MAILCRAFT_TEST_PREVIEW_DIR", "/tmp/out")

	var cfg previewConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "/tmp/out", cfg.Dir)
	assert.Equal(t, 10, cfg.Limit)

	t.Run("cached value wins", func(t *testing.T) {
		t.Setenv("MAILCRAFT_TEST_PREVIEW_DIR", "/elsewhere")
		var again previewConfig
		require.NoError(t, config.Load(&again))
		assert.Equal(t, cfg, again)
	})
}

func TestLoadErrors(t *testing.T) {
	config.Reset()

	var req requiredConfig
	err := config.Load(&req)
	require.ErrorIs(t, err, config.ErrParsing)

	t.Setenv("MAILCRAFT_TEST_BROKEN_COUNT", "many")
	var broken brokenConfig
	require.ErrorIs(t, config.Load(&broken), config.ErrParsing)

	assert.Panics(t, func() {
		var again requiredConfig
		config.MustLoad(&again)
	})
}
