package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_NivelDeLogPorDefecto(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.App.LogLevel)
}

func TestLoad_NivelDeLogDesdeEntorno(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.App.LogLevel)
}

func TestLoad_ProductosDesdeEntorno(t *testing.T) {
	t.Setenv("PRODUCTOS_BASE_URL", "http://localhost:9090")
	t.Setenv("PRODUCTOS_MAX_RETRIES", "5")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9090", cfg.Productos.BaseURL)
	assert.Equal(t, 5, cfg.Productos.MaxRetries)
}
