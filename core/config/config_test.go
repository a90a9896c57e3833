package config_test

import (
	"testing"

	"library-rental/core/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := config.LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, "library", cfg.Database.Name)
	assert.Equal(t, 6379, cfg.Cache.Port)
	assert.Equal(t, "covers", cfg.Storage.Bucket)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("CACHE_HOST", "redis.internal")
	t.Setenv("DATABASE_DRIVER", "sqlite")

	cfg, err := config.LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "redis.internal", cfg.Cache.Host)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
}
