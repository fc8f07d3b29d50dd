package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "catalog-service", cfg.App.Name)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 10*time.Second, cfg.App.RequestTimeout)
	assert.Equal(t, 5*time.Minute, cfg.Catalog.FacetCacheTTL)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, []string{"*"}, cfg.App.AllowedOrigins)
	assert.Equal(t, "localhost:6379", cfg.Redis.Address())
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("APP_ALLOWED_ORIGINS", "https://shop.example, https://admin.example ,")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_SQLITE_PATH", "/tmp/catalog.db")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("CATALOG_FACET_CACHE_TTL", "30s")
	t.Setenv("CATALOG_SEED_ON_START", "false")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, []string{"https://shop.example", "https://admin.example"}, cfg.App.AllowedOrigins)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "/tmp/catalog.db", cfg.Database.SQLitePath)
	assert.True(t, cfg.Redis.Enabled)
	assert.InDelta(t, 2.5, cfg.RateLimit.RequestsPerSecond, 1e-9)
	assert.Equal(t, 30*time.Second, cfg.Catalog.FacetCacheTTL)
	assert.False(t, cfg.Catalog.SeedOnStart)
}

func TestLoadConfig_MalformedValuesFallBack(t *testing.T) {
	t.Setenv("DB_PORT", "not-a-number")
	t.Setenv("APP_REQUEST_TIMEOUT", "soon")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 10*time.Second, cfg.App.RequestTimeout)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := map[string]map[string]string{
		"unknown driver":      {"DB_DRIVER": "oracle"},
		"unknown environment": {"APP_ENV": "qa"},
		"non numeric port":    {"APP_PORT": "http"},
		"zero rate":           {"RATE_LIMIT_RPS": "0"},
		"negative timeout":    {"APP_REQUEST_TIMEOUT": "-1s"},
	}

	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid configuration")
		})
	}
}

func TestLoadConfig_DescribesFailures(t *testing.T) {
	t.Setenv("DB_DRIVER", "oracle")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Config.Database.Driver must be one of [postgres sqlite]")
}
