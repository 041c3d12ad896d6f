package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/asset-depreciation/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(config.New())
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "depreciacion.db", cfg.DBPath)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:9002"}, cfg.CORSOrigins)
	assert.Equal(t, "300-M", cfg.RateLimit)
	assert.Equal(t, 30*time.Second, cfg.LockTTL)
	assert.Equal(t, time.Hour, cfg.CloseInterval)
	assert.Equal(t, 4, cfg.BatchWorkers)
	assert.Empty(t, cfg.RedisURL)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_EnvOverrides(t *testing.T) {
	// GIVEN: Environment variables for every group
	// WHEN: Loading
	// THEN: They win over the defaults

	t.Setenv("PORT", "9090")
	t.Setenv("APP_ENV", "Production")
	t.Setenv("CORS_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("DB_PATH", "/tmp/x.db")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("CLOSE_INTERVAL", "0")
	t.Setenv("BATCH_WORKERS", "16")

	cfg, err := config.Load(config.New())
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, "/tmp/x.db", cfg.DBPath)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Zero(t, cfg.CloseInterval)
	assert.Equal(t, 16, cfg.BatchWorkers)
}

func TestLoad_RejectsInvalid(t *testing.T) {
	cases := map[string][2]string{
		"port out of range": {"PORT", "70000"},
		"no workers":        {"BATCH_WORKERS", "0"},
		"negative interval": {"CLOSE_INTERVAL", "-1m"},
		"zero lock ttl":     {"LOCK_TTL", "0s"},
		"empty database":    {"DB_PATH", ""},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			v := config.New()
			v.Set(kv[0], kv[1])
			_, err := config.Load(v)
			assert.Error(t, err)
		})
	}
}
