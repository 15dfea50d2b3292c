package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/returns-api/pkg/config"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, config.StoreDriverPostgres, cfg.Store.Driver)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.True(t, cfg.DB.MigrateOnStart)
	assert.Equal(t, 24*time.Hour, cfg.Redis.IdempotencyTTL)
	assert.Empty(t, cfg.Redis.Addr)
}

func TestLoad_EnvTienePrioridad(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("STORE_DRIVER", "Memory")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("MIGRATE_ON_START", "false")
	t.Setenv("REDIS_IDEMPOTENCY_TTL", "15m")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, config.StoreDriverMemory, cfg.Store.Driver)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 2.5, cfg.RateLimit.RPS)
	assert.False(t, cfg.DB.MigrateOnStart)
	assert.Equal(t, 15*time.Minute, cfg.Redis.IdempotencyTTL)
}

func TestLoad_Invalida(t *testing.T) {
	cases := map[string]map[string]string{
		"driver desconocido":          {"STORE_DRIVER": "mongo"},
		"secreto vacío en producción": {"APP_ENV": "production", "JWT_SECRET": ""},
		"puerto fuera de rango":       {"HTTP_PORT": "70000"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			chdir(t, t.TempDir())
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := config.Load()
			assert.Error(t, err)
		})
	}
}

func TestDBConfig_DSN(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss", DBName: "returns", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss@db:5432/returns?sslmode=disable", c.DSN())

	c.DatabaseURL = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", c.ConnectionString())
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
