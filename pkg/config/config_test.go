package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StoragePostgres, cfg.Storage.Driver)
	assert.True(t, cfg.Audit.Strict)
	assert.True(t, cfg.Reconcile.Enabled)
	assert.Equal(t, "@every 15m", cfg.Reconcile.Cron)
	assert.Equal(t, 100, cfg.Reconcile.BatchSize)
	assert.Empty(t, cfg.Telemetry.Endpoint)
	assert.Empty(t, cfg.DB.SchemaFile)
}

func TestLoad_LeeVariablesDeEntorno(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "MEMORY")
	t.Setenv("AUDIT_STRICT", "false")
	t.Setenv("RECONCILE_ENABLED", "0")
	t.Setenv("RECONCILE_CRON", "@every 1m")
	t.Setenv("RECONCILE_BATCH_SIZE", "25")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DB_SCHEMA_FILE", "migrations/0001_init.sql")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StorageMemory, cfg.Storage.Driver)
	assert.False(t, cfg.Audit.Strict)
	assert.False(t, cfg.Reconcile.Enabled)
	assert.Equal(t, "@every 1m", cfg.Reconcile.Cron)
	assert.Equal(t, 25, cfg.Reconcile.BatchSize)
	assert.Equal(t, "0.0.0.0:9090", cfg.HTTP.Addr())
	assert.Equal(t, "migrations/0001_init.sql", cfg.DB.SchemaFile)
}

func TestLoad_BoolInvalidoUsaDefecto(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("AUDIT_STRICT", "quizás")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.Audit.Strict)
}

func TestLoad_DriverDesconocido(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "sqlite")
	_, err := Load()
	require.Error(t, err)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "inv", Password: "p@ss:w", DBName: "scan", SSLMode: "disable"}
	assert.Equal(t, "postgres://inv:p%40ss%3Aw@db:5432/scan?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", c.ConnectionString())
}
