package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"HTTP_ADDRESS", "STORAGE_BACKEND", "SQLITE_PATH", "STORAGE_KEY", "MAP_ZOOM", "TIMEZONE", "SHUTDOWN_TIMEOUT", "ALLOWED_ORIGINS"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	require.Equal(t, ":8080", cfg.HTTPAddress)
	require.Equal(t, BackendSQLite, cfg.StorageBackend)
	require.Equal(t, "./mapty.db", cfg.SQLitePath)
	require.Equal(t, "workouts", cfg.StorageKey)
	require.Equal(t, 13, cfg.MapZoom)
	require.Equal(t, 15*time.Second, cfg.ShutdownTimeout)
	require.Empty(t, cfg.AllowedOrigins)
	require.NoError(t, cfg.Validate())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "Postgres")
	t.Setenv("MAP_ZOOM", "15")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")
	t.Setenv("ALLOWED_ORIGINS", " http://a.test , ,http://b.test")
	t.Setenv("TIMEZONE", "UTC")

	cfg := Load()
	require.Equal(t, BackendPostgres, cfg.StorageBackend)
	require.Equal(t, 15, cfg.MapZoom)
	require.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
	require.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)

	loc, err := cfg.Location()
	require.NoError(t, err)
	require.Equal(t, time.UTC, loc)
}

func TestLoadIgnoresUnparsableNumbers(t *testing.T) {
	t.Setenv("MAP_ZOOM", "close")
	t.Setenv("SHUTDOWN_TIMEOUT", "soon")

	cfg := Load()
	require.Equal(t, 13, cfg.MapZoom)
	require.Equal(t, 15*time.Second, cfg.ShutdownTimeout)
}

func TestValidate(t *testing.T) {
	cfg := Config{StorageBackend: "redis", MapZoom: 13}
	require.Error(t, cfg.Validate())

	cfg = Config{StorageBackend: BackendMemory, MapZoom: 0}
	require.Error(t, cfg.Validate())

	cfg = Config{StorageBackend: BackendMemory, MapZoom: 13, Timezone: "Mars/Olympus"}
	require.Error(t, cfg.Validate())
}
