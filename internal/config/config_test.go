package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, DriverMemory, cfg.StoreDriver)
	assert.Equal(t, 30*time.Minute, cfg.PreviewTTL)
	assert.Equal(t, time.Hour, cfg.JWTTTL)
	assert.Equal(t, 60*time.Second, cfg.DetectionTimeout)
	assert.Equal(t, 1.0, cfg.DetectionRate)
	assert.True(t, cfg.EmergencySection)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, "@every 15m", cfg.SnapshotSchedule)
	assert.Equal(t, 720*time.Hour, cfg.SnapshotRetention)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "Mongo")
	t.Setenv("MONGO_URI", "mongodb://db:27017")
	t.Setenv("EMERGENCY_SECTION", "false")
	t.Setenv("PREVIEW_TTL", "5m")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("PUBLIC_BASE_URL", "https://garagy.example/")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DriverMongo, cfg.StoreDriver)
	assert.False(t, cfg.EmergencySection)
	assert.Equal(t, 5*time.Minute, cfg.PreviewTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, "https://garagy.example", cfg.PublicBaseURL)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("JWT_TTL=2h\n"), 0o600))
	t.Setenv("STORE_DRIVER", "memory")
	// Registers restoration of the variable the file is about to set.
	t.Setenv("JWT_TTL", "")
	require.NoError(t, os.Unsetenv("JWT_TTL"))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, cfg.JWTTTL)

	_, err = Load(filepath.Join(dir, "missing.env"))
	assert.NoError(t, err)
}

func TestLoadRejectsBadDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "sqlite")
	_, err := Load("")
	assert.Error(t, err)

	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "")
	_, err = Load("")
	assert.Error(t, err)
}

func TestRequireJWTSecret(t *testing.T) {
	assert.Error(t, Config{}.RequireJWTSecret())
	assert.NoError(t, Config{JWTSecret: "s"}.RequireJWTSecret())
}
