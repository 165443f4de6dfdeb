package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultDatabaseDSN, cfg.DatabaseDSN)
	assert.Equal(t, DefaultOutputDir, cfg.OutputDir)
	assert.Equal(t, DefaultUploadsDir, cfg.UploadsDir)
	assert.NotEmpty(t, cfg.JWTSecret)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("DATABASE_URL", "file:custom.db")
	t.Setenv("JWT_SECRET", "supersecret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8081, cfg.Port)
	assert.Equal(t, "file:custom.db", cfg.DatabaseDSN)
	assert.Equal(t, "supersecret", cfg.JWTSecret)
}

func TestLoadRejectsBadPort(t *testing.T) {
	for _, v := range []string{"abc", "0", "70000", "-1"} {
		t.Setenv("PORT", v)
		_, err := Load()
		assert.Error(t, err, "PORT=%s", v)
	}
}
