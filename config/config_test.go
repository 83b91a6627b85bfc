package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9804", cfg.Addr)
	assert.Equal(t, "gemini-2.5-flash", cfg.GeminiModel)
	assert.Equal(t, "./chronicle.db", cfg.ArchivePath)
	assert.Equal(t, "./roles.yaml", cfg.RolesPath)
	assert.Equal(t, 90*time.Second, cfg.RequestTimeout)
	assert.False(t, cfg.Debug)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("CW_ADDR", "127.0.0.1:8080")
	t.Setenv("CW_REQUEST_TIMEOUT", "15s")
	t.Setenv("CW_DEBUG", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8080", cfg.Addr)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.True(t, cfg.Debug)
}

func TestLoadRequiresAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("CW_REQUEST_TIMEOUT", "soon")

	_, err := Load()
	assert.Error(t, err)
}
