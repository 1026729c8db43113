package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://127.0.0.1:8080", c.BackendBaseURL)
	assert.Equal(t, "https://api.cloudinary.com", c.UploadBaseURL)
	assert.Equal(t, "recordings.db", c.DatabasePath)
	assert.Equal(t, 30*time.Second, c.RequestTimeout)
	assert.Equal(t, time.Second, c.FragmentInterval)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, "http://127.0.0.1:8080", cfg.BackendBaseURL)
	assert.Equal(t, "recordings.db", cfg.DatabasePath)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
}
