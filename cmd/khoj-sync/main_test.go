package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigEnv(t *testing.T) {
	syncDir := t.TempDir()
	t.Setenv("KHOJ_SYNC_SERVER_URL", "https://app.khoj.dev")
	t.Setenv("KHOJ_SYNC_API_KEY", "test-api-key")
	t.Setenv("KHOJ_SYNC_SYNC_DIR", syncDir)
	t.Setenv("KHOJ_SYNC_FREQUENCY", "30s")

	require.NoError(t, loadConfig(rootCmd))

	cfg := configFromViper(false)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "https://app.khoj.dev", cfg.ServerURL)
	assert.Equal(t, "test-api-key", cfg.APIKey)
	assert.Equal(t, syncDir, cfg.SyncDir)
	assert.Equal(t, "30s", cfg.Frequency)
}
