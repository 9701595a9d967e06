package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig(t *testing.T) *Config {
	t.Helper()
	return &Config{
		ServerURL: "http://127.0.0.1:42110",
		APIKey:    "secret-key",
		SyncDir:   t.TempDir(),
	}
}

func TestConfig_Validate_FillsDefaults(t *testing.T) {
	cfg := validConfig(t)
	require.NoError(t, cfg.Validate())

	assert.True(t, filepath.IsAbs(cfg.SyncDir))
	assert.Equal(t, DefaultFrequency, cfg.Frequency)
	assert.Equal(t, DefaultMaxUploads, cfg.MaxUploads)
	assert.Equal(t, DefaultExcludedDirs, cfg.ExcludedDirs)

	interval, err := cfg.Interval()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, interval)
}

func TestConfig_Validate_ErrorsOnInvalidInputs(t *testing.T) {
	t.Run("missing server url", func(t *testing.T) {
		cfg := validConfig(t)
		cfg.ServerURL = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("bad server url scheme", func(t *testing.T) {
		cfg := validConfig(t)
		cfg.ServerURL = "ftp://bad.example.com"
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "server url")
	})

	t.Run("missing api key", func(t *testing.T) {
		cfg := validConfig(t)
		cfg.APIKey = ""
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "api key")
	})

	t.Run("missing sync dir", func(t *testing.T) {
		cfg := validConfig(t)
		cfg.SyncDir = filepath.Join(t.TempDir(), "does-not-exist")
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "does not exist")
	})

	t.Run("bad frequency", func(t *testing.T) {
		cfg := validConfig(t)
		cfg.Frequency = "every other tuesday"
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "frequency")
	})

	t.Run("missing files list", func(t *testing.T) {
		cfg := validConfig(t)
		cfg.FilesList = filepath.Join(t.TempDir(), "nope.txt")
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "files list")
	})
}

func TestConfig_SaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	cfg := validConfig(t)
	cfg.Frequency = "10m"
	cfg.MaxUploads = 3
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.ServerURL, loaded.ServerURL)
	assert.Equal(t, cfg.APIKey, loaded.APIKey)
	assert.Equal(t, cfg.SyncDir, loaded.SyncDir)
	assert.Equal(t, "10m", loaded.Frequency)
	assert.Equal(t, 3, loaded.MaxUploads)
	assert.Equal(t, path, loaded.Path)
}

func TestConfig_LoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestValidateServerURL(t *testing.T) {
	assert.NoError(t, ValidateServerURL("https://app.khoj.dev"))
	assert.NoError(t, ValidateServerURL("http://localhost:42110"))
	assert.Error(t, ValidateServerURL(""))
	assert.Error(t, ValidateServerURL("not a url"))
	assert.Error(t, ValidateServerURL("file:///etc/passwd"))
}
