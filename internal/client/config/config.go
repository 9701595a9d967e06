package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"

	"github.com/khoj-ai/khoj-sync/internal/utils"
)

var (
	home, _            = os.UserHomeDir()
	DefaultConfigPath  = filepath.Join(home, ".khoj-sync", "config.json")
	DefaultLogFilePath = filepath.Join(home, ".khoj-sync", "logs", "khoj-sync.log")

	DefaultFrequency  = "5m"
	DefaultMaxUploads = 10

	// DefaultExcludedDirs are directory names never descended into during a
	// scan.
	DefaultExcludedDirs = []string{
		"node_modules", ".venv", ".git", ".github", ".vscode", ".catpaw", "__pycache__",
	}
)

// Config is the immutable runtime configuration for one khoj-sync process.
type Config struct {
	ServerURL    string   `json:"server_url"`
	APIKey       string   `json:"api_key"`
	SyncDir      string   `json:"sync_dir"`
	Frequency    string   `json:"frequency"`
	MaxUploads   int      `json:"max_uploads"`
	ExcludedDirs []string `json:"excluded_dirs,omitempty"`

	// Runtime-only fields, never persisted.
	FilesList string `json:"-"`
	Once      bool   `json:"-"`
	Verbose   bool   `json:"-"`
	Path      string `json:"-"`
}

// Save writes the config to the given path, creating parent directories.
func (c *Config) Save(path string) error {
	if err := utils.EnsureParent(path); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	c.Path = path
	return os.WriteFile(path, data, 0o644)
}

// Validate normalizes paths, fills defaults and rejects configurations that
// cannot sync: missing server URL or API key, or a sync dir that does not
// exist.
func (c *Config) Validate() error {
	if err := ValidateServerURL(c.ServerURL); err != nil {
		return err
	}

	if c.APIKey == "" {
		return fmt.Errorf("api key is required")
	}

	if c.SyncDir == "" {
		c.SyncDir = "."
	}
	syncDir, err := utils.ResolvePath(c.SyncDir)
	if err != nil {
		return fmt.Errorf("resolve sync dir: %w", err)
	}
	if !utils.DirExists(syncDir) {
		return fmt.Errorf("sync dir %q does not exist", syncDir)
	}
	c.SyncDir = syncDir

	if c.Frequency == "" {
		c.Frequency = DefaultFrequency
	}
	if _, err := c.Interval(); err != nil {
		return fmt.Errorf("invalid frequency %q: %w", c.Frequency, err)
	}

	if c.MaxUploads <= 0 {
		c.MaxUploads = DefaultMaxUploads
	}

	if len(c.ExcludedDirs) == 0 {
		c.ExcludedDirs = DefaultExcludedDirs
	}

	if c.FilesList != "" {
		filesList, err := utils.ResolvePath(c.FilesList)
		if err != nil {
			return fmt.Errorf("resolve files list: %w", err)
		}
		if !utils.FileExists(filesList) {
			return fmt.Errorf("files list %q does not exist", filesList)
		}
		c.FilesList = filesList
	}

	return nil
}

// ValidateServerURL checks that a server URL is a usable http(s) endpoint.
func ValidateServerURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("server url is required")
	}

	parsed, err := url.Parse(raw)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return fmt.Errorf("invalid server url %q", raw)
	}
	return nil
}

// Interval parses the sync frequency as a Go duration.
func (c *Config) Interval() (time.Duration, error) {
	return time.ParseDuration(c.Frequency)
}

// Load reads a config from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.Path = path
	return &cfg, nil
}
