package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is used for XDG directory names and the ledger file.
	AppName = "terrareport"

	// DefaultTimeout bounds a single remote call.
	DefaultTimeout = 2 * time.Minute

	// DefaultBatchSize is how many per-year pipelines run at once.
	DefaultBatchSize = 4

	// DefaultImageDir is where thumbnails are written and read back.
	DefaultImageDir = "."
)

// Config is the runtime configuration assembled from flags, the project
// file and the environment.
type Config struct {
	// Project is the cloud project remote requests are billed to.
	Project string

	// Credentials is a service account or user JSON key. Empty means
	// Application Default Credentials.
	Credentials string

	// Endpoint is the Earth Engine REST base URL. Empty means the public API.
	Endpoint string

	Timeout time.Duration

	Verbose bool

	// LogJSON switches log output to JSON.
	LogJSON bool

	BatchSize int

	// ConfigFilePath is the explicit --config path, if any.
	ConfigFilePath string

	// File is the loaded project file. Never nil after Load.
	File *File

	ImageDir string

	// DBDir holds the task ledger database.
	DBDir string
}

// NewConfig returns a Config with defaults applied.
func NewConfig() *Config {
	return &Config{
		Timeout:   DefaultTimeout,
		BatchSize: DefaultBatchSize,
		ImageDir:  DefaultImageDir,
		DBDir:     XDGDataDir(),
		File:      &File{},
	}
}

// XDGDataDir returns the directory holding the task ledger.
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the per-user configuration directory.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGCacheDir returns the per-user cache directory.
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// Validate checks the settings every command needs.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}
	return nil
}

// RequireProject additionally checks the settings of commands that talk
// to the remote service.
func (c *Config) RequireProject() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Project == "" {
		return ErrNoProject
	}
	return nil
}
