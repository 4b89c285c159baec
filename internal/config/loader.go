package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the project file name searched for in the
// current and home directories.
const DefaultConfigFile = ".terrareport.yaml"

// xdgConfigFile is the file name inside XDGConfigDir.
const xdgConfigFile = "config.yaml"

// Environment variables that override project file values.
const (
	EnvProject          = "TERRAREPORT_PROJECT"
	EnvCredentials      = "TERRAREPORT_CREDENTIALS"
	EnvEndpoint         = "TERRAREPORT_ENDPOINT"
	EnvGoogleCredential = "GOOGLE_APPLICATION_CREDENTIALS"
	EnvAzureConnection  = "AZURE_STORAGE_CONNECTION_STRING"
)

// LoadConfigFile loads the project file at path. A missing file yields
// ErrConfigNotFound so callers can decide whether that matters.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	if f.Analyses == nil {
		f.Analyses = make(map[string]AnalysisConfig)
	}
	return &f, nil
}

// FindConfigFile returns the first existing project file from:
//  1. configPath, when set
//  2. ./.terrareport.yaml
//  3. ~/.terrareport.yaml
//  4. $XDG_CONFIG_HOME/terrareport/config.yaml
//
// It returns "" when none exists.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	var candidates []string
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultConfigFile))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, DefaultConfigFile))
	}
	candidates = append(candidates, filepath.Join(XDGConfigDir(), xdgConfigFile))

	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return ""
}

// ApplyEnv overrides file values with environment variables. getenv is
// usually os.Getenv.
func ApplyEnv(f *File, getenv func(string) string) {
	if v := getenv(EnvProject); v != "" {
		f.Project = v
	}
	switch {
	case getenv(EnvCredentials) != "":
		f.Credentials = getenv(EnvCredentials)
	case f.Credentials == "" && getenv(EnvGoogleCredential) != "":
		f.Credentials = getenv(EnvGoogleCredential)
	}
	if v := getenv(EnvEndpoint); v != "" {
		f.Endpoint = v
	}
	if v := getenv(EnvAzureConnection); v != "" {
		f.Publish.ConnectionString = v
	}
}

// Load finds and reads the project file, applies the environment and
// copies file settings into c where flags left them unset. A missing
// file is only an error when ConfigFilePath was set explicitly.
func (c *Config) Load(getenv func(string) string) error {
	f := &File{Analyses: make(map[string]AnalysisConfig)}
	if path := FindConfigFile(c.ConfigFilePath); path != "" {
		loaded, err := LoadConfigFile(path)
		if err != nil {
			return err
		}
		f = loaded
	} else if c.ConfigFilePath != "" {
		return ErrConfigNotFound
	}
	ApplyEnv(f, getenv)

	if c.Project == "" {
		c.Project = f.Project
	}
	if c.Credentials == "" {
		c.Credentials = f.Credentials
	}
	c.Endpoint = f.Endpoint
	if (c.ImageDir == "" || c.ImageDir == DefaultImageDir) && f.ImageDir != "" {
		c.ImageDir = f.ImageDir
	}
	c.File = f
	return nil
}
