// internal/config/config.go
//
// This package handles the ~/.scribe directory and client configuration.
// The first run scaffolds a commented config.yaml the user can edit.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// ScribeDir is the directory created under the user's home.
	ScribeDir = ".scribe"

	configFileName = "config.yaml"
	tokenFileName  = "token"
	logsDirName    = "logs"

	defaultBackendURL      = "http://localhost:8000"
	defaultTimeoutSeconds  = 120
	defaultOutlineSections = 5
)

// EnvDirOverride points the client at an alternate config directory.
// Used by headless runs and tests.
const EnvDirOverride = "SCRIBE_HOME"

const defaultConfigYAML = `# scribe client configuration
version: 1

backend:
  # Base URL of the NexWrit API.
  url: http://localhost:8000
  # Transport timeout in seconds for a single request. Generation calls can
  # take a while, so keep this generous.
  timeout_seconds: 120

auth:
  # Path to the file holding the bearer token. Relative paths resolve
  # against this config directory. The SCRIBE_TOKEN environment variable
  # takes precedence when set.
  token_file: token
  # Shown in the dashboard header. Cosmetic only.
  email: ""

export:
  # Where exported documents are written. Empty means the current directory.
  download_dir: ""

outline:
  # How many section titles to request from the AI suggester.
  suggested_sections: 5
`

// BackendConfig holds transport settings for the API client.
type BackendConfig struct {
	URL            string `yaml:"url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// AuthConfig locates the bearer token and identifies the user for display.
type AuthConfig struct {
	TokenFile string `yaml:"token_file"`
	Email     string `yaml:"email"`
}

// ExportConfig controls where exported documents land.
type ExportConfig struct {
	DownloadDir string `yaml:"download_dir"`
}

// OutlineConfig tunes AI outline suggestions.
type OutlineConfig struct {
	SuggestedSections int `yaml:"suggested_sections"`
}

// Config models config.yaml plus the resolved directory it was loaded from.
type Config struct {
	Version int           `yaml:"version"`
	Backend BackendConfig `yaml:"backend"`
	Auth    AuthConfig    `yaml:"auth"`
	Export  ExportConfig  `yaml:"export"`
	Outline OutlineConfig `yaml:"outline"`

	dir string
}

// Dir resolves the scribe config directory, honoring SCRIBE_HOME.
func Dir() (string, error) {
	if override := strings.TrimSpace(os.Getenv(EnvDirOverride)); override != "" {
		return override, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: resolve home directory: %w", err)
	}
	return filepath.Join(home, ScribeDir), nil
}

// InitDir makes sure the config directory exists with a default config.yaml
// and the logs subdirectory. An existing config is never overwritten.
func InitDir(dir string) error {
	if err := os.MkdirAll(filepath.Join(dir, logsDirName), 0o755); err != nil {
		return fmt.Errorf("config: create %s: %w", dir, err)
	}
	path := filepath.Join(dir, configFileName)
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("config: stat %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigYAML), 0o644); err != nil {
		return fmt.Errorf("config: write default config: %w", err)
	}
	return nil
}

// Load reads config.yaml from dir, applying defaults for anything unset and
// the SCRIBE_BACKEND_URL environment override.
func Load(dir string) (*Config, error) {
	cfg := &Config{dir: dir}
	path := filepath.Join(dir, configFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		// No file yet; defaults only.
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.applyDefaults()
	if url := strings.TrimSpace(os.Getenv("SCRIBE_BACKEND_URL")); url != "" {
		cfg.Backend.URL = url
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.Backend.URL) == "" {
		c.Backend.URL = defaultBackendURL
	}
	if c.Backend.TimeoutSeconds <= 0 {
		c.Backend.TimeoutSeconds = defaultTimeoutSeconds
	}
	if strings.TrimSpace(c.Auth.TokenFile) == "" {
		c.Auth.TokenFile = tokenFileName
	}
	if c.Outline.SuggestedSections <= 0 {
		c.Outline.SuggestedSections = defaultOutlineSections
	}
}

// DirPath reports the directory this config belongs to.
func (c *Config) DirPath() string {
	return c.dir
}

// RequestTimeout converts the configured timeout to a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Backend.TimeoutSeconds) * time.Second
}

// TokenPath resolves the token file, keeping absolute paths as-is.
func (c *Config) TokenPath() string {
	if filepath.IsAbs(c.Auth.TokenFile) {
		return c.Auth.TokenFile
	}
	return filepath.Join(c.dir, c.Auth.TokenFile)
}

// LogDir reports where log files are written.
func (c *Config) LogDir() string {
	return filepath.Join(c.dir, logsDirName)
}

// DownloadDir reports the export target directory, empty meaning cwd.
func (c *Config) DownloadDir() string {
	return c.Export.DownloadDir
}
