package shared

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	API      APIConfig      `toml:"api"`
	Auth     AuthConfig     `toml:"auth"`
	Poll     PollConfig     `toml:"poll"`
	Database DatabaseConfig `toml:"database"`
}

// APIConfig contains the backend endpoint settings.
type APIConfig struct {
	BaseURL        string `toml:"base_url"`
	RequestTimeout int    `toml:"request_timeout_seconds"`
}

// AuthConfig contains client-side credential storage settings.
type AuthConfig struct {
	TokenPath string `toml:"token_path"`
}

// PollConfig contains job polling settings.
type PollConfig struct {
	IntervalSeconds      int `toml:"interval_seconds"`
	SubmitTimeoutSeconds int `toml:"submit_timeout_seconds"`
}

// DatabaseConfig contains local cache database settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: config file already exists at %s", ErrInvalidConfig, path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// TokenPath resolves the configured token path, expanding a leading ~ to the
// user's home directory. Falls back to ~/.lgz/token when unset.
func (c *Config) TokenPath() string {
	path := c.Auth.TokenPath
	if path == "" {
		path = "~/.lgz/token"
	}
	if len(path) > 1 && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[1:])
		}
	}
	return path
}
