// Package config resolves client settings. Precedence, highest first:
// command-line overrides, environment (a .env file in the working directory
// is loaded automatically), <dir>/config.yaml, built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/joho/godotenv/autoload"
	"gopkg.in/yaml.v3"
)

// Environment variables consulted by Load.
const (
	EnvAPIURL    = "GROCERY_API_URL"
	EnvConfigDir = "GROCERY_CONFIG_DIR"
)

// DefaultAPIURL is the backend used when nothing else is configured.
const DefaultAPIURL = "http://localhost:8080"

// FileName is the config file inside the config directory.
const FileName = "config.yaml"

// Config is the resolved client configuration.
type Config struct {
	APIURL   string `yaml:"api_url,omitempty"`
	LogLevel string `yaml:"log_level,omitempty"`

	// Dir holds config.yaml, the token file and the TUI log.
	Dir string `yaml:"-"`
}

// Overrides come from command-line flags; empty fields are ignored.
type Overrides struct {
	APIURL string
	Dir    string
}

// DefaultDir is $XDG_CONFIG_HOME/grocerylist, falling back to
// ~/.config/grocerylist.
func DefaultDir() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "grocerylist")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "grocerylist")
}

// ResolveDir picks the config directory: override, then environment, then
// DefaultDir.
func ResolveDir(override string) string {
	return first(override, os.Getenv(EnvConfigDir), DefaultDir())
}

// LoadFile reads only <dir>/config.yaml, without overrides or defaults.
// A missing file yields an empty Config. Change and Save this value, never
// the one returned by Load.
func LoadFile(dir string) (*Config, error) {
	cfg := &Config{Dir: dir}
	data, err := os.ReadFile(filepath.Join(dir, FileName))
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	return cfg, nil
}

// Load resolves the configuration.
func Load(o Overrides) (*Config, error) {
	cfg, err := LoadFile(ResolveDir(o.Dir))
	if err != nil {
		return nil, err
	}
	cfg.APIURL = strings.TrimSpace(first(o.APIURL, os.Getenv(EnvAPIURL), cfg.APIURL, DefaultAPIURL))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "warn"
	}
	return cfg, nil
}

// Save writes the file-backed fields to <Dir>/config.yaml.
func (c *Config) Save() error {
	if err := os.MkdirAll(c.Dir, 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(filepath.Join(c.Dir, FileName), data, 0o600)
}

// LogPath is where the TUI writes its log.
func (c *Config) LogPath() string { return filepath.Join(c.Dir, "gl.log") }

func first(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
