// Package config loads pisaph settings from a YAML file and PISAPH_*
// environment variables. Command-line flags are applied by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pisaph/pisaph/internal/llm"
	"github.com/pisaph/pisaph/internal/logging"
	"gopkg.in/yaml.v3"
)

// Config is the resolved application configuration.
type Config struct {
	Model   string `yaml:"model"`   // model artifact JSON
	Holdout string `yaml:"holdout"` // holdout CSV
	Catalog string `yaml:"catalog"` // empty uses the embedded catalog
	DB      string `yaml:"db"`      // empty uses store.DefaultDBPath

	Log      string `yaml:"log"`
	LogLevel string `yaml:"log_level"`

	LLM llm.Config `yaml:"llm"`
}

// Default returns the built-in configuration.
func Default() Config {
	logPath, _ := logging.DefaultPath()
	return Config{
		Model:    "model.json",
		Holdout:  "holdout.csv",
		Log:      logPath,
		LogLevel: logging.DefaultLevel,
		LLM:      llm.DefaultConfig(),
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/pisaph/config.yaml, falling back to
// ~/.config/pisaph/config.yaml.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "pisaph", "config.yaml")
}

// Load reads the config file at path over the defaults, then applies the
// environment. An empty path reads DefaultPath if it exists. When the
// environment selects no LLM provider, one is discovered from vendor API
// key variables.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist) && !explicit:
		default:
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg.ApplyEnv()
	if cfg.LLM.Provider == "" {
		cfg.LLM.Discover()
	}
	return cfg, nil
}

// ApplyEnv overrides fields from PISAPH_* environment variables.
func (c *Config) ApplyEnv() {
	bindings := map[string]*string{
		"PISAPH_MODEL":     &c.Model,
		"PISAPH_HOLDOUT":   &c.Holdout,
		"PISAPH_CATALOG":   &c.Catalog,
		"PISAPH_DB":        &c.DB,
		"PISAPH_LOG":       &c.Log,
		"PISAPH_LOG_LEVEL": &c.LogLevel,
	}
	for name, dst := range bindings {
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}
	c.LLM.ApplyEnv()
}
