package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// YAML-backed settings. Single file under ~/.tada, human-editable.

const (
	dirName      = ".tada"
	fileName     = "config.yaml"
	defaultURL   = "http://localhost:8000"
	defaultTheme = "classic"
)

type Config struct {
	Server  string        `yaml:"server"`
	Timeout time.Duration `yaml:"timeout"`
	Theme   string        `yaml:"theme"`
	LogFile string        `yaml:"log_file,omitempty"`
}

func Default() Config {
	return Config{Server: defaultURL, Theme: defaultTheme}
}

// DefaultPath is ~/.tada/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home: %w", err)
	}
	return filepath.Join(home, dirName, fileName), nil
}

// Load reads path over the defaults. A missing file is not an error unless
// mustExist is set (the user named the file explicitly).
func Load(path string, mustExist bool) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !mustExist {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg.normalize(), nil
}

// Save writes cfg to path, creating the parent directory.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("yaml marshal: %w", err)
	}
	if err := os.WriteFile(path, b, 0o600); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

// ApplyEnv overrides fields from TADA_* variables. Unparseable durations are
// reported rather than ignored.
func (c Config) ApplyEnv(getenv func(string) string) (Config, error) {
	if v := strings.TrimSpace(getenv("TADA_SERVER")); v != "" {
		c.Server = v
	}
	if v := strings.TrimSpace(getenv("TADA_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return c, fmt.Errorf("TADA_TIMEOUT: %w", err)
		}
		c.Timeout = d
	}
	if v := strings.TrimSpace(getenv("TADA_THEME")); v != "" {
		c.Theme = v
	}
	if v := strings.TrimSpace(getenv("TADA_LOG_FILE")); v != "" {
		c.LogFile = v
	}
	return c.normalize(), nil
}

// Marshal renders the effective configuration.
func (c Config) Marshal() (string, error) {
	b, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("yaml marshal: %w", err)
	}
	return string(b), nil
}

func (c Config) normalize() Config {
	c.Server = strings.TrimRight(strings.TrimSpace(c.Server), "/")
	if c.Server == "" {
		c.Server = defaultURL
	}
	if c.Theme == "" {
		c.Theme = defaultTheme
	}
	if c.Timeout < 0 {
		c.Timeout = 0
	}
	return c
}
