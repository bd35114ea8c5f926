// Package config loads process settings from an optional YAML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables consulted by Load. They take precedence over the file.
const (
	EnvAddr          = "FORMENGINE_ADDR"
	EnvSessionTTL    = "FORMENGINE_SESSION_TTL"
	EnvSpecPath      = "FORMENGINE_SPEC"
	EnvTitle         = "FORMENGINE_TITLE"
	EnvTimezone      = "FORMENGINE_TIMEZONE"
	EnvApplyDefaults = "FORMENGINE_APPLY_DEFAULTS"
	EnvLogLevel      = "LOG_LEVEL"
)

type Config struct {
	Server ServerConfig `yaml:"server"`
	Form   FormConfig   `yaml:"form"`
	Log    LogConfig    `yaml:"log"`
}

type ServerConfig struct {
	Addr       string        `yaml:"addr"`
	BasePath   string        `yaml:"base_path"`
	SessionTTL time.Duration `yaml:"session_ttl"`
}

type FormConfig struct {
	SpecPath      string `yaml:"spec_path"`
	Title         string `yaml:"title"`
	Timezone      string `yaml:"timezone"`
	ApplyDefaults bool   `yaml:"apply_defaults"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the settings used when neither file nor environment say
// otherwise.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:       ":8080",
			SessionTTL: 30 * time.Minute,
		},
		Form: FormConfig{
			SpecPath: "data/formSpec.json",
			Title:    "Form Generator",
			Timezone: "UTC",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads path when it exists and applies environment overrides. An empty
// path or a missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if addr := getenv(EnvAddr); addr != "" {
		c.Server.Addr = addr
	}
	if ttl := getenv(EnvSessionTTL); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			return fmt.Errorf("config: %s: %w", EnvSessionTTL, err)
		}
		c.Server.SessionTTL = d
	}
	if spec := getenv(EnvSpecPath); spec != "" {
		c.Form.SpecPath = spec
	}
	if title := getenv(EnvTitle); title != "" {
		c.Form.Title = title
	}
	if tz := getenv(EnvTimezone); tz != "" {
		c.Form.Timezone = tz
	}
	if raw := getenv(EnvApplyDefaults); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("config: %s: %w", EnvApplyDefaults, err)
		}
		c.Form.ApplyDefaults = v
	}
	if level := getenv(EnvLogLevel); level != "" {
		c.Log.Level = level
	}
	return nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New("config: server.addr is required")
	}
	if c.Server.SessionTTL <= 0 {
		return fmt.Errorf("config: server.session_ttl must be positive, got %s", c.Server.SessionTTL)
	}
	if c.Form.SpecPath == "" {
		return errors.New("config: form.spec_path is required")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves Form.Timezone. Empty means UTC.
func (c *Config) Location() (*time.Location, error) {
	if c.Form.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Form.Timezone)
	if err != nil {
		return nil, fmt.Errorf("config: form.timezone: %w", err)
	}
	return loc, nil
}
