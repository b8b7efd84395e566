// Package config loads runtime configuration for the todos server and view.
//
// Configuration comes from an optional YAML or TOML file, chosen by file
// extension, and the PORT environment variable, which overrides the file:
//
//	port: 5000
//	store: memory
//	log_level: info
//	log_format: text
//	server_url: http://localhost:5000
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Defaults applied by [Default] and to fields left unset in a file.
const (
	DefaultPort      = 5000
	DefaultStore     = "memory"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
	DefaultServerURL = "http://localhost:5000"
)

// Config is the root configuration structure.
type Config struct {
	// Port is the HTTP port the server listens on.
	Port int `yaml:"port" toml:"port"`

	// Store selects the storage backend: "memory" or "sqlite".
	// Both are volatile.
	Store string `yaml:"store" toml:"store"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" toml:"log_level"`

	// LogFormat is one of text, json, logfmt.
	LogFormat string `yaml:"log_format" toml:"log_format"`

	// ServerURL is the base URL the view talks to.
	ServerURL string `yaml:"server_url" toml:"server_url"`
}

// Default returns a Config populated with defaults and the PORT override.
func Default() (*Config, error) {
	cfg := &Config{}
	if err := cfg.finish(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads configuration from path. An empty path yields [Default].
func Load(path string) (*Config, error) {
	if path == "" {
		return Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes configuration data. ext selects the format: ".toml" for
// TOML, anything else for YAML.
func Parse(data []byte, ext string) (*Config, error) {
	cfg := &Config{}

	switch strings.ToLower(ext) {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("failed to parse TOML: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	}

	if err := cfg.finish(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) finish() error {
	c.applyDefaults()
	if err := c.applyEnv(); err != nil {
		return err
	}
	return c.Validate()
}

func (c *Config) applyDefaults() {
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.Store == "" {
		c.Store = DefaultStore
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.LogFormat == "" {
		c.LogFormat = DefaultLogFormat
	}
	if c.ServerURL == "" {
		c.ServerURL = DefaultServerURL
	}
}

func (c *Config) applyEnv() error {
	v := os.Getenv("PORT")
	if v == "" {
		return nil
	}
	port, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid PORT %q: %w", v, err)
	}
	c.Port = port
	return nil
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port must be between 1 and 65535, got %d", c.Port))
	}

	switch c.Store {
	case "memory", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("store must be 'memory' or 'sqlite', got %q", c.Store))
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log_level must be debug, info, warn or error, got %q", c.LogLevel))
	}

	switch c.LogFormat {
	case "text", "json", "logfmt":
	default:
		errs = append(errs, fmt.Errorf("log_format must be text, json or logfmt, got %q", c.LogFormat))
	}

	if !strings.HasPrefix(c.ServerURL, "http://") && !strings.HasPrefix(c.ServerURL, "https://") {
		errs = append(errs, fmt.Errorf("server_url must be an http(s) URL, got %q", c.ServerURL))
	}

	return errors.Join(errs...)
}
