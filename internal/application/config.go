package application

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/abeaupre/go-classement/internal/domain"
)

// Package-level validator instance for configuration validation.
// Uses go-playground/validator v10 for struct tag-based validation.
var validate = validator.New()

// Config is the complete service configuration, decoded from YAML with
// strict field checking so typos fail loudly instead of being ignored.
type Config struct {
	// Server configures the HTTP shell.
	Server ServerConfig `yaml:"server"`

	// Store selects and configures the review store backend.
	Store StoreConfig `yaml:"store"`

	// Identity selects the submitter identity strategy.
	Identity IdentityConfig `yaml:"identity"`

	// Matching configures the name resolution subsystem.
	Matching MatchingConfig `yaml:"matching"`

	// Scale is the closed interval criterion values must lie in.
	Scale domain.Scale `yaml:"scale"`

	// Catalog optionally replaces the built-in program catalog.
	Catalog map[string][]string `yaml:"catalog"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string `yaml:"addr" validate:"required"`

	// SubmissionsPerMinute caps review submissions per client IP.
	// Zero disables the limiter.
	SubmissionsPerMinute int `yaml:"submissions_per_minute" validate:"min=0,max=10000"`
}

// StoreConfig selects the persistence backend. The backends are
// interchangeable behind the ReviewStore contract; configuration, not
// parallel program variants, picks one.
type StoreConfig struct {
	// Backend is "memory" or "sqlite".
	Backend string `yaml:"backend" validate:"required,oneof=memory sqlite"`

	// Path is the SQLite database file; required for the sqlite backend.
	Path string `yaml:"path" validate:"required_if=Backend sqlite"`
}

// IdentityConfig selects how submitter tokens are validated.
type IdentityConfig struct {
	// Strategy is "session" (opaque per-session tokens) or
	// "institutional" (validated 7-digit IDs).
	Strategy string `yaml:"strategy" validate:"required,oneof=session institutional"`

	// Prefixes lists the accepted leading two digits for institutional
	// IDs. Ignored by the session strategy.
	Prefixes []string `yaml:"prefixes" validate:"omitempty,dive,len=2,number"`
}

// MatchingConfig controls instructor name resolution.
type MatchingConfig struct {
	// Threshold is the minimum 0-100 similarity for a submitted name to
	// resolve to an existing canonical name. Below it the submission
	// becomes a new canonical name.
	Threshold float64 `yaml:"threshold" validate:"min=0,max=100"`
}

// DefaultConfig returns a Config with production-ready defaults:
// in-memory store, session identity, threshold 80, scale [0,10].
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr:                 ":8080",
			SubmissionsPerMinute: 30,
		},
		Store:    StoreConfig{Backend: "memory"},
		Identity: IdentityConfig{Strategy: "session"},
		Matching: MatchingConfig{Threshold: 80},
		Scale:    domain.DefaultScale(),
	}
}

// LoadConfig reads a YAML config file, overlaying it on the defaults.
// Unknown fields are rejected.
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	return ParseConfig(f)
}

// ParseConfig decodes YAML configuration from r with strict field
// validation, starting from the defaults.
func ParseConfig(r io.Reader) (Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, fmt.Errorf("decode config (check for typos): %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration's struct tags and cross-field
// rules.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidConfiguration, err)
	}
	if err := c.Scale.Validate(); err != nil {
		return err
	}
	return nil
}
