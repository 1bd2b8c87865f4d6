// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v9"
	"github.com/hashicorp/go-multierror"

	"github.com/jeranaias/aurora-tui/internal/groq"
	"github.com/jeranaias/aurora-tui/internal/model"
	"github.com/jeranaias/aurora-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURE
// =============================================================================

// Config represents the complete aurora configuration.
//
// Values come from the built-in defaults, then ~/.aurora/config.toml, then
// the environment variables named in the env tags.
type Config struct {
	// APIKey is the bearer token for the chat-completions API
	APIKey string `toml:"api_key" json:"api_key" env:"GROQ_API_KEY"`

	// APIURL is the base URL of the OpenAI-compatible API
	APIURL string `toml:"api_url" json:"api_url" env:"AURORA_API_URL"`

	// DefaultModel is the model selected at startup
	DefaultModel string `toml:"default_model" json:"default_model" env:"AURORA_MODEL"`

	// Temperature is the sampling temperature (0-2)
	Temperature float64 `toml:"temperature" json:"temperature" env:"AURORA_TEMPERATURE"`

	// MaxTokens caps the completion length
	MaxTokens int `toml:"max_tokens" json:"max_tokens" env:"AURORA_MAX_TOKENS"`

	// DataDir holds the chat store and the log file
	DataDir string `toml:"data_dir" json:"data_dir" env:"AURORA_DATA_DIR"`

	// Storage selects the store backend: file, sqlite or memory
	Storage string `toml:"storage" json:"storage" env:"AURORA_STORAGE"`

	// LogLevel is one of debug, info, warn, error
	LogLevel string `toml:"log_level" json:"log_level" env:"AURORA_LOG_LEVEL"`
}

// Default returns the built-in configuration. DataDir is filled in by
// SetDefaults because it depends on the home directory.
func Default() *Config {
	return &Config{
		APIURL:       groq.DefaultBaseURL,
		DefaultModel: model.DefaultModelID,
		Temperature:  groq.DefaultTemperature,
		MaxTokens:    groq.DefaultMaxTokens,
		Storage:      "file",
		LogLevel:     "info",
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the aurora configuration directory path.
// AURORA_HOME overrides the default of ~/.aurora.
func ConfigDir() (string, error) {
	if dir := os.Getenv("AURORA_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".aurora"), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// LogPath returns the log file location inside the data directory.
func (c *Config) LogPath() string {
	return filepath.Join(c.DataDir, "aurora.log")
}

// HistoryPath returns the line-editor history file for the chat REPL.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.DataDir, "chat_history")
}

// ensureSecurePermissions tightens a config file holding a secret to 0600.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if mode := info.Mode().Perm(); mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}
	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads the configuration from the default path. A missing file is not
// an error. Environment overrides are applied last, then the result is
// validated.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads configuration from a specific TOML file with full
// validation. A missing file yields the defaults.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if _, statErr := os.Stat(path); statErr == nil {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
		}
	} else if !errors.Is(statErr, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to stat config %s: %w", path, statErr)
	}

	if err := cfg.ApplyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.SetDefaults(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML decodes path over cfg and refills missing values with defaults.
func LoadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		fmt.Fprintf(os.Stderr, "Warning: unknown config keys in %s: %v\n", path, undecoded)
	}
	return fillDefaults(cfg)
}

// fillDefaults fills in any empty values with defaults.
func fillDefaults(cfg *Config) error {
	defaults := Default()

	if cfg.APIURL == "" {
		cfg.APIURL = defaults.APIURL
	}
	if cfg.DefaultModel == "" {
		cfg.DefaultModel = defaults.DefaultModel
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = defaults.Temperature
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = defaults.MaxTokens
	}
	if cfg.Storage == "" {
		cfg.Storage = defaults.Storage
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaults.LogLevel
	}
	return nil
}

// ApplyEnvOverrides overwrites fields whose environment variable is set.
func (c *Config) ApplyEnvOverrides() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("invalid environment override: %w", err)
	}
	c.APIKey = strings.TrimSpace(c.APIKey)
	return nil
}

// SetDefaults fills values that depend on the environment, such as DataDir.
func (c *Config) SetDefaults() error {
	if err := fillDefaults(c); err != nil {
		return err
	}
	if c.DataDir == "" {
		dir, err := ConfigDir()
		if err != nil {
			return err
		}
		c.DataDir = filepath.Join(dir, "data")
	}
	c.Storage = strings.ToLower(c.Storage)
	c.LogLevel = strings.ToLower(c.LogLevel)
	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML writes the configuration atomically with 0600 permissions, since
// the file may hold the API key.
func SaveTOML(cfg *Config, path string) error {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "# aurora configuration file")
	fmt.Fprintln(&buf, "# Generated by aurora - edit with care")
	fmt.Fprintln(&buf, "")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError is a single invalid configuration field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var (
	validStorage   = []string{"file", "sqlite", "memory"}
	validLogLevels = []string{"debug", "info", "warn", "error"}
)

// Validate checks every field and returns all problems at once.
func (c *Config) Validate() error {
	var result *multierror.Error
	add := func(field, format string, args ...any) {
		result = multierror.Append(result, &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if u, err := url.Parse(c.APIURL); err != nil {
		add("api_url", "invalid URL: %v", err)
	} else if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		add("api_url", "must be an absolute http(s) URL, got %q", c.APIURL)
	}

	if strings.TrimSpace(c.DefaultModel) == "" {
		add("default_model", "must not be empty")
	}

	if c.Temperature < 0 || c.Temperature > 2 {
		add("temperature", "must be between 0 and 2, got %g", c.Temperature)
	}

	if c.MaxTokens <= 0 || c.MaxTokens > 131072 {
		add("max_tokens", "must be between 1 and 131072, got %d", c.MaxTokens)
	}

	if !contains(validStorage, c.Storage) {
		add("storage", "invalid backend %q, must be one of: %s", c.Storage, strings.Join(validStorage, ", "))
	}

	if !contains(validLogLevels, c.LogLevel) {
		add("log_level", "invalid level %q, must be one of: %s", c.LogLevel, strings.Join(validLogLevels, ", "))
	}

	return result.ErrorOrNil()
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// =============================================================================
// GET/SET HELPERS
// =============================================================================

// Keys returns every configuration key in file order.
func Keys() []string {
	t := reflect.TypeOf(Config{})
	keys := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		keys = append(keys, t.Field(i).Tag.Get("toml"))
	}
	return keys
}

// field finds the struct field whose TOML key is key.
func (c *Config) field(key string) (reflect.Value, error) {
	key = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(key)), "-", "_")
	v := reflect.ValueOf(c).Elem()
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).Tag.Get("toml") == key {
			return v.Field(i), nil
		}
	}
	return reflect.Value{}, fmt.Errorf("unknown config key: %s", key)
}

// Get returns the value of key as a string.
func (c *Config) Get(key string) (string, error) {
	f, err := c.field(key)
	if err != nil {
		return "", err
	}
	return fmt.Sprint(f.Interface()), nil
}

// Set parses value into key's field type.
func (c *Config) Set(key, value string) error {
	f, err := c.field(key)
	if err != nil {
		return err
	}
	switch f.Kind() {
	case reflect.String:
		f.SetString(value)
	case reflect.Int:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer value for %s: %w", key, err)
		}
		f.SetInt(int64(n))
	case reflect.Float64:
		x, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid number value for %s: %w", key, err)
		}
		f.SetFloat(x)
	default:
		return fmt.Errorf("cannot set %s of kind %s", key, f.Kind())
	}
	return nil
}

// =============================================================================
// DISPLAY
// =============================================================================

// MaskedKey returns the API key with all but its first and last four
// characters hidden.
func (c *Config) MaskedKey() string {
	k := c.APIKey
	if k == "" {
		return "(not set)"
	}
	if len(k) <= 8 {
		return strings.Repeat("*", len(k))
	}
	return k[:4] + strings.Repeat("*", len(k)-8) + k[len(k)-4:]
}

// String returns the config as TOML with the API key redacted.
func (c *Config) String() string {
	safe := *c
	if safe.APIKey != "" {
		safe.APIKey = "[REDACTED]"
	}
	var buf bytes.Buffer
	_ = toml.NewEncoder(&buf).Encode(safe)
	return buf.String()
}
