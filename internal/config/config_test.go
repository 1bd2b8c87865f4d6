// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hashicorp/go-multierror"

	"github.com/jeranaias/aurora-tui/internal/model"
)

// clearEnv unsets every override so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"GROQ_API_KEY", "AURORA_API_URL", "AURORA_MODEL", "AURORA_TEMPERATURE",
		"AURORA_MAX_TOKENS", "AURORA_DATA_DIR", "AURORA_STORAGE", "AURORA_LOG_LEVEL",
	} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
	t.Setenv("AURORA_HOME", t.TempDir())
}

func TestConfig_Default(t *testing.T) {
	cfg := Default()

	if cfg.APIURL != "https://api.groq.com/openai/v1" {
		t.Errorf("APIURL = %q", cfg.APIURL)
	}
	if cfg.DefaultModel != model.DefaultModelID {
		t.Errorf("DefaultModel = %q", cfg.DefaultModel)
	}
	if cfg.Temperature != 0.7 || cfg.MaxTokens != 4096 {
		t.Errorf("sampling defaults = %v / %d", cfg.Temperature, cfg.MaxTokens)
	}
	if cfg.Storage != "file" || cfg.LogLevel != "info" {
		t.Errorf("Storage/LogLevel = %q/%q", cfg.Storage, cfg.LogLevel)
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if cfg.DefaultModel != model.DefaultModelID {
		t.Errorf("DefaultModel = %q", cfg.DefaultModel)
	}
	home := os.Getenv("AURORA_HOME")
	if cfg.DataDir != filepath.Join(home, "data") {
		t.Errorf("DataDir = %q, want under %q", cfg.DataDir, home)
	}
	if cfg.LogPath() != filepath.Join(home, "data", "aurora.log") {
		t.Errorf("LogPath = %q", cfg.LogPath())
	}
}

func TestLoadFromPath_FileAndEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
api_key = "file-key"
default_model = "gemma2-9b-it"
max_tokens = 1024
storage = "sqlite"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("GROQ_API_KEY", "  env-key  ")
	t.Setenv("AURORA_LOG_LEVEL", "DEBUG")

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}

	if cfg.APIKey != "env-key" {
		t.Errorf("APIKey = %q, env should win and be trimmed", cfg.APIKey)
	}
	if cfg.DefaultModel != "gemma2-9b-it" || cfg.MaxTokens != 1024 || cfg.Storage != "sqlite" {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Temperature != 0.7 {
		t.Errorf("missing temperature should default, got %v", cfg.Temperature)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 && os.PathSeparator == '/' {
		t.Errorf("config permissions = %o, want tightened to 600", perm)
	}
}

func TestLoadFromPath_InvalidEnvNumber(t *testing.T) {
	clearEnv(t)
	t.Setenv("AURORA_MAX_TOKENS", "lots")

	if _, err := LoadFromPath(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Error("expected error for non-numeric AURORA_MAX_TOKENS")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name       string
		modify     func(*Config)
		wantFields []string
	}{
		{"valid", func(c *Config) {}, nil},
		{"relative url", func(c *Config) { c.APIURL = "api.groq.com" }, []string{"api_url"}},
		{"ftp url", func(c *Config) { c.APIURL = "ftp://example.com" }, []string{"api_url"}},
		{"temperature", func(c *Config) { c.Temperature = 3 }, []string{"temperature"}},
		{"max tokens", func(c *Config) { c.MaxTokens = -1 }, []string{"max_tokens"}},
		{"storage", func(c *Config) { c.Storage = "redis" }, []string{"storage"}},
		{"several", func(c *Config) {
			c.LogLevel = "loud"
			c.DefaultModel = " "
		}, []string{"default_model", "log_level"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()

			if len(tt.wantFields) == 0 {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}

			var merr *multierror.Error
			if !errors.As(err, &merr) {
				t.Fatalf("Validate() = %v, want *multierror.Error", err)
			}
			if len(merr.Errors) != len(tt.wantFields) {
				t.Fatalf("got %d errors (%v), want %d", len(merr.Errors), err, len(tt.wantFields))
			}
			for i, field := range tt.wantFields {
				var verr *ValidationError
				if !errors.As(merr.Errors[i], &verr) || verr.Field != field {
					t.Errorf("error %d = %v, want field %s", i, merr.Errors[i], field)
				}
			}
		})
	}
}

func TestSaveTOML_RoundTrip(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := Default()
	cfg.APIKey = "gsk_secret"
	cfg.DefaultModel = "mixtral-8x7b-32768"

	if err := SaveTOML(cfg, path); err != nil {
		t.Fatalf("SaveTOML failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 && os.PathSeparator == '/' {
		t.Errorf("permissions = %o, want 600", perm)
	}

	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if loaded.APIKey != "gsk_secret" || loaded.DefaultModel != "mixtral-8x7b-32768" {
		t.Errorf("round trip lost values: %+v", loaded)
	}
}

func TestConfig_GetSet(t *testing.T) {
	cfg := Default()

	if err := cfg.Set("max_tokens", "2048"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := cfg.Set("temperature", "0.3"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := cfg.Set("default-model", "gemma2-9b-it"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if v, _ := cfg.Get("max_tokens"); v != "2048" {
		t.Errorf("Get(max_tokens) = %q", v)
	}
	if cfg.Temperature != 0.3 || cfg.DefaultModel != "gemma2-9b-it" {
		t.Errorf("Set did not apply: %+v", cfg)
	}

	if err := cfg.Set("max_tokens", "many"); err == nil {
		t.Error("expected parse error")
	}
	if _, err := cfg.Get("routing.mode"); err == nil {
		t.Error("expected unknown key error")
	}
}

func TestKeys(t *testing.T) {
	keys := Keys()
	if len(keys) != 8 || keys[0] != "api_key" || keys[len(keys)-1] != "log_level" {
		t.Errorf("Keys() = %v", keys)
	}
}

func TestConfig_StringRedactsKey(t *testing.T) {
	cfg := Default()
	cfg.APIKey = "gsk_abcdefghijklmnop"

	s := cfg.String()
	if strings.Contains(s, "gsk_abcdefghijklmnop") {
		t.Error("String() leaked the API key")
	}
	if !strings.Contains(s, "[REDACTED]") {
		t.Errorf("String() = %s", s)
	}

	if got := cfg.MaskedKey(); got != "gsk_************mnop" {
		t.Errorf("MaskedKey() = %q", got)
	}
	cfg.APIKey = ""
	if got := cfg.MaskedKey(); got != "(not set)" {
		t.Errorf("MaskedKey() = %q", got)
	}
}
