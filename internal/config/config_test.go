package config

import (
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		BaseURL:     DefaultBaseURL,
		SessionPath: "session.json",
		Timeout:     30 * time.Second,
		LogLevel:    "info",
		Parallel:    4,
	}
}

func TestValidateConfigRejectsInvalidValues(t *testing.T) {
	tests := map[string]func(*Config){
		"empty base url":  func(c *Config) { c.BaseURL = "" },
		"ftp base url":    func(c *Config) { c.BaseURL = "ftp://api.robinhood.com" },
		"no host":         func(c *Config) { c.BaseURL = "https://" },
		"zero timeout":    func(c *Config) { c.Timeout = 0 },
		"zero parallel":   func(c *Config) { c.Parallel = 0 },
		"bad log level":   func(c *Config) { c.LogLevel = "loud" },
		"no session path": func(c *Config) { c.SessionPath = "" },
	}
	for name, mutate := range tests {
		cfg := validConfig()
		mutate(&cfg)
		if err := validate(cfg); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}

func TestValidateConfigAcceptsValidConfig(t *testing.T) {
	if err := validate(validConfig()); err != nil {
		t.Fatalf("expected config to be valid, got %v", err)
	}
}

func TestSlogLevel(t *testing.T) {
	cfg := validConfig()
	cfg.LogLevel = "debug"
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Fatalf("expected debug, got %v", cfg.SlogLevel())
	}
	cfg.LogLevel = "WARN"
	if cfg.SlogLevel() != slog.LevelWarn {
		t.Fatalf("expected warn, got %v", cfg.SlogLevel())
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearRobinhoodEnv(t)
	resetFlags := resetFlagSet(t)
	defer resetFlags()

	os.Args = []string{"cmd", "quote", "AAPL"}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.BaseURL != DefaultBaseURL {
		t.Fatalf("expected default base url, got %q", cfg.BaseURL)
	}
	if cfg.Timeout != 30*time.Second || cfg.Parallel != 4 || cfg.LogLevel != "info" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.Command != "quote" || len(cfg.Args) != 1 || cfg.Args[0] != "AAPL" {
		t.Fatalf("unexpected command %q args %v", cfg.Command, cfg.Args)
	}
}

func TestLoadConfigPrecedence(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	configContents := `base_url: https://file.example.com
username: file-user
password: file-pass
parallel: 8
timeout: 5s
log_level: debug
no_color: true
`
	if err := os.WriteFile(configPath, []byte(configContents), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	clearRobinhoodEnv(t)
	t.Setenv("RH_USERNAME", "env-user")
	t.Setenv("RH_BASE_URL", "https://env.example.com")

	resetFlags := resetFlagSet(t)
	defer resetFlags()

	os.Args = []string{
		"cmd",
		"--config", configPath,
		"--parallel", "2",
		"--base-url", "https://cli.example.com",
		"fundamentals", "AAPL", "MSFT",
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.Parallel != 2 {
		t.Fatalf("expected parallel from CLI, got %d", cfg.Parallel)
	}
	if cfg.BaseURL != "https://cli.example.com" {
		t.Fatalf("expected base url from CLI, got %q", cfg.BaseURL)
	}
	if cfg.Username != "env-user" {
		t.Fatalf("expected username from env, got %q", cfg.Username)
	}
	if cfg.Password != "file-pass" {
		t.Fatalf("expected password from file, got %q", cfg.Password)
	}
	if cfg.Timeout != 5*time.Second || cfg.LogLevel != "debug" || !cfg.NoColor {
		t.Fatalf("expected file values, got %+v", cfg)
	}
	if cfg.Command != "fundamentals" || len(cfg.Args) != 2 {
		t.Fatalf("unexpected command %q args %v", cfg.Command, cfg.Args)
	}
}

func TestLoadConfigRejectsBadFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("timeout: soon\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	clearRobinhoodEnv(t)
	resetFlags := resetFlagSet(t)
	defer resetFlags()

	os.Args = []string{"cmd", "--config", configPath, "user"}
	if _, err := Load(); err == nil {
		t.Fatal("expected error for bad timeout")
	}

	resetFlagSet(t)
	os.Args = []string{"cmd", "--config", filepath.Join(dir, "missing.yaml"), "user"}
	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func clearRobinhoodEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"RH_BASE_URL", "RH_USERNAME", "RH_PASSWORD", "RH_MFA_CODE", "RH_TOKEN"} {
		t.Setenv(key, "")
	}
}

func resetFlagSet(t *testing.T) func() {
	t.Helper()
	originalArgs := os.Args
	originalCommandLine := flag.CommandLine
	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	return func() {
		flag.CommandLine = originalCommandLine
		os.Args = originalArgs
	}
}
