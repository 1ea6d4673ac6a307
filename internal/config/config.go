package config

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"robinhood/internal/endpoint"
)

const DefaultBaseURL = endpoint.DefaultBaseURL

type Config struct {
	ConfigPath  string
	BaseURL     string
	Username    string
	Password    string
	MFACode     string
	Token       string
	SessionPath string
	CallLogPath string
	Timeout     time.Duration
	LogLevel    string
	NoColor     bool
	Parallel    int
	Nonzero     bool
	Command     string
	Args        []string
}

// fileConfig is the YAML shape read from --config. Zero values mean unset.
type fileConfig struct {
	BaseURL     string `yaml:"base_url"`
	Username    string `yaml:"username"`
	Password    string `yaml:"password"`
	MFACode     string `yaml:"mfa_code"`
	Token       string `yaml:"token"`
	SessionPath string `yaml:"session_path"`
	CallLogPath string `yaml:"call_log_path"`
	Timeout     string `yaml:"timeout"`
	LogLevel    string `yaml:"log_level"`
	NoColor     *bool  `yaml:"no_color"`
	Parallel    int    `yaml:"parallel"`
}

// Load resolves configuration with precedence flag > env > file > default.
func Load() (Config, error) {
	var cfg Config

	loadDotEnvIfPresent(".env")

	flag.StringVar(&cfg.ConfigPath, "config", "", "path to YAML config file")
	flag.StringVar(&cfg.BaseURL, "base-url", DefaultBaseURL, "Robinhood API base URL")
	flag.StringVar(&cfg.Username, "username", "", "account username")
	flag.StringVar(&cfg.Password, "password", "", "account password")
	flag.StringVar(&cfg.MFACode, "mfa-code", "", "one-time MFA code")
	flag.StringVar(&cfg.Token, "token", "", "existing access token, skips login")
	flag.StringVar(&cfg.SessionPath, "session-path", "session.json", "path to session file")
	flag.StringVar(&cfg.CallLogPath, "call-log-path", "", "path to NDJSON call log, empty disables it")
	flag.DurationVar(&cfg.Timeout, "timeout", 30*time.Second, "HTTP client timeout")
	flag.StringVar(&cfg.LogLevel, "log-level", "info", "log level: debug, info, warn or error")
	flag.BoolVar(&cfg.NoColor, "no-color", false, "disable colored log output")
	flag.IntVar(&cfg.Parallel, "parallel", 4, "max concurrent fundamentals requests")
	flag.BoolVar(&cfg.Nonzero, "nonzero", false, "only list positions with nonzero quantity")
	flag.Parse()

	explicit := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) {
		explicit[f.Name] = true
	})

	if cfg.ConfigPath != "" {
		file, err := readFile(cfg.ConfigPath)
		if err != nil {
			return cfg, err
		}
		if err := applyFile(&cfg, file, explicit); err != nil {
			return cfg, err
		}
	}
	applyEnv(&cfg, explicit)

	if args := flag.Args(); len(args) > 0 {
		cfg.Command = args[0]
		cfg.Args = args[1:]
	}

	if err := validate(cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func readFile(path string) (fileConfig, error) {
	var file fileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return file, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return file, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return file, nil
}

func applyFile(cfg *Config, file fileConfig, explicit map[string]bool) error {
	setString := func(name string, dst *string, value string) {
		if value != "" && !explicit[name] {
			*dst = value
		}
	}
	setString("base-url", &cfg.BaseURL, file.BaseURL)
	setString("username", &cfg.Username, file.Username)
	setString("password", &cfg.Password, file.Password)
	setString("mfa-code", &cfg.MFACode, file.MFACode)
	setString("token", &cfg.Token, file.Token)
	setString("session-path", &cfg.SessionPath, file.SessionPath)
	setString("call-log-path", &cfg.CallLogPath, file.CallLogPath)
	setString("log-level", &cfg.LogLevel, file.LogLevel)

	if file.Timeout != "" && !explicit["timeout"] {
		timeout, err := time.ParseDuration(file.Timeout)
		if err != nil {
			return fmt.Errorf("config file timeout: %w", err)
		}
		cfg.Timeout = timeout
	}
	if file.NoColor != nil && !explicit["no-color"] {
		cfg.NoColor = *file.NoColor
	}
	if file.Parallel != 0 && !explicit["parallel"] {
		cfg.Parallel = file.Parallel
	}
	return nil
}

func applyEnv(cfg *Config, explicit map[string]bool) {
	envs := []struct {
		flag string
		key  string
		dst  *string
	}{
		{"base-url", "RH_BASE_URL", &cfg.BaseURL},
		{"username", "RH_USERNAME", &cfg.Username},
		{"password", "RH_PASSWORD", &cfg.Password},
		{"mfa-code", "RH_MFA_CODE", &cfg.MFACode},
		{"token", "RH_TOKEN", &cfg.Token},
	}
	for _, env := range envs {
		if explicit[env.flag] {
			continue
		}
		if value := os.Getenv(env.key); value != "" {
			*env.dst = value
		}
	}
}

// SlogLevel returns the parsed log level. validate has already rejected
// unknown names.
func (c Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func validate(cfg Config) error {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid base-url: %q", cfg.BaseURL)
	}
	if cfg.Timeout <= 0 {
		return errors.New("timeout must be > 0")
	}
	if cfg.Parallel <= 0 {
		return errors.New("parallel must be > 0")
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return fmt.Errorf("invalid log-level: %s", cfg.LogLevel)
	}
	if cfg.SessionPath == "" {
		return errors.New("session-path is required")
	}
	return nil
}
