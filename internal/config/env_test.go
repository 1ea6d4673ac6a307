package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDotEnvSetsValues(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, ".env")
	content := "# credentials\nRH_USERNAME=alice\nexport RH_PASSWORD=\"p@ss word\"\n\nRH_MFA_CODE='123456'\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	unsetEnv(t, "RH_USERNAME")
	unsetEnv(t, "RH_PASSWORD")
	unsetEnv(t, "RH_MFA_CODE")
	defer unsetEnv(t, "RH_USERNAME")
	defer unsetEnv(t, "RH_PASSWORD")
	defer unsetEnv(t, "RH_MFA_CODE")

	if err := loadDotEnv(path); err != nil {
		t.Fatalf("loadDotEnv error: %v", err)
	}

	if got := os.Getenv("RH_USERNAME"); got != "alice" {
		t.Fatalf("expected username to be set, got %q", got)
	}
	if got := os.Getenv("RH_PASSWORD"); got != "p@ss word" {
		t.Fatalf("expected quoted password to be unquoted, got %q", got)
	}
	if got := os.Getenv("RH_MFA_CODE"); got != "123456" {
		t.Fatalf("expected mfa code to be set, got %q", got)
	}
}

func TestLoadDotEnvDoesNotOverrideExisting(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, ".env")
	content := "RH_TOKEN=from_file\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	if err := os.Setenv("RH_TOKEN", "from_env"); err != nil {
		t.Fatalf("set env: %v", err)
	}
	defer unsetEnv(t, "RH_TOKEN")

	if err := loadDotEnv(path); err != nil {
		t.Fatalf("loadDotEnv error: %v", err)
	}

	if got := os.Getenv("RH_TOKEN"); got != "from_env" {
		t.Fatalf("expected env to win, got %q", got)
	}
}

func TestLoadDotEnvRejectsBadLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("RH_TOKEN\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	if err := loadDotEnv(path); err == nil {
		t.Fatal("expected error for line without '='")
	}
}

func TestLoadDotEnvMissingFile(t *testing.T) {
	if err := loadDotEnv(filepath.Join(t.TempDir(), ".env")); !os.IsNotExist(err) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func unsetEnv(t *testing.T, key string) {
	t.Helper()
	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("unset env: %v", err)
	}
}
