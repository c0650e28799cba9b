package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

type envTestConfig struct {
	Port    int           `env:"LIBRARY_ADMIN_TEST_PORT" envDefault:"123"`
	Timeout time.Duration `env:"LIBRARY_ADMIN_TEST_TIMEOUT"`
}

func TestParseEnvFromDefaults(t *testing.T) {
	var cfg envTestConfig

	if err := ParseEnvFrom(&cfg, map[string]string{}); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Port != 123 {
		t.Fatalf("expected default port 123, got %d", cfg.Port)
	}
}

func TestParseEnvFromError(t *testing.T) {
	var cfg envTestConfig

	err := ParseEnvFrom(&cfg, map[string]string{"LIBRARY_ADMIN_TEST_PORT": "not-an-int"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestParseEnvFromUsesProvidedEnvironment(t *testing.T) {
	t.Setenv("LIBRARY_ADMIN_TEST_PORT", "999")

	var cfg envTestConfig
	err := ParseEnvFrom(&cfg, map[string]string{
		"LIBRARY_ADMIN_TEST_PORT":    "8080",
		"LIBRARY_ADMIN_TEST_TIMEOUT": "3s",
	})
	if err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Port != 8080 {
		t.Fatalf("port = %d, want 8080", cfg.Port)
	}
	if cfg.Timeout != 3*time.Second {
		t.Fatalf("timeout = %v, want 3s", cfg.Timeout)
	}
}

type fileTestConfig struct {
	Addr  string   `toml:"addr"`
	Debug bool     `toml:"debug"`
	Tags  []string `toml:"tags"`
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "admin.toml")
	writeFile(t, path, "addr = \":9000\"\ndebug = true\ntags = [\"a\", \"b\"]\n")

	var cfg fileTestConfig
	if err := LoadFile(path, &cfg); err != nil {
		t.Fatalf("load file: %v", err)
	}
	if cfg.Addr != ":9000" || !cfg.Debug || len(cfg.Tags) != 2 {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestLoadFileRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "admin.toml")
	writeFile(t, path, "addr = \":9000\"\nport = 1\n")

	var cfg fileTestConfig
	err := LoadFile(path, &cfg)
	if err == nil || !strings.Contains(err.Error(), "unknown keys port") {
		t.Fatalf("err = %v, want unknown keys error", err)
	}
}

func TestLoadFileErrors(t *testing.T) {
	var cfg fileTestConfig
	if err := LoadFile(filepath.Join(t.TempDir(), "missing.toml"), &cfg); err == nil {
		t.Fatal("expected missing file error")
	}

	path := filepath.Join(t.TempDir(), "bad.toml")
	writeFile(t, path, "addr = \n")
	if err := LoadFile(path, &cfg); err == nil {
		t.Fatal("expected decode error")
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
