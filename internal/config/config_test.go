package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNewDefaultsWhenMissing(t *testing.T) {
	home := t.TempDir()
	t.Setenv("VETAID_API_URL", "")
	t.Setenv("VETAID_TIMEOUT", "")
	c, err := New(home)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if c.BaseURL() != "http://127.0.0.1:8000" {
		t.Fatalf("wrong default base url: %s", c.BaseURL())
	}
	if c.Timeout() != 15*time.Second {
		t.Fatalf("wrong default timeout: %s", c.Timeout())
	}
	if c.DownloadsDir() != filepath.Join(home, "downloads") {
		t.Fatalf("wrong downloads dir: %s", c.DownloadsDir())
	}
	if c.SessionTokenPath() != filepath.Join(home, "session", "token") {
		t.Fatalf("wrong session token path: %s", c.SessionTokenPath())
	}
}

func TestNewParsesYaml(t *testing.T) {
	home := t.TempDir()
	configYAML := strings.TrimSpace(`
version: 1
api:
  base_url: https://api.example.org/
  timeout: 45s
downloads:
  dir: saved
`)
	if err := os.WriteFile(filepath.Join(home, "config.yaml"), []byte(configYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("VETAID_API_URL", "")
	t.Setenv("VETAID_TIMEOUT", "")
	c, err := New(home)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if c.BaseURL() != "https://api.example.org" {
		t.Fatalf("trailing slash should be trimmed: %s", c.BaseURL())
	}
	if c.Timeout() != 45*time.Second {
		t.Fatalf("wrong timeout: %s", c.Timeout())
	}
	if c.DownloadsDir() != filepath.Join(home, "saved") {
		t.Fatalf("relative downloads dir should resolve under home: %s", c.DownloadsDir())
	}
}

func TestNewEnvOverrides(t *testing.T) {
	home := t.TempDir()
	t.Setenv("VETAID_API_URL", "http://10.0.0.5:9000/")
	t.Setenv("VETAID_TIMEOUT", "3s")
	c, err := New(home)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if c.BaseURL() != "http://10.0.0.5:9000" {
		t.Fatalf("env url override lost: %s", c.BaseURL())
	}
	if c.Timeout() != 3*time.Second {
		t.Fatalf("env timeout override lost: %s", c.Timeout())
	}
}

func TestNewRejectsBadBaseURL(t *testing.T) {
	home := t.TempDir()
	configYAML := "version: 1\napi:\n  base_url: ftp://example.org\n"
	if err := os.WriteFile(filepath.Join(home, "config.yaml"), []byte(configYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := New(home); err == nil {
		t.Fatalf("expected validation error for a non-http base url")
	}
}

func TestNewRejectsBadDuration(t *testing.T) {
	home := t.TempDir()
	configYAML := "version: 1\napi:\n  timeout: soon\n"
	if err := os.WriteFile(filepath.Join(home, "config.yaml"), []byte(configYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := New(home); err == nil {
		t.Fatalf("expected parse error for an invalid duration")
	}
}

func TestInitHomeCreatesLayout(t *testing.T) {
	home := filepath.Join(t.TempDir(), "veteranaid-home")
	if err := InitHome(home); err != nil {
		t.Fatalf("InitHome returned error: %v", err)
	}
	for _, dir := range []string{"logs", "session", "downloads"} {
		info, err := os.Stat(filepath.Join(home, dir))
		if err != nil || !info.IsDir() {
			t.Fatalf("missing %s directory: %v", dir, err)
		}
	}
	if _, err := os.Stat(filepath.Join(home, "config.yaml")); err != nil {
		t.Fatalf("default config not written: %v", err)
	}

	// A second init must not clobber an edited config.
	custom := "version: 1\napi:\n  base_url: http://edited:8000\n"
	if err := os.WriteFile(filepath.Join(home, "config.yaml"), []byte(custom), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := InitHome(home); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(home, "config.yaml"))
	if err != nil || !strings.Contains(string(data), "edited") {
		t.Fatalf("InitHome overwrote an existing config: %q %v", data, err)
	}
}

func TestResolveHomeHonorsEnv(t *testing.T) {
	t.Setenv("VETAID_HOME", "/tmp/custom-vetaid/")
	home, err := ResolveHome()
	if err != nil {
		t.Fatalf("ResolveHome returned error: %v", err)
	}
	if home != "/tmp/custom-vetaid" {
		t.Fatalf("VETAID_HOME not honored: %s", home)
	}
}

func TestDefaultConfigYAMLRoundTrips(t *testing.T) {
	home := t.TempDir()
	if err := ensureConfigFile(filepath.Join(home, "config.yaml")); err != nil {
		t.Fatal(err)
	}
	c, err := New(home)
	if err != nil {
		t.Fatalf("the shipped default config must parse: %v", err)
	}
	if c.Timeout() != 15*time.Second {
		t.Fatalf("default config carries a 15s timeout, got %s", c.Timeout())
	}
}
