// internal/config/config.go
//
// This package handles configuration and the veteranaid home directory.
// Every user gets a ~/.veteranaid/ folder holding config, logs, the saved
// session token and downloaded files.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// HomeDirName is the directory we create under the user's home.
	HomeDirName = ".veteranaid"

	defaultBaseURL = "http://127.0.0.1:8000"
	defaultTimeout = 15 * time.Second
)

const defaultConfigYAML = `# veteranaid client configuration
version: 1

api:
  # Base URL of the veteran-aid backend.
  base_url: http://127.0.0.1:8000
  # Request timeout (Go duration syntax).
  timeout: 15s

downloads:
  # Directory for downloaded documents and generated PDFs,
  # relative to the veteranaid home unless absolute.
  dir: downloads
`

// Duration wraps time.Duration so YAML can carry values like "15s".
type Duration time.Duration

// UnmarshalYAML parses Go duration syntax.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(value.Value))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML renders Go duration syntax.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// APIConfig captures how the client reaches the backend.
type APIConfig struct {
	BaseURL string   `yaml:"base_url"`
	Timeout Duration `yaml:"timeout"`
}

// DownloadsConfig captures where binary payloads are written.
type DownloadsConfig struct {
	Dir string `yaml:"dir"`
}

// FileConfig models ~/.veteranaid/config.yaml.
type FileConfig struct {
	Version   int             `yaml:"version"`
	API       APIConfig       `yaml:"api"`
	Downloads DownloadsConfig `yaml:"downloads"`
}

// Config holds the runtime configuration for the client.
type Config struct {
	// Home is the veteranaid home directory (~/.veteranaid by default,
	// VETAID_HOME overrides it).
	Home string

	File FileConfig
}

// InitHome creates the veteranaid home directory structure and a default
// config file when none exists. Called once at startup.
func InitHome(home string) error {
	dirs := []string{
		filepath.Join(home, "logs"),
		filepath.Join(home, "session"),
		filepath.Join(home, "downloads"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return ensureConfigFile(filepath.Join(home, "config.yaml"))
}

// ResolveHome returns the veteranaid home directory, honoring VETAID_HOME.
func ResolveHome() (string, error) {
	if env := strings.TrimSpace(os.Getenv("VETAID_HOME")); env != "" {
		return filepath.Clean(env), nil
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: resolve home: %w", err)
	}
	return filepath.Join(userHome, HomeDirName), nil
}

// New loads configuration for the given home directory. A .env file in the
// working directory is loaded first so VETAID_* variables can live there;
// environment variables override the config file.
func New(home string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Home: home,
		File: defaultFileConfig(),
	}
	if err := cfg.loadFileConfig(); err != nil {
		return nil, err
	}
	cfg.applyEnvOverrides()
	if err := cfg.File.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// BaseURL returns the backend base URL without a trailing slash.
func (c *Config) BaseURL() string {
	return strings.TrimRight(c.File.API.BaseURL, "/")
}

// Timeout returns the per-request HTTP timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.File.API.Timeout)
}

// LogsDir returns the path to the logs directory.
func (c *Config) LogsDir() string {
	return filepath.Join(c.Home, "logs")
}

// SessionTokenPath returns the file holding the persisted access token.
func (c *Config) SessionTokenPath() string {
	return filepath.Join(c.Home, "session", "token")
}

// DownloadsDir returns the directory downloads are written to.
func (c *Config) DownloadsDir() string {
	dir := strings.TrimSpace(c.File.Downloads.Dir)
	if dir == "" {
		dir = "downloads"
	}
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir)
	}
	return filepath.Join(c.Home, dir)
}

// ConfigPath returns the on-disk location for the config file.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.Home, "config.yaml")
}

func (c *Config) loadFileConfig() error {
	path := c.ConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	var parsed FileConfig
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	parsed.applyDefaults()
	parsed.normalize()
	c.File = parsed
	return nil
}

func (c *Config) applyEnvOverrides() {
	if url := strings.TrimSpace(os.Getenv("VETAID_API_URL")); url != "" {
		c.File.API.BaseURL = url
	}
	if raw := strings.TrimSpace(os.Getenv("VETAID_TIMEOUT")); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			c.File.API.Timeout = Duration(d)
		}
	}
	c.File.normalize()
}

func defaultFileConfig() FileConfig {
	return FileConfig{
		Version: 1,
		API: APIConfig{
			BaseURL: defaultBaseURL,
			Timeout: Duration(defaultTimeout),
		},
		Downloads: DownloadsConfig{Dir: "downloads"},
	}
}

func (fc *FileConfig) applyDefaults() {
	if fc.Version == 0 {
		fc.Version = 1
	}
	if strings.TrimSpace(fc.API.BaseURL) == "" {
		fc.API.BaseURL = defaultBaseURL
	}
	if fc.API.Timeout <= 0 {
		fc.API.Timeout = Duration(defaultTimeout)
	}
	if strings.TrimSpace(fc.Downloads.Dir) == "" {
		fc.Downloads.Dir = "downloads"
	}
}

func (fc *FileConfig) normalize() {
	fc.API.BaseURL = strings.TrimRight(strings.TrimSpace(fc.API.BaseURL), "/")
	fc.Downloads.Dir = strings.TrimSpace(fc.Downloads.Dir)
}

func (fc FileConfig) validate() error {
	if fc.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	if !strings.HasPrefix(fc.API.BaseURL, "http://") && !strings.HasPrefix(fc.API.BaseURL, "https://") {
		return fmt.Errorf("api.base_url must start with http:// or https://")
	}
	if fc.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive")
	}
	return nil
}

func ensureConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
