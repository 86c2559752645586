package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ksyq12/dottux/internal/domain"
	"github.com/ksyq12/dottux/internal/driver"
	tuxerrors "github.com/ksyq12/dottux/internal/errors"
	"github.com/ksyq12/dottux/internal/platform"
)

// Config represents the application configuration
type Config struct {
	Backend        string        `yaml:"backend"`
	ReservedDomain string        `yaml:"reserved_domain,omitempty"`
	ListenPort     int           `yaml:"listen_port,omitempty"`
	ReloadTimeout  time.Duration `yaml:"reload_timeout,omitempty"`
	Paths          Paths         `yaml:"paths,omitempty"`
	Panel          Panel         `yaml:"panel,omitempty"`
	Watch          Watch         `yaml:"watch,omitempty"`
	LogLevel       string        `yaml:"log_level,omitempty"`
	LogFormat      string        `yaml:"log_format,omitempty"`
}

// Paths overrides the detected filesystem locations
type Paths struct {
	Artifacts    string `yaml:"artifacts,omitempty"`
	Sites        string `yaml:"sites,omitempty"`
	ReloadScript string `yaml:"reload_script,omitempty"`
}

// Panel configures the web control panel
type Panel struct {
	Listen        string `yaml:"listen,omitempty"`
	RatePerMinute int    `yaml:"rate_per_minute,omitempty"`
}

// Watch configures the artifacts-directory watcher
type Watch struct {
	Debounce time.Duration `yaml:"debounce,omitempty"`
}

// Defaults
const (
	DefaultReloadTimeout = 30 * time.Second
	DefaultPanelListen   = "127.0.0.1:5000"
	DefaultPanelRate     = 30
	DefaultDebounce      = 2 * time.Second
)

// configDir is the default config directory
const configDir = ".config/dottux"
const configFile = "config.yaml"

// EnvConfigPath overrides the config file location
const EnvConfigPath = "DOTTUX_CONFIG"

// pathOverride is set by the --config flag
var pathOverride string

// SetPath overrides the config file location for this process
func SetPath(path string) {
	pathOverride = path
}

// New creates a new Config with default values.
// The backend is left empty: a missing selection is reported, never defaulted.
func New() *Config {
	return &Config{
		ReservedDomain: string(domain.DefaultReserved),
		ListenPort:     driver.DefaultListenPort,
		ReloadTimeout:  DefaultReloadTimeout,
		Panel: Panel{
			Listen:        DefaultPanelListen,
			RatePerMinute: DefaultPanelRate,
		},
		Watch:     Watch{Debounce: DefaultDebounce},
		LogLevel:  "warn",
		LogFormat: "console",
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	path, err := ConfigPath()
	if err != nil {
		return "", err
	}
	return filepath.Dir(path), nil
}

// ConfigPath returns the config file path
func ConfigPath() (string, error) {
	if pathOverride != "" {
		return pathOverride, nil
	}
	if env := os.Getenv(EnvConfigPath); env != "" {
		return env, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, configDir, configFile), nil
}

// Load reads the config from disk
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	// If config doesn't exist, return default config
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return New(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := New()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}

	// Create config directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// ActiveBackend returns the selected backend.
// An empty selection is BackendNotConfigured and names the config file.
func (c *Config) ActiveBackend() (driver.Backend, error) {
	if c.Backend == "" {
		source := configFile
		if path, err := ConfigPath(); err == nil {
			source = path
		}
		return "", tuxerrors.BackendNotConfigured(source)
	}
	return driver.ParseBackend(c.Backend)
}

// Reserved returns the control panel's own domain
func (c *Config) Reserved() domain.Name {
	if c.ReservedDomain == "" {
		return domain.DefaultReserved
	}
	return domain.Name(c.ReservedDomain)
}

// Resolved holds absolute paths for one backend after applying defaults
type Resolved struct {
	Backend      driver.Backend
	ArtifactsDir string
	SitesDir     string
	ReloadScript string
}

// Resolve fills path defaults for backend b: the platform artifacts directory,
// $HOME/sites and $HOME/Dot-Tux/reload.sh.
func (c *Config) Resolve(b driver.Backend) (*Resolved, error) {
	r := &Resolved{
		Backend:      b,
		ArtifactsDir: c.Paths.Artifacts,
		SitesDir:     c.Paths.Sites,
		ReloadScript: c.Paths.ReloadScript,
	}

	if r.ArtifactsDir == "" {
		detected, err := platform.DetectPaths()
		if err != nil {
			return nil, fmt.Errorf("failed to detect artifacts directory (set paths.artifacts): %w", err)
		}
		dir, err := detected.ForBackend(string(b))
		if err != nil {
			return nil, err
		}
		r.ArtifactsDir = dir
	}

	if r.SitesDir == "" || r.ReloadScript == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		if r.SitesDir == "" {
			r.SitesDir = filepath.Join(home, "sites")
		}
		if r.ReloadScript == "" {
			r.ReloadScript = filepath.Join(home, "Dot-Tux", "reload.sh")
		}
	}

	// relative paths would be resolved by the web server against its own prefix
	for _, p := range []*string{&r.ArtifactsDir, &r.SitesDir, &r.ReloadScript} {
		abs, err := filepath.Abs(*p)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", *p, err)
		}
		*p = abs
	}

	return r, nil
}

// Timeout returns the reload timeout, falling back to the default
func (c *Config) Timeout() time.Duration {
	if c.ReloadTimeout <= 0 {
		return DefaultReloadTimeout
	}
	return c.ReloadTimeout
}
