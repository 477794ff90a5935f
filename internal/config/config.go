// Package config handles loading and managing phishcoach configuration.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// Duration is a time.Duration that decodes from TOML strings like "100ms".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// BackendConfig holds the coaching backend connection settings.
type BackendConfig struct {
	URL           string   `toml:"url"`            // Base URL of the coaching backend
	Timeout       Duration `toml:"timeout"`        // Per-request transport timeout
	AllowInsecure bool     `toml:"allow_insecure"` // Permit plain http to non-loopback hosts
}

// FeedConfig holds email feed polling settings.
type FeedConfig struct {
	PollInterval Duration `toml:"poll_interval"` // Delay between batch polls (default: 100ms)
}

// FixtureConfig holds settings for the fixture backend (serve-fixture).
type FixtureConfig struct {
	BindAddr        string   `toml:"bind_addr"`
	Port            int      `toml:"port"`
	Samples         string   `toml:"samples"`          // TOML file or directory of .eml files
	BatchSize       int      `toml:"batch_size"`       // Messages released per poll
	GenerationDelay Duration `toml:"generation_delay"` // Simulated generation time per message
	RateLimitQPS    float64  `toml:"rate_limit_qps"`
	CORSOrigins     []string `toml:"cors_origins"`
}

// Config represents the phishcoach configuration.
type Config struct {
	Backend BackendConfig `toml:"backend"`
	Feed    FeedConfig    `toml:"feed"`
	Fixture FixtureConfig `toml:"fixture"`

	// Computed paths (not from config file)
	HomeDir    string `toml:"-"`
	configPath string
}

// DefaultHome returns the default phishcoach home directory.
// Respects PHISHCOACH_HOME environment variable.
func DefaultHome() string {
	if h := os.Getenv("PHISHCOACH_HOME"); h != "" {
		return expandPath(h)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".phishcoach"
	}
	return filepath.Join(home, ".phishcoach")
}

// Default returns a configuration populated with defaults for homeDir.
func Default(homeDir string) *Config {
	return &Config{
		HomeDir: homeDir,
		Backend: BackendConfig{
			URL:     "http://127.0.0.1:8081",
			Timeout: Duration{30 * time.Second},
		},
		Feed: FeedConfig{
			PollInterval: Duration{100 * time.Millisecond},
		},
		Fixture: FixtureConfig{
			BindAddr:     "127.0.0.1",
			Port:         8081,
			Samples:      filepath.Join(homeDir, "samples.toml"),
			BatchSize:    1,
			RateLimitQPS: 20,
		},
	}
}

// Load reads the configuration from the specified file.
// If path is empty, uses <home>/config.toml. homeDir overrides the default
// home (PHISHCOACH_HOME or ~/.phishcoach) when non-empty.
func Load(path, homeDir string) (*Config, error) {
	if homeDir == "" {
		homeDir = DefaultHome()
	}
	homeDir = expandPath(homeDir)

	if path == "" {
		path = filepath.Join(homeDir, "config.toml")
	}
	path = expandPath(path)

	cfg := Default(homeDir)
	cfg.configPath = path

	// Config file is optional - use defaults if not present
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg.Fixture.Samples = expandPath(cfg.Fixture.Samples)
	if cfg.Fixture.Samples != "" && !filepath.IsAbs(cfg.Fixture.Samples) {
		cfg.Fixture.Samples = filepath.Join(homeDir, cfg.Fixture.Samples)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges that the rest of the program relies on.
func (c *Config) Validate() error {
	if c.Backend.URL == "" {
		return fmt.Errorf("[backend] url is required")
	}
	if c.Backend.Timeout.Duration < 0 {
		return fmt.Errorf("[backend] timeout must not be negative")
	}
	if c.Feed.PollInterval.Duration <= 0 {
		return fmt.Errorf("[feed] poll_interval must be positive, got %s", c.Feed.PollInterval)
	}
	if c.Fixture.Port <= 0 || c.Fixture.Port > 65535 {
		return fmt.Errorf("[fixture] port must be between 1 and 65535, got %d", c.Fixture.Port)
	}
	if c.Fixture.BatchSize <= 0 {
		return fmt.Errorf("[fixture] batch_size must be positive, got %d", c.Fixture.BatchSize)
	}
	if c.Fixture.RateLimitQPS < 0 {
		return fmt.Errorf("[fixture] rate_limit_qps must not be negative")
	}
	return nil
}

// ConfigFilePath returns the path the configuration was (or would be) read from.
func (c *Config) ConfigFilePath() string {
	if c.configPath != "" {
		return c.configPath
	}
	return filepath.Join(c.HomeDir, "config.toml")
}

// EnsureHomeDir creates the home directory if it does not exist.
func (c *Config) EnsureHomeDir() error {
	return os.MkdirAll(c.HomeDir, 0700)
}

// LogFilePath returns where the TUI writes its log output.
func (c *Config) LogFilePath() string {
	return filepath.Join(c.HomeDir, "phishcoach.log")
}

// FixtureAddr returns the listen address for the fixture backend.
func (c *Config) FixtureAddr() string {
	bind := c.Fixture.BindAddr
	if bind == "" {
		bind = "127.0.0.1"
	}
	return net.JoinHostPort(bind, strconv.Itoa(c.Fixture.Port))
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if path == "" {
		return path
	}
	if path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[1:])
	}
	return path
}
