// Package config handles global Magpie configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the global Magpie configuration.
type Config struct {
	// DataDir is where the SQLite database lives. Defaults to
	// ~/.local/share/magpie.
	DataDir string `toml:"data_dir"`

	// Policy controls capability defaults.
	Policy PolicyConfig `toml:"policy"`

	// UI controls optional CLI theming preferences.
	UI UIConfig `toml:"ui"`
}

// PolicyConfig represents capability defaults.
type PolicyConfig struct {
	// AnonymousCanSearch controls whether callers without an
	// identity may search. Defaults to true.
	AnonymousCanSearch *bool `toml:"anonymous_can_search"`
}

// UIConfig represents optional CLI theming preferences.
type UIConfig struct {
	// Accent is an optional accent color for CLI output and markdown
	// rendering: ANSI color codes ("0" to "255") or hex ("#RRGGBB").
	Accent string `toml:"accent"`

	// CodeTheme sets the Glamour/Chroma theme used for rendered
	// markdown code blocks, e.g. "monokai", "dracula", "github".
	CodeTheme string `toml:"code_theme"`
}

// AnonymousCanSearch resolves the policy default.
func (c *Config) AnonymousCanSearch() bool {
	if c.Policy.AnonymousCanSearch == nil {
		return true
	}
	return *c.Policy.AnonymousCanSearch
}

// ResolveDataDir returns the configured data dir, or the default under
// the user's home.
func (c *Config) ResolveDataDir() (string, error) {
	if c.DataDir != "" {
		return c.DataDir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", "magpie"), nil
}

// DefaultPath returns the default config file path, honoring the
// MAGPIE_CONFIG environment variable.
func DefaultPath() string {
	if path := os.Getenv("MAGPIE_CONFIG"); path != "" {
		return path
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(configDir, "magpie", "config.toml")
}

// Load reads the config from the default path. A missing file yields
// an empty config, not an error.
func Load() (*Config, error) {
	return LoadFrom(DefaultPath())
}

// LoadFrom reads the config from a specific path.
func LoadFrom(path string) (*Config, error) {
	var cfg Config
	if path == "" {
		return &cfg, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// Save writes the config to a specific path, creating parent
// directories as needed.
func Save(path string, cfg *Config) error {
	if path == "" {
		return fmt.Errorf("config path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}
