// Package config loads and saves the application configuration from
// ~/.edh-builder/config.toml.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/ramonehamilton/edh-builder/internal/deckbuilder"
)

// Config represents the application configuration.
type Config struct {
	// Deck building tunables
	Builder BuilderConfig `toml:"builder"`

	// Local cache configuration
	Cache CacheConfig `toml:"cache"`

	// Output configuration
	Output OutputConfig `toml:"output"`

	// Application configuration
	App AppConfig `toml:"app"`
}

// BuilderConfig contains deck building engine settings.
type BuilderConfig struct {
	MinLands        int     `toml:"min_lands"`        // Lower bound of the mana base
	MaxLands        int     `toml:"max_lands"`        // Upper bound of the mana base
	SynergyWeight   float64 `toml:"synergy_weight"`   // Weight of synergy in card scoring
	OwnedWeight     float64 `toml:"owned_weight"`     // Weight of availability in card scoring
	Strategy        string  `toml:"strategy"`         // balanced, aggro, control, combo, ramp
	CurveTolerance  int     `toml:"curve_tolerance"`  // Allowed per-bucket deviation from the target curve
	MaxSwapAttempts int     `toml:"max_swap_attempts"` // Cap on curve balancing swaps
}

// CacheConfig contains card cache settings.
type CacheConfig struct {
	Enabled bool   `toml:"enabled"` // Enable the SQLite cache
	Path    string `toml:"path"`    // Database path ("" = default under the config dir)
	TTL     string `toml:"ttl"`     // Cache TTL (e.g. "24h")
}

// OutputConfig contains deck file output settings.
type OutputConfig struct {
	Directory string `toml:"directory"` // Where deck files are written
	JSON      bool   `toml:"json"`      // Also write a JSON export
	Charts    bool   `toml:"charts"`    // Render statistics charts to HTML
}

// AppConfig contains general application settings.
type AppConfig struct {
	DebugMode bool `toml:"debug_mode"` // Enable debug logging
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	defaults := deckbuilder.DefaultOptions()
	return &Config{
		Builder: BuilderConfig{
			MinLands:        defaults.MinLands,
			MaxLands:        defaults.MaxLands,
			SynergyWeight:   defaults.SynergyWeight,
			OwnedWeight:     defaults.AvailabilityWeight,
			Strategy:        string(defaults.Strategy),
			CurveTolerance:  defaults.CurveTolerance,
			MaxSwapAttempts: defaults.MaxSwapAttempts,
		},
		Cache: CacheConfig{
			Enabled: true,
			Path:    "",
			TTL:     "168h",
		},
		Output: OutputConfig{
			Directory: ".",
			JSON:      false,
			Charts:    false,
		},
		App: AppConfig{
			DebugMode: false,
		},
	}
}

// configDir returns the application directory, creating it if needed.
func configDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}

	dir := filepath.Join(homeDir, ".edh-builder")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}

	return dir, nil
}

// configPath returns the path to the configuration file.
func configPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load loads the configuration from disk. Returns default config if file doesn't exist.
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom loads the configuration from an explicit path.
func LoadFrom(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	return &config, nil
}

// Save saves the configuration to disk.
func (c *Config) Save() error {
	path, err := configPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo saves the configuration to an explicit path.
func (c *Config) SaveTo(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if _, err := time.ParseDuration(c.Cache.TTL); err != nil {
		return fmt.Errorf("invalid cache TTL %q: %w", c.Cache.TTL, err)
	}

	switch deckbuilder.Strategy(c.Builder.Strategy) {
	case deckbuilder.StrategyBalanced, deckbuilder.StrategyAggro, deckbuilder.StrategyControl,
		deckbuilder.StrategyCombo, deckbuilder.StrategyRamp:
	default:
		return fmt.Errorf("unknown strategy %q", c.Builder.Strategy)
	}

	return c.Options().Validate()
}

// Options converts the builder settings to engine options, filling anything
// the config does not carry from the engine defaults.
func (c *Config) Options() deckbuilder.Options {
	opts := deckbuilder.DefaultOptions()
	opts.MinLands = c.Builder.MinLands
	opts.MaxLands = c.Builder.MaxLands
	opts.SynergyWeight = c.Builder.SynergyWeight
	opts.AvailabilityWeight = c.Builder.OwnedWeight
	opts.Strategy = deckbuilder.Strategy(c.Builder.Strategy)
	opts.CurveTolerance = c.Builder.CurveTolerance
	opts.MaxSwapAttempts = c.Builder.MaxSwapAttempts
	return opts
}

// GetCacheTTL returns the cache TTL as a duration.
func (c *Config) GetCacheTTL() (time.Duration, error) {
	return time.ParseDuration(c.Cache.TTL)
}

// CachePath returns the configured database path, or the default path under
// the config directory when unset.
func (c *Config) CachePath() (string, error) {
	if c.Cache.Path != "" {
		return c.Cache.Path, nil
	}
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "cache.db"), nil
}
