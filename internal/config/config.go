// Package config handles loading and saving user configuration for pokedex.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is the config file name inside the config directory.
const FileName = "config.yaml"

// Config holds all user configuration.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Lookup  LookupConfig  `yaml:"lookup"`
	Display DisplayConfig `yaml:"display"`
	Log     LogConfig     `yaml:"log"`
}

// APIConfig controls the PokéAPI client.
type APIConfig struct {
	BaseURL   string        `yaml:"base_url"`
	Timeout   time.Duration `yaml:"timeout"`    // 0 disables the timeout
	UserAgent string        `yaml:"user_agent"`
	RateLimit float64       `yaml:"rate_limit"` // requests per second, 0 = unlimited
}

// LookupConfig controls input normalization.
type LookupConfig struct {
	// TrimInput strips surrounding whitespace before the query is sent.
	// When false only the blank check uses the trimmed form.
	TrimInput bool `yaml:"trim_input"`
}

// DisplayConfig controls the terminal rendering.
type DisplayConfig struct {
	Sprite       bool          `yaml:"sprite"`
	SpriteWidth  int           `yaml:"sprite_width"`  // terminal columns
	SpriteHeight int           `yaml:"sprite_height"` // terminal rows
	SpriteTTL    time.Duration `yaml:"sprite_ttl"`    // how long rendered art is kept
	Banner       bool          `yaml:"banner"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"` // empty means <config dir>/pokedex.log
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:   "https://pokeapi.co/api/v2",
			Timeout:   10 * time.Second,
			UserAgent: "pokedex-tui",
			RateLimit: 5,
		},
		Lookup: LookupConfig{
			TrimInput: true,
		},
		Display: DisplayConfig{
			Sprite:       true,
			SpriteWidth:  40,
			SpriteHeight: 20,
			SpriteTTL:    30 * time.Minute,
			Banner:       true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads a config file. Keys missing from the file keep their defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes cfg to path.
func Save(path string, cfg *Config) error {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// Validate checks values that would otherwise fail later and obscurely.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url must not be empty")
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("api.timeout must not be negative")
	}
	if c.Display.SpriteWidth < 4 || c.Display.SpriteHeight < 2 {
		return fmt.Errorf("display sprite size %dx%d is too small", c.Display.SpriteWidth, c.Display.SpriteHeight)
	}
	return nil
}

// LogPath returns the log file path, defaulting into dir.
func (c *Config) LogPath(dir string) string {
	if c.Log.File != "" {
		return c.Log.File
	}
	return filepath.Join(dir, "pokedex.log")
}

// GetConfigDir returns the default configuration directory.
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "pokedex"), nil
}

// EnsureDir creates dir if it doesn't exist.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	return nil
}
