package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

const (
	AppName = "driftfield"

	DefaultCount       = 50
	DefaultFPS         = 60
	DefaultScale       = 0.25
	DefaultTrailLength = 20
	DefaultTypingMs    = 100
	DefaultBanner      = "drift, link, fade"
)

var ErrInvalidConfig = errors.New("config: invalid value")

type Config struct {
	Count  int          `yaml:"count"`
	FPS    int          `yaml:"fps"`
	Scale  float64      `yaml:"scale"`
	Seed   uint64       `yaml:"seed"`
	Trail  TrailConfig  `yaml:"trail"`
	Banner BannerConfig `yaml:"banner"`
	Paths  PathsConfig  `yaml:"paths"`
	Log    LogConfig    `yaml:"log"`
}

type TrailConfig struct {
	Enabled bool `yaml:"enabled"`
	Length  int  `yaml:"length"`
}

type BannerConfig struct {
	Text    string `yaml:"text"`
	SpeedMs int    `yaml:"speed_ms"`
}

type PathsConfig struct {
	DataDir string `yaml:"data_dir"`
	PrefsDB string `yaml:"prefs_db"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	Format     string `yaml:"format"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// StateDir is where runs, preferences and logs live by default.
func StateDir() string {
	return filepath.Join(xdg.StateHome, AppName)
}

// DefaultPath is the config file looked for when --config is not given.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, "config.yaml")
}

func DefaultConfig() *Config {
	state := StateDir()
	return &Config{
		Count: DefaultCount,
		FPS:   DefaultFPS,
		Scale: DefaultScale,
		Trail: TrailConfig{
			Enabled: true,
			Length:  DefaultTrailLength,
		},
		Banner: BannerConfig{
			Text:    DefaultBanner,
			SpeedMs: DefaultTypingMs,
		},
		Paths: PathsConfig{
			DataDir: filepath.Join(state, "runs"),
			PrefsDB: filepath.Join(state, "prefs.db"),
		},
		Log: LogConfig{
			Level:      "info",
			File:       filepath.Join(state, AppName+".log"),
			Format:     "console",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault loads path when it exists and falls back to defaults when it
// does not. Any other read or parse error is returned.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return cfg, err
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Count < 0 {
		return fmt.Errorf("%w: count must not be negative, got %d", ErrInvalidConfig, c.Count)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("%w: fps must be positive, got %d", ErrInvalidConfig, c.FPS)
	}
	if c.Scale <= 0 {
		return fmt.Errorf("%w: scale must be positive, got %f", ErrInvalidConfig, c.Scale)
	}
	if c.Trail.Length < 0 {
		return fmt.Errorf("%w: trail length must not be negative, got %d", ErrInvalidConfig, c.Trail.Length)
	}
	return nil
}
