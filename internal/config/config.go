// Package config loads studyquest settings from YAML.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath overrides the default config file location.
const EnvConfigPath = "STUDYQUEST_CONFIG"

type Config struct {
	Database  DatabaseConfig  `yaml:"database"`
	Log       LogConfig       `yaml:"log"`
	Pomodoro  PomodoroConfig  `yaml:"pomodoro"`
	Snapshots SnapshotsConfig `yaml:"snapshots"`
	Monster   MonsterConfig   `yaml:"monster"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type PomodoroConfig struct {
	Study time.Duration `yaml:"study"`
	Break time.Duration `yaml:"break"`
}

type SnapshotsConfig struct {
	Keep int `yaml:"keep"`
}

type MonsterConfig struct {
	CompletionRelief float64 `yaml:"completion_relief"`
	FailurePenalty   float64 `yaml:"failure_penalty"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Log: LogConfig{Level: "warn"},
		Pomodoro: PomodoroConfig{
			Study: 25 * time.Minute,
			Break: 5 * time.Minute,
		},
		Snapshots: SnapshotsConfig{Keep: 5},
		Monster: MonsterConfig{
			CompletionRelief: 1,
			FailurePenalty:   2,
		},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects settings the game cannot run with.
func (c *Config) Validate() error {
	if c.Pomodoro.Study < time.Second {
		return fmt.Errorf("pomodoro.study must be at least 1s, got %s", c.Pomodoro.Study)
	}
	if c.Pomodoro.Break < time.Second {
		return fmt.Errorf("pomodoro.break must be at least 1s, got %s", c.Pomodoro.Break)
	}
	if c.Snapshots.Keep < 1 {
		return fmt.Errorf("snapshots.keep must be at least 1, got %d", c.Snapshots.Keep)
	}
	if c.Monster.CompletionRelief < 0 || c.Monster.FailurePenalty < 0 {
		return errors.New("monster settings must not be negative")
	}
	return nil
}

// DefaultPath returns the config file location: $STUDYQUEST_CONFIG, else
// $XDG_CONFIG_HOME/studyquest/config.yaml, else ~/.config/studyquest/config.yaml.
func DefaultPath() (string, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p, nil
	}
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "studyquest", "config.yaml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", "studyquest", "config.yaml"), nil
}

// PomodoroSeconds returns the block lengths in whole seconds.
func (c *Config) PomodoroSeconds() (study, brk int) {
	return int(c.Pomodoro.Study / time.Second), int(c.Pomodoro.Break / time.Second)
}
