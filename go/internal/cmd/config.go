package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/mcdev12/shootout/go/internal/match"
	"gopkg.in/yaml.v3"
)

// Config holds the game tunables read from the YAML file.
type Config struct {
	MaxRounds        int           `yaml:"max_rounds"`
	QueueWait        time.Duration `yaml:"queue_wait"`
	SyntheticDelay   time.Duration `yaml:"synthetic_delay"`
	RoundDeadline    time.Duration `yaml:"round_deadline"`
	RoundPause       time.Duration `yaml:"round_pause"`
	PersistTimeout   time.Duration `yaml:"persist_timeout"`
	SyntheticLabel   string        `yaml:"synthetic_label"`
	LeaderboardLimit int           `yaml:"leaderboard_limit"`
}

func defaultConfig() Config {
	mc := match.DefaultConfig()
	return Config{
		MaxRounds:        mc.MaxRounds,
		QueueWait:        mc.QueueWait,
		SyntheticDelay:   mc.SyntheticDelay,
		RoundDeadline:    mc.RoundDeadline,
		RoundPause:       mc.RoundPause,
		PersistTimeout:   mc.PersistTimeout,
		SyntheticLabel:   mc.SyntheticLabel,
		LeaderboardLimit: 50,
	}
}

// loadConfig overlays the file at path on the defaults. A missing file yields the defaults.
func loadConfig(path string) (*Config, error) {
	config := defaultConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &config, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return &config, nil
}

func (c Config) validate() error {
	switch {
	case c.MaxRounds <= 0:
		return fmt.Errorf("max_rounds must be positive, got %d", c.MaxRounds)
	case c.QueueWait <= 0, c.SyntheticDelay <= 0, c.RoundDeadline <= 0, c.RoundPause <= 0, c.PersistTimeout <= 0:
		return errors.New("durations must be positive")
	case c.SyntheticLabel == "":
		return errors.New("synthetic_label must not be empty")
	case c.LeaderboardLimit <= 0:
		return fmt.Errorf("leaderboard_limit must be positive, got %d", c.LeaderboardLimit)
	}
	return nil
}

// matchConfig converts the file settings into matchmaker settings.
func (c Config) matchConfig() match.Config {
	mc := match.DefaultConfig()
	mc.MaxRounds = c.MaxRounds
	mc.QueueWait = c.QueueWait
	mc.SyntheticDelay = c.SyntheticDelay
	mc.RoundDeadline = c.RoundDeadline
	mc.RoundPause = c.RoundPause
	mc.PersistTimeout = c.PersistTimeout
	mc.SyntheticLabel = c.SyntheticLabel
	return mc
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
