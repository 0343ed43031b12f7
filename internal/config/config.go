// Package config loads the overlay settings from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds process-level settings. Command line flags may override
// individual fields after Load.
type Config struct {
	Debug        bool          `env:"OVERLAY_DEBUG" envDefault:"false"`
	PanelName    string        `env:"OVERLAY_PANEL" envDefault:"menu"`
	TickInterval time.Duration `env:"OVERLAY_TICK_INTERVAL" envDefault:"33ms"`
	PreviewDelay time.Duration `env:"OVERLAY_PREVIEW_DELAY" envDefault:"200ms"`
	HistorySize  int           `env:"OVERLAY_HISTORY_SIZE" envDefault:"64"`
	PresetPath   string        `env:"OVERLAY_PRESET"`
	FramePath    string        `env:"OVERLAY_FRAME"`
	DumpOnExit   bool          `env:"OVERLAY_DUMP_ON_EXIT" envDefault:"false"`
}

// Load parses the environment into a validated Config.
func Load() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.PanelName == "" {
		errs = append(errs, errors.New("panel name must not be empty"))
	}
	if c.TickInterval <= 0 {
		errs = append(errs, fmt.Errorf("tick interval must be positive, got %s", c.TickInterval))
	}
	if c.PreviewDelay < 0 {
		errs = append(errs, fmt.Errorf("preview delay must not be negative, got %s", c.PreviewDelay))
	}
	if c.HistorySize <= 0 {
		errs = append(errs, fmt.Errorf("history size must be positive, got %d", c.HistorySize))
	}
	return errors.Join(errs...)
}
