package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tatianab/slots/internal/models"
	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	Balance float64 `yaml:"balance"`
	Bet     Bet     `yaml:"bet"`
	Bonus   Bonus   `yaml:"bonus"`
	Timing  Timing  `yaml:"timing"`
	Log     Log     `yaml:"log"`
	Seed    uint64  `yaml:"seed"` // 0 seeds from the clock
}

type Bet struct {
	Initial float64 `yaml:"initial"`
	Min     float64 `yaml:"min"`
	Max     float64 `yaml:"max"`
	Step    float64 `yaml:"step"`
}

type Bonus struct {
	MegaWildBuyMultiplier    int64 `yaml:"mega_wild_buy_multiplier"`
	HoldAndSpinBuyMultiplier int64 `yaml:"hold_and_spin_buy_multiplier"`
	BigWinMultiplier         int64 `yaml:"big_win_multiplier"`
}

type Timing struct {
	MinSpin             time.Duration `yaml:"min_spin"`
	MaxSpin             time.Duration `yaml:"max_spin"`
	ReelDelay           time.Duration `yaml:"reel_delay"`
	Frame               time.Duration `yaml:"frame"`
	MegaWildMove        time.Duration `yaml:"mega_wild_move"`
	HoldAndSpinStart    time.Duration `yaml:"hold_and_spin_start"`
	HoldAndSpinContinue time.Duration `yaml:"hold_and_spin_continue"`
}

type Log struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Balance: 1000,
		Bet: Bet{
			Initial: 0.5,
			Min:     0.5,
			Max:     25,
			Step:    0.5,
		},
		Bonus: Bonus{
			MegaWildBuyMultiplier:    100,
			HoldAndSpinBuyMultiplier: 70,
			BigWinMultiplier:         10,
		},
		Timing: Timing{
			MinSpin:             1200 * time.Millisecond,
			MaxSpin:             2200 * time.Millisecond,
			ReelDelay:           200 * time.Millisecond,
			Frame:               40 * time.Millisecond,
			MegaWildMove:        350 * time.Millisecond,
			HoldAndSpinStart:    50 * time.Millisecond,
			HoldAndSpinContinue: 600 * time.Millisecond,
		},
		Log: Log{
			Level:      "info",
			File:       "slots.log",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 7,
		},
	}
}

// LoadConfig loads the configuration named by SLOTS_CONFIG, falling back to
// the defaults, then applies environment overrides.
func LoadConfig() (*Config, error) {
	cfg := Default()
	if path := os.Getenv("SLOTS_CONFIG"); path != "" {
		loaded, err := Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if v := os.Getenv("SLOTS_SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid SLOTS_SEED %q: %w", v, err)
		}
		cfg.Seed = seed
	}
	if v := os.Getenv("SLOTS_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads a YAML file on top of the defaults. Keys absent from the file
// keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration as YAML, creating parent directories.
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the bet range, buy multipliers and spin timings.
func (c *Config) Validate() error {
	switch {
	case c.Balance < 0:
		return fmt.Errorf("balance must not be negative")
	case c.Bet.Min <= 0:
		return fmt.Errorf("bet.min must be positive")
	case c.Bet.Step <= 0:
		return fmt.Errorf("bet.step must be positive")
	case c.Bet.Max < c.Bet.Min:
		return fmt.Errorf("bet.max %.2f is below bet.min %.2f", c.Bet.Max, c.Bet.Min)
	case c.Bet.Initial < c.Bet.Min || c.Bet.Initial > c.Bet.Max:
		return fmt.Errorf("bet.initial %.2f is outside [%.2f, %.2f]", c.Bet.Initial, c.Bet.Min, c.Bet.Max)
	case c.Bonus.MegaWildBuyMultiplier <= 0 || c.Bonus.HoldAndSpinBuyMultiplier <= 0:
		return fmt.Errorf("bonus buy multipliers must be positive")
	case c.Bonus.BigWinMultiplier <= 0:
		return fmt.Errorf("bonus.big_win_multiplier must be positive")
	case c.Timing.MinSpin > c.Timing.MaxSpin:
		return fmt.Errorf("timing.min_spin exceeds timing.max_spin")
	case c.Timing.Frame <= 0:
		return fmt.Errorf("timing.frame must be positive")
	}
	return nil
}

// Limits returns the bet limits as money.
func (c *Config) Limits() models.BetLimits {
	return models.BetLimits{
		Min:  decimal.NewFromFloat(c.Bet.Min).Round(2),
		Max:  decimal.NewFromFloat(c.Bet.Max).Round(2),
		Step: decimal.NewFromFloat(c.Bet.Step).Round(2),
	}
}

// NewSession opens a session with the configured balance and bet.
func (c *Config) NewSession() *models.Session {
	return models.NewSession(
		decimal.NewFromFloat(c.Balance),
		decimal.NewFromFloat(c.Bet.Initial),
		c.Limits(),
	)
}
