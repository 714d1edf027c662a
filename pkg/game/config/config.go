// Package config loads tuning and runtime settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/caarlos0/env/v11"

	"dreadhall/pkg/game/deck"
	"dreadhall/pkg/game/threat"
)

// Log formats
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// ErrInvalid is returned when a setting is out of range
var ErrInvalid = errors.New("invalid configuration")

// Config is every setting the game reads from the environment
type Config struct {
	MaxThreat           float64 `env:"DREADHALL_MAX_THREAT" envDefault:"20"`
	EscalationThreshold float64 `env:"DREADHALL_ESCALATION_THRESHOLD" envDefault:"5"`
	FearDecay           float64 `env:"DREADHALL_FEAR_DECAY" envDefault:"0.03"`
	AggressionCap       float64 `env:"DREADHALL_AGGRESSION_CAP" envDefault:"5"`
	Hallucinations      bool    `env:"DREADHALL_HALLUCINATIONS" envDefault:"true"`
	PlayerSeekChance    float64 `env:"DREADHALL_PLAYER_SEEK_CHANCE" envDefault:"0.2"`

	CatalogPath string `env:"DREADHALL_CATALOG"` // Empty uses the embedded catalog
	SavePath    string `env:"DREADHALL_SAVE_DB" envDefault:"dreadhall.db"`

	LogLevel  slog.Level `env:"DREADHALL_LOG_LEVEL" envDefault:"warn"`
	LogFormat string     `env:"DREADHALL_LOG_FORMAT" envDefault:"text"`

	Seed       int64 `env:"DREADHALL_SEED"` // 0 seeds from the clock
	StartLevel int   `env:"DREADHALL_START_LEVEL" envDefault:"1"`
}

// Load parses the environment and validates the result
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every setting is in range
func (c Config) Validate() error {
	switch {
	case c.MaxThreat <= 0:
		return fmt.Errorf("%w: max threat %v must be positive", ErrInvalid, c.MaxThreat)
	case c.EscalationThreshold <= 0 || c.EscalationThreshold > c.MaxThreat:
		return fmt.Errorf("%w: escalation threshold %v outside (0, %v]", ErrInvalid, c.EscalationThreshold, c.MaxThreat)
	case c.FearDecay < 0 || c.FearDecay > 1:
		return fmt.Errorf("%w: fear decay %v outside [0, 1]", ErrInvalid, c.FearDecay)
	case c.AggressionCap < 1:
		return fmt.Errorf("%w: aggression cap %v below 1", ErrInvalid, c.AggressionCap)
	case c.PlayerSeekChance < 0 || c.PlayerSeekChance > 1:
		return fmt.Errorf("%w: player seek chance %v outside [0, 1]", ErrInvalid, c.PlayerSeekChance)
	case c.LogFormat != LogFormatText && c.LogFormat != LogFormatJSON:
		return fmt.Errorf("%w: log format %q", ErrInvalid, c.LogFormat)
	case c.StartLevel < 1 || c.StartLevel > deck.TotalLevels:
		return fmt.Errorf("%w: start level %d outside [1, %d]", ErrInvalid, c.StartLevel, deck.TotalLevels)
	}
	return nil
}

// Threat returns the threat model tuning
func (c Config) Threat() threat.Config {
	return threat.Config{
		MaxThreat:           c.MaxThreat,
		EscalationThreshold: c.EscalationThreshold,
		FearDecay:           c.FearDecay,
		AggressionCap:       c.AggressionCap,
		Hallucinations:      c.Hallucinations,
	}
}

// NewLogger builds the logger the configuration asks for
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	if c.LogFormat == LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
