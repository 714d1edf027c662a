package config

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"dreadhall/pkg/game/threat"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got, want := cfg.Threat(), threat.DefaultConfig(); got != want {
		t.Errorf("Threat() = %+v, want %+v", got, want)
	}
	if cfg.PlayerSeekChance != 0.2 || cfg.StartLevel != 1 || cfg.LogLevel != slog.LevelWarn {
		t.Errorf("Load() = %+v", cfg)
	}
	if cfg.SavePath != "dreadhall.db" || cfg.CatalogPath != "" {
		t.Errorf("paths = %q, %q", cfg.SavePath, cfg.CatalogPath)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DREADHALL_MAX_THREAT", "10")
	t.Setenv("DREADHALL_HALLUCINATIONS", "false")
	t.Setenv("DREADHALL_LOG_LEVEL", "debug")
	t.Setenv("DREADHALL_LOG_FORMAT", "json")
	t.Setenv("DREADHALL_SEED", "42")
	t.Setenv("DREADHALL_START_LEVEL", "3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.MaxThreat != 10 || cfg.Hallucinations || cfg.Seed != 42 || cfg.StartLevel != 3 {
		t.Errorf("Load() = %+v", cfg)
	}
	if cfg.LogLevel != slog.LevelDebug || cfg.LogFormat != LogFormatJSON {
		t.Errorf("logging = %v, %q", cfg.LogLevel, cfg.LogFormat)
	}
}

func TestLoad_ParseError(t *testing.T) {
	t.Setenv("DREADHALL_MAX_THREAT", "lots")
	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("Load() error = %v, want parse env error", err)
	}
}

func TestValidate(t *testing.T) {
	base, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero max threat", func(c *Config) { c.MaxThreat = 0 }},
		{"threshold above max", func(c *Config) { c.EscalationThreshold = 30 }},
		{"negative decay", func(c *Config) { c.FearDecay = -0.1 }},
		{"aggression cap", func(c *Config) { c.AggressionCap = 0.5 }},
		{"seek chance", func(c *Config) { c.PlayerSeekChance = 1.5 }},
		{"log format", func(c *Config) { c.LogFormat = "xml" }},
		{"start level", func(c *Config) { c.StartLevel = 4 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("Validate() = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := Config{LogLevel: slog.LevelInfo, LogFormat: LogFormatJSON}
	log := cfg.NewLogger(&buf)
	log.Debug("hidden")
	log.Info("shown", "room", "Morgue")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("debug record logged at info level")
	}
	if !strings.Contains(out, `"room":"Morgue"`) {
		t.Errorf("NewLogger() output = %q, want JSON", out)
	}
}
