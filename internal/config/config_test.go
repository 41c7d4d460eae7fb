package config

import (
	"testing"

	"github.com/pelletier/go-toml/v2"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Server.Port != 8591 {
		t.Errorf("port = %d, want 8591", cfg.Server.Port)
	}
	if cfg.Scoring.ABCAThreshold != 80 {
		t.Errorf("ABC A threshold = %v, want 80", cfg.Scoring.ABCAThreshold)
	}
	if cfg.Risk.CriticalScore != 70 {
		t.Errorf("critical score = %v, want 70", cfg.Risk.CriticalScore)
	}
	if cfg.Parser.CountCeiling != 1000 {
		t.Errorf("count ceiling = %d, want 1000", cfg.Parser.CountCeiling)
	}
}

func TestConfig_TOMLOverride(t *testing.T) {
	cfg := DefaultConfig()
	doc := `
[server]
port = 9000
dev_mode = true

[scoring]
abc_a_threshold = 75.0

[risk]
critical_score = 65.0
`
	if err := toml.Unmarshal([]byte(doc), cfg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("port = %d, want 9000", cfg.Server.Port)
	}
	if !cfg.Server.DevMode {
		t.Errorf("dev mode not set")
	}
	if cfg.Scoring.ABCAThreshold != 75 {
		t.Errorf("ABC A threshold = %v, want overridden 75", cfg.Scoring.ABCAThreshold)
	}
	if cfg.Risk.CriticalScore != 65 {
		t.Errorf("critical score = %v, want overridden 65", cfg.Risk.CriticalScore)
	}
	// Untouched sections keep their defaults.
	if cfg.Scoring.VelocityScale != 2 {
		t.Errorf("velocity scale = %v, want default 2", cfg.Scoring.VelocityScale)
	}
}

func TestPipelineOptions_CarriesThresholds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Parser.SampleSize = 25
	cfg.Parser.CountCeiling = 500
	cfg.Risk.HighScore = 45

	opts := cfg.PipelineOptions()
	if opts.Resolver.SampleSize != 25 {
		t.Errorf("sample size = %d, want 25", opts.Resolver.SampleSize)
	}
	if opts.CountCeiling != 500 {
		t.Errorf("count ceiling = %d, want 500", opts.CountCeiling)
	}
	if opts.Risk.HighScore != 45 {
		t.Errorf("high score = %v, want 45", opts.Risk.HighScore)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("STOCKINSIGHT_PORT", "7777")
	t.Setenv("STOCKINSIGHT_DEV", "1")

	cfg := DefaultConfig()
	applyEnv(cfg)
	if cfg.Server.Port != 7777 {
		t.Errorf("port = %d, want env override 7777", cfg.Server.Port)
	}
	if !cfg.Server.DevMode {
		t.Errorf("dev mode not enabled by env")
	}
}
