package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"

	"stockinsight/internal/analyzer"
	"stockinsight/internal/parser"
	"stockinsight/internal/pipeline"
)

// AppConfig is the application configuration, loaded from config.toml beside
// the executable. Every scoring threshold is a tunable here: the default
// constants are domain calibration, not invariants.
type AppConfig struct {
	Server    ServerConfig             `toml:"server"`
	Parser    ParserConfig             `toml:"parser"`
	Scoring   analyzer.ScoringConfig   `toml:"scoring"`
	Risk      analyzer.RiskConfig      `toml:"risk"`
	Recommend analyzer.RecommendConfig `toml:"recommend"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Port        int  `toml:"port"`
	DevMode     bool `toml:"dev_mode"`
	MaxUploadMB int  `toml:"max_upload_mb"`
}

// ParserConfig tunes role resolution and record normalization.
type ParserConfig struct {
	SampleSize        int     `toml:"sample_size"`
	CountCeiling      int     `toml:"count_ceiling"`
	QuantityMeanCap   float64 `toml:"quantity_mean_cap"`
	QuantityMeanRatio float64 `toml:"quantity_mean_ratio"`
	DateSerialMean    float64 `toml:"date_serial_mean"`
	QuantitySanityMax float64 `toml:"quantity_sanity_max"`
	DateRatioVeto     float64 `toml:"date_ratio_veto"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *AppConfig {
	ro := parser.DefaultResolverOptions()
	return &AppConfig{
		Server: ServerConfig{
			Port:        8591,
			DevMode:     false,
			MaxUploadMB: 20,
		},
		Parser: ParserConfig{
			SampleSize:        ro.SampleSize,
			CountCeiling:      1000,
			QuantityMeanCap:   ro.QuantityMeanCap,
			QuantityMeanRatio: ro.QuantityMeanRatio,
			DateSerialMean:    ro.DateSerialMean,
			QuantitySanityMax: ro.QuantitySanityMax,
			DateRatioVeto:     ro.DateRatioVeto,
		},
		Scoring:   analyzer.DefaultScoringConfig(),
		Risk:      analyzer.DefaultRiskConfig(),
		Recommend: analyzer.DefaultRecommendConfig(),
	}
}

// PipelineOptions converts the configuration into pipeline tunables.
func (c *AppConfig) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		Resolver: parser.ResolverOptions{
			SampleSize:        c.Parser.SampleSize,
			QuantityMeanCap:   c.Parser.QuantityMeanCap,
			QuantityMeanRatio: c.Parser.QuantityMeanRatio,
			DateSerialMean:    c.Parser.DateSerialMean,
			QuantitySanityMax: c.Parser.QuantitySanityMax,
			DateRatioVeto:     c.Parser.DateRatioVeto,
		},
		Scoring:      c.Scoring,
		Risk:         c.Risk,
		Recommend:    c.Recommend,
		CountCeiling: c.Parser.CountCeiling,
	}
}

// GetExeDir returns the directory of the running executable.
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// LoadConfig reads config.toml from the executable's directory, falling back
// to defaults when the file is absent. STOCKINSIGHT_PORT overrides the port.
func LoadConfig() (*AppConfig, error) {
	cfg := DefaultConfig()

	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}
	configPath := filepath.Join(exeDir, "config.toml")

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnv(cfg)
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *AppConfig) {
	if v := os.Getenv("STOCKINSIGHT_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			cfg.Server.Port = port
		}
	}
	if os.Getenv("STOCKINSIGHT_DEV") == "1" {
		cfg.Server.DevMode = true
	}
}

// SaveConfig writes the configuration back to config.toml.
func SaveConfig(cfg *AppConfig) error {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(exeDir, "config.toml"), data, 0644)
}
