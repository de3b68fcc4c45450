package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/JMcKesey/black-scholes-visualizer/internal/pricing"
	"github.com/JMcKesey/black-scholes-visualizer/internal/surface"
)

// Config carries the CLI defaults. Every value can be overridden per
// invocation by flags; the file/env layer just saves retyping a scenario.
type Config struct {
	Option  OptionConfig  `mapstructure:"option"`
	Surface SurfaceConfig `mapstructure:"surface"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// OptionConfig is the default option scenario, mirroring the classic
// textbook inputs.
type OptionConfig struct {
	Spot   float64 `mapstructure:"spot"`
	Strike float64 `mapstructure:"strike"`
	Years  float64 `mapstructure:"years"`
	Rate   float64 `mapstructure:"rate"`
	Vol    float64 `mapstructure:"vol"`
	Kind   string  `mapstructure:"kind"`
}

// SurfaceConfig is the default sweep for the surface command.
type SurfaceConfig struct {
	Samples       int     `mapstructure:"samples"`
	PurchasePrice float64 `mapstructure:"purchase_price"`
	SpotMin       float64 `mapstructure:"spot_min"`
	SpotMax       float64 `mapstructure:"spot_max"`
	VolMin        float64 `mapstructure:"vol_min"`
	VolMax        float64 `mapstructure:"vol_max"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads the CLI config from an optional YAML file plus BSVIZ_-prefixed
// environment variables, applying defaults for everything unset.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Defaults match the scenario the original visualizer opened with.
	v.SetDefault("option.spot", 100.0)
	v.SetDefault("option.strike", 100.0)
	v.SetDefault("option.years", 2.0)
	v.SetDefault("option.rate", 0.05)
	v.SetDefault("option.vol", 0.05)
	v.SetDefault("option.kind", "call")
	v.SetDefault("surface.samples", surface.DefaultSamples)
	v.SetDefault("surface.purchase_price", 100.0)
	v.SetDefault("surface.spot_min", 50.0)
	v.SetDefault("surface.spot_max", 150.0)
	v.SetDefault("surface.vol_min", 0.01)
	v.SetDefault("surface.vol_max", 1.0)
	v.SetDefault("logging.level", "info")

	// Environment variable support
	v.SetEnvPrefix("BSVIZ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// Load config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("default")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if _, err := pricing.ParseOptionKind(c.Option.Kind); err != nil {
		return fmt.Errorf("option.kind: %w", err)
	}
	if c.Surface.Samples < 2 {
		return fmt.Errorf("surface.samples must be >= 2, got %d", c.Surface.Samples)
	}
	return nil
}

// Params assembles a pricing.Parameters from the configured option scenario.
// The kind string is already validated by Load.
func (c *Config) Params() pricing.Parameters {
	kind, _ := pricing.ParseOptionKind(c.Option.Kind)
	return pricing.Parameters{
		Spot:         c.Option.Spot,
		Strike:       c.Option.Strike,
		TimeToExpiry: c.Option.Years,
		Rate:         c.Option.Rate,
		Vol:          c.Option.Vol,
		Kind:         kind,
	}
}
