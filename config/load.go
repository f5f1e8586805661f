// Package config loads and validates the desk's YAML configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DeskConfig holds everything a simulation run needs.
type DeskConfig struct {
	Instrument      string             `yaml:"instrument"`
	HedgeInstrument string             `yaml:"hedgeInstrument"` // defaults to instrument
	Quote           QuoteConfig        `yaml:"quote"`
	Client          ClientConfig       `yaml:"client"`
	Fees            FeesConfig         `yaml:"fees"`
	Multipliers     map[string]float64 `yaml:"multipliers"`
	Risk            RiskConfig         `yaml:"risk"`
	Prices          PricesConfig       `yaml:"prices"`
	Log             LogConfig          `yaml:"log"`
	Metrics         MetricsConfig      `yaml:"metrics"`
}

type QuoteConfig struct {
	Volume         float64 `yaml:"volume"`         // size quoted to clients
	BaseSpread     float64 `yaml:"baseSpread"`     // fraction of price, e.g. 0.02
	Sensitivity    float64 `yaml:"sensitivity"`    // inventory reaction strength
	IdealInventory float64 `yaml:"idealInventory"` // comfortable dollar inventory
	MaxSkew        float64 `yaml:"maxSkew"`        // fraction of price, e.g. 0.02
}

type ClientConfig struct {
	BuyProb  float64 `yaml:"buyProb"`
	SellProb float64 `yaml:"sellProb"`
	Seed     int64   `yaml:"seed"`
}

type FeeConfig struct {
	Rate    float64 `yaml:"rate"`
	PerUnit float64 `yaml:"perUnit"`
}

type FeesConfig struct {
	Client FeeConfig `yaml:"client"`
	Hedge  FeeConfig `yaml:"hedge"`
}

type RiskConfig struct {
	SingleMax float64 `yaml:"singleMax"`
	DailyMax  float64 `yaml:"dailyMax"`
	NetMax    float64 `yaml:"netMax"`
}

type PricesConfig struct {
	Path string `yaml:"path"` // CSV price table
}

type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	Path  string `yaml:"path"`  // JSONL event log; empty = stdout only
}

type MetricsConfig struct {
	Addr string `yaml:"addr"` // e.g. :9090; empty disables the server
}

// Load reads YAML config from path and applies validation.
func Load(path string) (DeskConfig, error) {
	var cfg DeskConfig
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse yaml: %w", err)
	}
	applyDefaults(&cfg)
	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyDefaults(cfg *DeskConfig) {
	if cfg.HedgeInstrument == "" {
		cfg.HedgeInstrument = cfg.Instrument
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}
