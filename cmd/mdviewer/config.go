package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/aquamon/MarineDataViewer/src/series"
)

// Config is the optional viewer configuration file: per-parameter colors,
// default moving-average windows, and a site label for chart titles.
type Config struct {
	SiteName      string             `yaml:"site_name"`
	Colors        map[string]string  `yaml:"colors"`
	MAWindowDays  map[string]float64 `yaml:"ma_window_days"`
	TaxonomyTable string             `yaml:"taxonomy_table"`
	LogLevel      string             `yaml:"log_level"`
}

// LoadConfig reads a YAML config; a missing file is not an error, just an
// empty config.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return &Config{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// applyConfig seeds the store with configured colors and moving-average
// defaults for parameters it knows.
func applyConfig(cfg *Config, store *series.Store) {
	for name, hex := range cfg.Colors {
		store.SetColor(name, hex)
	}
	for name, days := range cfg.MAWindowDays {
		if days <= 0 || !store.Has(name) {
			continue
		}
		store.SetMovingAverage(name, &series.MovingAverage{Enabled: true, WindowDays: days, ShowLine: true})
	}
}
