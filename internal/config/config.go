package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/polyroot/internal/poly"
)

const (
	DefaultIterations = 100
	DefaultBackend    = "file"
	DefaultDataDir    = ".polyroot"
)

// DefaultCoefficients is x^2 - 0.5x.
var DefaultCoefficients = []float64{0, -0.5, 1}

// Config describes one run. Seed is nil when no seed was given, so an
// explicit seed of 0 is kept.
type Config struct {
	Name         string      `yaml:"name" toml:"name"`
	Coefficients []float64   `yaml:"coefficients" toml:"coefficients"`
	Iterations   int         `yaml:"iterations" toml:"iterations"`
	Seed         *int64      `yaml:"seed,omitempty" toml:"seed,omitempty"`
	Store        StoreConfig `yaml:"store" toml:"store"`
}

type StoreConfig struct {
	Backend string `yaml:"backend" toml:"backend"`
	DataDir string `yaml:"data_dir" toml:"data_dir"`
}

func DefaultConfig() *Config {
	coeffs := make([]float64, len(DefaultCoefficients))
	copy(coeffs, DefaultCoefficients)
	return &Config{
		Name:         "quadratic",
		Coefficients: coeffs,
		Iterations:   DefaultIterations,
		Store: StoreConfig{
			Backend: DefaultBackend,
			DataDir: DefaultDataDir,
		},
	}
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// Load reads a YAML or TOML file (chosen by extension) over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if isTOML(path) {
		err = toml.Unmarshal(data, cfg)
	} else {
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	var (
		data []byte
		err  error
	)
	if isTOML(path) {
		data, err = toml.Marshal(cfg)
	} else {
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Iterations < 0 {
		return fmt.Errorf("iterations must be non-negative, got %d", c.Iterations)
	}
	switch c.Store.Backend {
	case "", "file", "sqlite":
	default:
		return fmt.Errorf("unknown store backend: %s", c.Store.Backend)
	}
	return nil
}

func (c *Config) Polynomial() poly.Polynomial {
	return poly.Polynomial(c.Coefficients).Clone()
}
