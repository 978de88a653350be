// Package config loads the editor configuration from YAML or JSON files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/arbor/internal/idgen"
	"github.com/aretw0/arbor/internal/logging"
	"github.com/aretw0/arbor/pkg/domain"
	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the config file looked up when none is given.
const DefaultFile = "arbor.yaml"

// Config represents the structure of arbor.yaml.
type Config struct {
	LogLevel        string        `yaml:"log_level" json:"log_level"`
	SelectionPolicy string        `yaml:"selection_policy" json:"selection_policy"`
	ClickMode       string        `yaml:"click_mode" json:"click_mode"`
	IDs             IDConfig      `yaml:"ids" json:"ids"`
	Root            RootConfig    `yaml:"root" json:"root"`
	HTTP            HTTPConfig    `yaml:"http" json:"http"`
	Metrics         MetricsConfig `yaml:"metrics" json:"metrics"`
}

// IDConfig selects the node ID strategy.
type IDConfig struct {
	Strategy string `yaml:"strategy" json:"strategy"` // "sequential" or "random"
	Prefix   string `yaml:"prefix" json:"prefix"`
}

// RootConfig describes the initial tree.
type RootConfig struct {
	Label    string            `yaml:"label" json:"label"`
	Children []domain.SeedNode `yaml:"children" json:"children"`
}

// HTTPConfig configures the HTTP adapter.
type HTTPConfig struct {
	Port int `yaml:"port" json:"port"`
}

// MetricsConfig toggles the Prometheus collectors.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled" json:"enabled"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		LogLevel:        "info",
		SelectionPolicy: string(domain.SelectSingle),
		ClickMode:       string(domain.ClickAddChild),
		IDs:             IDConfig{Strategy: idgen.StrategySequential, Prefix: domain.DefaultIDPrefix},
		Root:            RootConfig{Label: domain.DefaultRootLabel},
		HTTP:            HTTPConfig{Port: 8080},
		Metrics:         MetricsConfig{Enabled: true},
	}
}

// Load reads a configuration file (YAML or JSON) on top of the defaults.
// A missing file is not an error: the defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".json" {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	} else {
		// Default to YAML
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks every field and reports all problems at once.
func (c Config) Validate() error {
	var errs []error
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if _, err := domain.ParseSelectionPolicy(c.SelectionPolicy); err != nil {
		errs = append(errs, err)
	}
	if _, err := domain.ParseClickMode(c.ClickMode); err != nil {
		errs = append(errs, err)
	}
	if _, err := idgen.New(c.IDs.Strategy, c.IDs.Prefix); err != nil {
		errs = append(errs, err)
	}
	if c.HTTP.Port < 0 || c.HTTP.Port > 65535 {
		errs = append(errs, fmt.Errorf("http port %d out of range", c.HTTP.Port))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// SeedSize counts the nodes declared under root.children.
func (c Config) SeedSize() int {
	var count func([]domain.SeedNode) int
	count = func(nodes []domain.SeedNode) int {
		n := len(nodes)
		for _, sn := range nodes {
			n += count(sn.Children)
		}
		return n
	}
	return count(c.Root.Children)
}
