package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk YAML configuration.
type Config struct {
	Input   string        `yaml:"input"`
	Wait    *Duration     `yaml:"wait"`
	Web     WebConfig     `yaml:"web"`
	Plots   PlotsConfig   `yaml:"plots"`
	Capture CaptureConfig `yaml:"capture"`
	PPS     PPSConfig     `yaml:"pps"`
}

type WebConfig struct {
	Listen string `yaml:"listen"`
}

type PlotsConfig struct {
	// Enabled lists the plots active at startup. Names are checked
	// against the plot registry when the set is applied.
	Enabled []string `yaml:"enabled"`
}

type CaptureConfig struct {
	Enable bool   `yaml:"enable"`
	Path   string `yaml:"path"`
}

type PPSConfig struct {
	Enable bool   `yaml:"enable"`
	Chip   string `yaml:"chip"`
	Line   int    `yaml:"line"`
}

// Load reads and strictly decodes the YAML config at path. Unknown keys
// are rejected. Defaults are applied separately by DefaultAndValidate so
// callers can layer CLI overrides in between.
func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			// Empty file: all defaults.
			return Config{}, nil
		}
		var te *yaml.TypeError
		if errors.As(err, &te) {
			return Config{}, fmt.Errorf("invalid config: %s", strings.Join(te.Errors, "; "))
		}
		return Config{}, err
	}
	return cfg, nil
}

// DefaultAndValidate fills defaults and rejects nonsense.
func DefaultAndValidate(cfg *Config) error {
	if cfg == nil {
		return errors.New("nil config")
	}
	if cfg.Input == "" {
		return errors.New("input is required")
	}

	if cfg.Wait == nil {
		d := Duration(100 * time.Millisecond)
		cfg.Wait = &d
	}
	if *cfg.Wait < 0 {
		return errors.New("wait must be >= 0")
	}

	if strings.TrimSpace(cfg.Web.Listen) == "" {
		cfg.Web.Listen = ":8090"
	}

	if cfg.Plots.Enabled == nil {
		cfg.Plots.Enabled = []string{"position_map"}
	}
	seen := make(map[string]struct{}, len(cfg.Plots.Enabled))
	for _, name := range cfg.Plots.Enabled {
		if strings.TrimSpace(name) == "" {
			return errors.New("plots.enabled must not contain empty names")
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("plots.enabled contains duplicate %q", name)
		}
		seen[name] = struct{}{}
	}

	if cfg.Capture.Enable && strings.TrimSpace(cfg.Capture.Path) == "" {
		return errors.New("capture.path is required when capture.enable is true")
	}

	if strings.TrimSpace(cfg.PPS.Chip) == "" {
		cfg.PPS.Chip = "gpiochip0"
	}
	if cfg.PPS.Enable && cfg.PPS.Line < 0 {
		return errors.New("pps.line must be >= 0 when pps.enable is true")
	}

	return nil
}
