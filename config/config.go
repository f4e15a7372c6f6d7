package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/evac/core/metrics"
	"github.com/kilianp07/evac/core/model"
	"github.com/kilianp07/evac/infra/monitoring"
)

// EnvPrefix marks environment variables that override file values.
// EVAC_HARNESS__TRIALS=50 sets harness.trials.
const EnvPrefix = "EVAC_"

type Config struct {
	Harness HarnessConfig     `json:"harness"`
	Logging LoggingConfig     `json:"logging"`
	Metrics metrics.Config    `json:"metrics"`
	Export  ExportConfig      `json:"export"`
	API     APIConfig         `json:"api"`
	Sentry  monitoring.Config `json:"sentry"`
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("%w: unsupported config format: %s", model.ErrInvalidConfiguration, ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Harness.setDefaults(func(key string, _ model.Range) bool {
		return k.Exists("harness." + key)
	})
	cfg.Logging.SetDefaults()
	cfg.API.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults fills every section's optional fields.
func (c *Config) SetDefaults() {
	c.Harness.SetDefaults()
	c.Logging.SetDefaults()
	c.API.SetDefaults()
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Harness.Validate(); err != nil {
		return fmt.Errorf("harness: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}
