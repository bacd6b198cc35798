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

	"github.com/kilianp07/seaplane/core/metrics"
	"github.com/kilianp07/seaplane/infra/graphql"
	"github.com/kilianp07/seaplane/infra/mqtt"
)

// Config is the root configuration of the planner service and CLI.
type Config struct {
	API     graphql.Config `json:"api"`
	HTTP    HTTPConfig     `json:"http"`
	Planner PlannerConfig  `json:"planner"`
	MQTT    mqtt.Config    `json:"mqtt"`
	Metrics metrics.Config `json:"metrics"`
	Journal JournalConfig  `json:"journal"`
	Sentry  SentryConfig   `json:"sentry"`
}

// Load reads path (YAML or JSON) then applies K_ prefixed environment
// overrides, e.g. K_API__ENDPOINT sets api.endpoint.
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
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	if err := k.Load(env.Provider("K_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "k_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults fills every section's optional fields.
func (c *Config) SetDefaults() {
	c.API.SetDefaults()
	c.HTTP.SetDefaults()
	c.Planner.SetDefaults()
	c.Journal.SetDefaults()
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.API.Validate(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Planner.Validate(); err != nil {
		return fmt.Errorf("planner: %w", err)
	}
	if err := c.Journal.Validate(); err != nil {
		return fmt.Errorf("journal: %w", err)
	}
	return nil
}
