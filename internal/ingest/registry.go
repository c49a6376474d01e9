package ingest

import (
	"embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed config/sources.yaml
var sourcesYAML embed.FS

// Registry holds the configuration for all bid sources.
type Registry struct {
	Sources []SourceConfig `yaml:"sources"`
}

// SourceConfig defines a single procurement page to scrape.
type SourceConfig struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"` // Agency name attached to every bid from this source
	URL      string `yaml:"url"`
	Location string `yaml:"location,omitempty"` // Parser default location
	Active   bool   `yaml:"active"`

	// Per-source fetch tuning for the direct scraper.
	TimeoutSeconds int     `yaml:"timeout_seconds,omitempty"`
	RateLimitRPS   float64 `yaml:"rate_limit_rps,omitempty"`
}

// LoadRegistry reads sources from path, falling back to the embedded
// sources.yaml when path is empty.
func LoadRegistry(path string) (*Registry, error) {
	var data []byte
	var err error
	if path != "" {
		data, err = os.ReadFile(path)
	} else {
		data, err = sourcesYAML.ReadFile("config/sources.yaml")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read source registry: %w", err)
	}

	// Expand environment variables within the YAML content (e.g. ${SFUSD_BIDS_URL})
	expanded := os.ExpandEnv(string(data))

	var reg Registry
	if err := yaml.Unmarshal([]byte(expanded), &reg); err != nil {
		return nil, fmt.Errorf("failed to parse source registry: %w", err)
	}

	for i, src := range reg.Sources {
		if src.ID == "" || src.URL == "" {
			return nil, fmt.Errorf("source %d: id and url are required", i)
		}
	}

	return &reg, nil
}

// Active returns the enabled sources in registry order.
func (r *Registry) Active() []SourceConfig {
	var out []SourceConfig
	for _, s := range r.Sources {
		if s.Active {
			out = append(out, s)
		}
	}
	return out
}
