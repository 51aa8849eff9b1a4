// Package suite loads variant suite files for orchestrated runs.
package suite

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/querylab/benchcore/internal/bench"
	"github.com/querylab/benchcore/internal/orchestrator"
)

// Suite describes one orchestrated benchmark: a named, ordered set of
// variants measured under a shared config.
type Suite struct {
	// Name labels the saved BenchmarkRun.
	Name string `yaml:"name"`

	// MetricsURL is an optional resource-metrics endpoint sampled during
	// measurement. Absence degrades gracefully.
	MetricsURL string `yaml:"metricsUrl"`

	Variants []orchestrator.Variant `yaml:"variants"`
	Config   bench.Config           `yaml:"config"`
}

// Load reads and validates a YAML suite file.
func Load(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read suite file: %w", err)
	}
	return Parse(data)
}

// Parse parses suite data.
func Parse(data []byte) (*Suite, error) {
	var s Suite
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse suite: %w", err)
	}

	if len(s.Variants) == 0 {
		return nil, fmt.Errorf("suite defines no variants")
	}
	for i, v := range s.Variants {
		if v.Name == "" {
			return nil, fmt.Errorf("variant %d has no name", i+1)
		}
		if v.Endpoint == "" {
			return nil, fmt.Errorf("variant %q has no endpoint", v.Name)
		}
	}
	if err := s.Config.Validate(); err != nil {
		return nil, err
	}

	if s.Name == "" {
		s.Name = "benchmark"
	}
	return &s, nil
}
