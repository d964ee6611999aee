package config

import "fmt"

const (
	// DefaultMetricsHost is the default listen host of the metrics endpoint
	DefaultMetricsHost = "localhost"
	// DefaultMetricsPort is the default listen port of the metrics endpoint
	DefaultMetricsPort = 9464
)

// Metrics contains configuration for the Prometheus metrics endpoint
type Metrics struct {
	// Enabled turns on the /metrics endpoint
	Enabled bool `yaml:"enabled,omitempty" mapstructure:"enabled,omitempty"`
	// Host is the listen host of the metrics endpoint
	Host string `yaml:"host,omitempty" mapstructure:"host,omitempty"`
	// Port is the listen port of the metrics endpoint
	Port int `yaml:"port,omitempty" mapstructure:"port,omitempty"`
}

// Validate validates the metrics configuration. Host and port are only
// checked when the endpoint is enabled.
func (m *Metrics) Validate() error {
	if !m.Enabled {
		return nil
	}

	if err := ValidateHost(m.Host); err != nil {
		return fmt.Errorf("metrics host validation failed: %w", err)
	}

	if err := ValidatePort(m.Port); err != nil {
		return fmt.Errorf("metrics port validation failed: %w", err)
	}

	return nil
}
