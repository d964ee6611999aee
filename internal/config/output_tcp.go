package config

import (
	"fmt"
	"net"
	"strconv"
)

// TCPOutputConfig configures forwarding report lines as a newline delimited
// stream over TCP, optionally wrapped in TLS.
type TCPOutputConfig struct {
	// Host is the collector host report lines are forwarded to
	Host string `yaml:"host,omitempty" mapstructure:"host,omitempty"`
	// Port is the collector port report lines are forwarded to
	Port int `yaml:"port,omitempty" mapstructure:"port,omitempty"`
	// Workers is the number of sending goroutines, each with its own connection
	Workers int `yaml:"workers,omitempty" mapstructure:"workers,omitempty"`
	// EnableTLS wraps the connection in TLS
	EnableTLS bool `yaml:"enableTLS,omitempty" mapstructure:"enableTLS,omitempty"`
	// TLS contains the client TLS settings used when EnableTLS is set
	TLS TLS `yaml:"tls,omitempty" mapstructure:"tls,omitempty"`
}

// Validate validates the TCP forwarder configuration. TLS settings are only
// checked when EnableTLS is set.
func (c *TCPOutputConfig) Validate() error {
	if err := validateForward("TCP output", c.Host, c.Port, c.Workers); err != nil {
		return err
	}

	if c.EnableTLS {
		if err := c.TLS.Validate(); err != nil {
			return fmt.Errorf("TCP output TLS validation failed: %w", err)
		}
	}

	return nil
}

// Target returns the collector address in host:port form.
func (c TCPOutputConfig) Target() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
