package config

import (
	"net"
	"strconv"
)

// UDPOutputConfig configures forwarding each report line as one datagram.
// A line longer than the path MTU is fragmented by the kernel; collectors
// that drop fragments will lose it.
type UDPOutputConfig struct {
	// Host is the collector host report lines are forwarded to
	Host string `yaml:"host,omitempty" mapstructure:"host,omitempty"`
	// Port is the collector port report lines are forwarded to
	Port int `yaml:"port,omitempty" mapstructure:"port,omitempty"`
	// Workers is the number of sending goroutines, each with its own socket
	Workers int `yaml:"workers,omitempty" mapstructure:"workers,omitempty"`
}

// Validate validates the UDP forwarder configuration
func (c *UDPOutputConfig) Validate() error {
	return validateForward("UDP output", c.Host, c.Port, c.Workers)
}

// Target returns the collector address in host:port form.
func (c UDPOutputConfig) Target() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
