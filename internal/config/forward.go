package config

import "fmt"

// MaxForwardWorkers caps the workers of a forwarding output. Each worker owns
// a connection, so lines sent by different workers may reach the collector
// out of order.
const MaxForwardWorkers = 16

// validateForward checks the target and worker count shared by the UDP and
// TCP forwarders. proto prefixes every error, e.g. "UDP output".
func validateForward(proto, host string, port, workers int) error {
	if err := ValidateHost(host); err != nil {
		return fmt.Errorf("%s host validation failed: %w", proto, err)
	}

	if err := ValidatePort(port); err != nil {
		return fmt.Errorf("%s port validation failed: %w", proto, err)
	}

	if workers < 0 {
		return fmt.Errorf("%s workers cannot be negative, got %d", proto, workers)
	}
	if workers > MaxForwardWorkers {
		return fmt.Errorf("%s workers cannot exceed %d, got %d", proto, MaxForwardWorkers, workers)
	}

	return nil
}
