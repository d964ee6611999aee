package main

import (
	"crypto/tls"
	"fmt"

	"github.com/observiq/udpwatch/internal/config"
)

// tcpTLSConfig returns the client TLS config for the TCP output, or nil when
// TLS is disabled.
func tcpTLSConfig(cfg config.TCPOutputConfig) (*tls.Config, error) {
	if !cfg.EnableTLS {
		return nil, nil
	}
	tlsConfig, err := cfg.TLS.Convert()
	if err != nil {
		return nil, fmt.Errorf("create TCP output TLS config: %w", err)
	}
	return tlsConfig, nil
}
