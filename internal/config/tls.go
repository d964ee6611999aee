package config

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"
)

const (
	// DefaultMinTLSVersion is the default minimum TLS version
	// used when creating a TLS config
	DefaultMinTLSVersion uint16 = tls.VersionTLS13
)

// TLSVersion is the TLS version configured by the user
type TLSVersion string

const (
	// TLSVersion12 represents TLS 1.2
	TLSVersion12 TLSVersion = "1.2"

	// TLSVersion13 represents TLS 1.3
	TLSVersion13 TLSVersion = "1.3"
)

func (t TLSVersion) parseTLSVersion() uint16 {
	switch t {
	case TLSVersion12:
		return tls.VersionTLS12
	case TLSVersion13:
		return tls.VersionTLS13
	default:
		return DefaultMinTLSVersion
	}
}

// TLS is the client TLS configuration used when forwarding report lines
type TLS struct {
	// MinVersion is the minimum acceptable TLS version.
	MinVersion TLSVersion `mapstructure:"minVersion" yaml:"minVersion,omitempty"`

	// Certificate is the path to an x509 PEM encoded client certificate,
	// presented to the collector for mutual TLS.
	Certificate string `mapstructure:"cert" yaml:"cert,omitempty"`

	// PrivateKey is the matching x509 PEM encoded private key for the Certificate.
	PrivateKey string `mapstructure:"key" yaml:"key,omitempty"`

	// CertificateAuthority is one or more file paths to x509 PEM encoded
	// certificate authority chains used to verify the collector. When empty
	// the host's root CA set is used.
	CertificateAuthority []string `mapstructure:"ca" yaml:"ca,omitempty"`

	// InsecureSkipVerify disables verification of the collector's certificate
	// chain and host name. Only use this for testing.
	InsecureSkipVerify bool `mapstructure:"skipVerify" yaml:"skipVerify,omitempty"`
}

// Validate validates the TLS configuration
func (t *TLS) Validate() error {
	switch t.MinVersion {
	// Zero value will cause fallback to DefaultMinTLSVersion
	case "", TLSVersion12, TLSVersion13:
	default:
		return fmt.Errorf(
			"invalid tls version %s, should be one of %s, %s",
			t.MinVersion, TLSVersion12, TLSVersion13,
		)
	}

	if t.Certificate != "" && t.PrivateKey == "" {
		return errors.New("tls private key must be set when tls certificate is set")
	}

	if t.Certificate == "" && t.PrivateKey != "" {
		return errors.New("tls certificate must be set when tls private key is set")
	}

	files := append([]string{t.Certificate, t.PrivateKey}, t.CertificateAuthority...)
	for _, f := range files {
		if f == "" {
			continue
		}
		if _, err := os.Stat(f); err != nil {
			return fmt.Errorf("failed to lookup tls file %s: %w", f, err)
		}
	}

	return nil
}

// Convert converts a TLS config to a client *tls.Config
func (t TLS) Convert() (*tls.Config, error) {
	// #nosec G402 - User defines min tls version via a flag, user is restricted to 1.2 or 1.3
	tlsConfig := &tls.Config{
		MinVersion:         t.MinVersion.parseTLSVersion(),
		InsecureSkipVerify: t.InsecureSkipVerify,
	}

	if len(t.CertificateAuthority) > 0 {
		caPool := x509.NewCertPool()

		for _, caCertFile := range t.CertificateAuthority {
			ca, err := os.ReadFile(caCertFile) // #nosec G304, user defines ca file path via a flag
			if err != nil {
				return nil, fmt.Errorf("failed to read certificate authority file: %w", err)
			}

			if !caPool.AppendCertsFromPEM(ca) {
				return nil, errors.New("failed to append certificate authority to root ca pool")
			}
		}

		tlsConfig.RootCAs = caPool
	}

	if t.Certificate != "" && t.PrivateKey != "" {
		keypair, err := tls.LoadX509KeyPair(t.Certificate, t.PrivateKey)
		if err != nil {
			return nil, fmt.Errorf("failed to load tls certificate: %w", err)
		}
		tlsConfig.Certificates = []tls.Certificate{keypair}
	}

	return tlsConfig, nil
}
