// Package config contains the top level configuration structures and logic
package config

// Config is the configuration for udpwatch. The listening endpoint is not
// part of it, it comes from the positional arguments.
type Config struct {
	// Logging configuration for the logger
	Logging Logging `yaml:"logging,omitempty" mapstructure:"logging,omitempty"`
	// Report configuration for rendering received datagrams
	Report Report `yaml:"report,omitempty" mapstructure:"report,omitempty"`
	// Output configuration for report lines
	Output Output `yaml:"output,omitempty" mapstructure:"output,omitempty"`
	// Metrics configuration for the Prometheus endpoint
	Metrics Metrics `yaml:"metrics,omitempty" mapstructure:"metrics,omitempty"`
}

// Validate validates the entire configuration
func (c *Config) Validate() error {
	if err := c.Logging.Validate(); err != nil {
		return err
	}
	if err := c.Report.Validate(); err != nil {
		return err
	}
	if err := c.Output.Validate(); err != nil {
		return err
	}
	if err := c.Metrics.Validate(); err != nil {
		return err
	}
	return nil
}

// NewConfig returns a new config
func NewConfig() *Config {
	return &Config{}
}

// ApplyDefaults applies default values to the configuration
func (c *Config) ApplyDefaults() {
	if c.Logging.Type == "" {
		c.Logging.Type = LoggingTypeStderr
	}
	if c.Logging.Level == "" {
		c.Logging.Level = LogLevelInfo
	}

	if c.Report.Format == "" {
		c.Report.Format = ReportFormatText
	}
	if c.Report.Decoder == "" {
		c.Report.Decoder = DecoderText
	}
	if c.Report.Charset == "" {
		c.Report.Charset = DefaultCharset
	}

	if c.Output.Type == "" {
		c.Output.Type = OutputTypeStdout
	}
	if c.Output.UDP.Workers == 0 {
		c.Output.UDP.Workers = 1
	}
	if c.Output.TCP.Workers == 0 {
		c.Output.TCP.Workers = 1
	}

	if c.Metrics.Host == "" {
		c.Metrics.Host = DefaultMetricsHost
	}
	if c.Metrics.Port == 0 {
		c.Metrics.Port = DefaultMetricsPort
	}
}
