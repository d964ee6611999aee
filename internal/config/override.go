package config

import (
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable override
const EnvPrefix = "UDPWATCH_"

// Override is a configuration override
type Override struct {
	// Field is the config field to override
	Field string
	// Flag is the flag that will override the field
	Flag string
	// Env is the environment variable that will override the field
	Env string
	// Usage is the usage for the override
	Usage string
	// Default is the default value for the override
	Default any
}

// NewOverride creates a new override
func NewOverride(field, usage string, def any) *Override {
	return &Override{
		Field:   field,
		Flag:    createFlagName(field),
		Env:     createEnvName(field),
		Usage:   usage,
		Default: def,
	}
}

// Bind binds the override to the global viper instance
func (o *Override) Bind(flags *pflag.FlagSet) error {
	return o.BindTo(viper.GetViper(), flags)
}

// BindTo binds the override to v
func (o *Override) BindTo(v *viper.Viper, flags *pflag.FlagSet) error {
	flag := o.createFlag(flags)
	if err := v.BindPFlag(o.Field, flag); err != nil {
		return err
	}
	if err := v.BindEnv(o.Field, o.Env); err != nil {
		return err
	}
	return nil
}

// createFlag creates a flag for the override
func (o *Override) createFlag(flags *pflag.FlagSet) *pflag.Flag {
	if exitingFlag := flags.Lookup(o.Flag); exitingFlag != nil {
		return exitingFlag
	}

	switch v := o.Default.(type) {
	case string:
		_ = flags.String(o.Flag, v, o.Usage)
	case []string:
		_ = flags.StringSlice(o.Flag, v, o.Usage)
	case LogLevel:
		_ = flags.String(o.Flag, string(v), o.Usage)
	case OutputType:
		_ = flags.String(o.Flag, string(v), o.Usage)
	case int:
		_ = flags.Int(o.Flag, v, o.Usage)
	case time.Duration:
		_ = flags.Duration(o.Flag, v, o.Usage)
	case bool:
		_ = flags.Bool(o.Flag, v, o.Usage)
	default:
		_ = flags.String(o.Flag, "", o.Usage)
	}

	return flags.Lookup(o.Flag)
}

// createFlagName creates a flag name from a field
func createFlagName(field string) string {
	updatedField := strings.ReplaceAll(field, ".", "-")
	return strings.ToLower(updatedField)
}

// createEnvName creates an environment variable name from a field
func createEnvName(field string) string {
	updatedField := strings.ReplaceAll(field, ".", "_")
	updatedField = strings.ToUpper(updatedField)
	return EnvPrefix + updatedField
}

// tcpTLSOverrides creates TCP TLS overrides with readable flag names
func tcpTLSOverrides() []*Override {
	return []*Override{
		{
			Field:   "output.tcp.enableTLS",
			Flag:    "output-tcp-enable-tls",
			Env:     EnvPrefix + "OUTPUT_TCP_ENABLE_TLS",
			Usage:   "enable TLS when forwarding report lines over TCP",
			Default: false,
		},
		{
			Field:   "output.tcp.tls.cert",
			Flag:    "output-tcp-tls-cert",
			Env:     EnvPrefix + "OUTPUT_TCP_TLS_CERT",
			Usage:   "the path to the TLS client certificate for mutual TLS",
			Default: "",
		},
		{
			Field:   "output.tcp.tls.key",
			Flag:    "output-tcp-tls-key",
			Env:     EnvPrefix + "OUTPUT_TCP_TLS_KEY",
			Usage:   "the path to the TLS client private key for mutual TLS",
			Default: "",
		},
		{
			Field:   "output.tcp.tls.ca",
			Flag:    "output-tcp-tls-ca",
			Env:     EnvPrefix + "OUTPUT_TCP_TLS_CA",
			Usage:   "the path to the TLS CA files. Optional, if not provided the host's root CA set will be used",
			Default: []string{},
		},
		{
			Field:   "output.tcp.tls.skipVerify",
			Flag:    "output-tcp-tls-skip-verify",
			Env:     EnvPrefix + "OUTPUT_TCP_TLS_SKIP_VERIFY",
			Usage:   "whether to skip TLS verification of the collector",
			Default: false,
		},
		{
			Field:   "output.tcp.tls.minVersion",
			Flag:    "output-tcp-tls-min-version",
			Env:     EnvPrefix + "OUTPUT_TCP_TLS_MIN_VERSION",
			Usage:   "the minimum TLS version to use for TCP connections. One of: 1.2|1.3",
			Default: "1.2",
		},
	}
}

// DefaultOverrides returns all overrides for the application
func DefaultOverrides() []*Override {
	overrides := []*Override{
		NewOverride("logging.type", "output of the log. One of: stderr|stdout", LoggingTypeStderr),
		NewOverride("logging.level", "log level to use. One of: debug|info|warn|error", LogLevelInfo),
		NewOverride("report.format", "report line format. One of: text|json", ReportFormatText),
		NewOverride("report.decoder", "payload rendering. One of: text|escape|hex|wled", DecoderText),
		NewOverride("report.charset", "payload character set used by the text decoder, e.g. utf-8|latin1|shift_jis", DefaultCharset),
		NewOverride("report.timeLayout", "Go time layout for text report timestamps (default: ctime layout)", ""),
		NewOverride("output.type", "output type. One of: stdout|tcp|udp", OutputTypeStdout),
		NewOverride("output.udp.host", "UDP forward target host", ""),
		NewOverride("output.udp.port", "UDP forward target port", 0),
		NewOverride("output.udp.workers", "number of UDP output workers", 1),
		NewOverride("output.tcp.host", "TCP forward target host", ""),
		NewOverride("output.tcp.port", "TCP forward target port", 0),
		NewOverride("output.tcp.workers", "number of TCP output workers", 1),
		NewOverride("metrics.enabled", "serve Prometheus metrics on /metrics", false),
		NewOverride("metrics.host", "metrics endpoint listen host", DefaultMetricsHost),
		NewOverride("metrics.port", "metrics endpoint listen port", DefaultMetricsPort),
	}

	overrides = append(overrides, tcpTLSOverrides()...)
	return overrides
}
