package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Load binds the default overrides to flags, parses args and returns the
// validated configuration together with the remaining positional arguments.
func Load(v *viper.Viper, flags *pflag.FlagSet, args []string) (*Config, []string, error) {
	for _, override := range DefaultOverrides() {
		if err := override.BindTo(v, flags); err != nil {
			return nil, nil, fmt.Errorf("bind override %s: %w", override.Field, err)
		}
	}

	if err := flags.Parse(args); err != nil {
		return nil, nil, fmt.Errorf("parse flags: %w", err)
	}

	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := NewConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, flags.Args(), nil
}
