package config

import (
	"errors"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestLoggingValidate(t *testing.T) {
	cases := []struct {
		name     string
		logging  Logging
		expected error
	}{
		{name: "empty-ok", logging: Logging{}},
		{name: "stderr-ok", logging: Logging{Type: LoggingTypeStderr, Level: LogLevelDebug}},
		{name: "stdout-ok", logging: Logging{Type: LoggingTypeStdout, Level: LogLevelError}},
		{name: "case-and-space-insensitive-ok", logging: Logging{Type: " Stderr ", Level: "WARN"}},
		{name: "file-type", logging: Logging{Type: "file"}, expected: errInvalidLoggingType},
		{name: "syslog-type", logging: Logging{Type: "syslog"}, expected: errInvalidLoggingType},
		{name: "verbose-level", logging: Logging{Type: LoggingTypeStderr, Level: "verbose"}, expected: errInvalidLoggingLevel},
		{name: "numeric-level", logging: Logging{Level: "2"}, expected: errInvalidLoggingLevel},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.logging.Validate()
			if tc.expected == nil {
				require.NoError(t, err)
				return
			}
			require.True(t, errors.Is(err, tc.expected))
		})
	}
}

func TestLoggingDefaultKeepsStdoutForReports(t *testing.T) {
	cfg, _ := loadForTest(t)
	require.Equal(t, LoggingTypeStderr, cfg.Logging.Type)

	t.Setenv("UDPWATCH_LOGGING_TYPE", "stdout")
	cfg, _ = loadForTest(t)
	require.Equal(t, LoggingTypeStdout, cfg.Logging.Type)

	_, _, err := Load(viper.New(), newTestFlagSet(), []string{"--logging-type", "file"})
	require.ErrorIs(t, err, errInvalidLoggingType)
}
