// Package logging contains the logging logic for udpwatch
package logging

import (
	"fmt"
	"os"
	"strings"

	"github.com/observiq/udpwatch/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger returns a new Logger for the specified config.
// If the config is empty, it defaults to stderr at info level so that
// stdout carries nothing but report lines.
func NewLogger(cfg config.Logging) (*zap.Logger, error) {
	level := parseZapLevel(cfg.Level)

	var sink zapcore.WriteSyncer
	switch strings.TrimSpace(strings.ToLower(cfg.Type)) {
	case "", config.LoggingTypeStderr:
		sink = os.Stderr
	case config.LoggingTypeStdout:
		sink = os.Stdout
	default:
		return nil, fmt.Errorf("unknown output type: %s", cfg.Type)
	}

	core := zapcore.NewCore(newEncoder(), zapcore.Lock(sink), level)
	return zap.New(core), nil
}

func parseZapLevel(level config.LogLevel) zapcore.Level {
	switch strings.ToLower(string(level)) {
	case string(config.LogLevelDebug):
		return zapcore.DebugLevel
	case string(config.LogLevelWarn):
		return zapcore.WarnLevel
	case string(config.LogLevelError):
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func newEncoder() zapcore.Encoder {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.CallerKey = ""
	encoderConfig.StacktraceKey = ""
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.MessageKey = "message"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return zapcore.NewJSONEncoder(encoderConfig)
}
