// Package main is the main package for udpwatch, a UDP datagram reporter.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/observiq/udpwatch/internal/config"
	"github.com/observiq/udpwatch/internal/logging"
	"github.com/observiq/udpwatch/internal/service"
	"github.com/observiq/udpwatch/internal/telemetry/metrics"
	"github.com/observiq/udpwatch/output"
	"github.com/observiq/udpwatch/reporter"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Exit codes
const (
	exitOK       = 0
	exitFailure  = 1
	exitArgument = 2
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// run executes udpwatch and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	flags := pflag.NewFlagSet("udpwatch", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() {
		fmt.Fprintf(stderr, "Usage: udpwatch [flags] [--] <address> <port>\n\n"+
			"Arguments starting with '-' are read as flags; put -- before them.\n\nFlags:\n%s", flags.FlagUsages())
	}

	cfg, positional, err := config.Load(viper.New(), flags, args)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(stderr, "Failed to load config: %s\n", err)
		var unknown *pflag.NotExistError
		if errors.As(err, &unknown) {
			flags.Usage()
		}
		return exitArgument
	}

	endpoint, err := reporter.ParseEndpoint(positional)
	if err != nil {
		if errors.Is(err, reporter.ErrMissingArguments) {
			fmt.Fprintln(stdout, reporter.Usage)
			return exitFailure
		}
		fmt.Fprintf(stderr, "%s\n", err)
		return exitArgument
	}

	logger, err := logging.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to initialize logger: %s\n", err)
		return exitFailure
	}
	defer func() { _ = logger.Sync() }()

	var servers []service.Server
	if cfg.Metrics.Enabled {
		prom, err := metrics.NewPrometheus(logger, cfg.Metrics.Host, cfg.Metrics.Port)
		if err != nil {
			logger.Error("Failed to create metrics exporter", zap.Error(err))
			return exitFailure
		}
		if err := prom.Start(ctx); err != nil {
			logger.Error("Failed to start metrics exporter", zap.Error(err))
			return exitFailure
		}
		servers = append(servers, prom)
	}

	out, err := newOutput(logger, cfg.Output, stdout)
	if err != nil {
		logger.Error("Failed to create output", zap.Error(err))
		return exitFailure
	}

	decoder, err := reporter.NewDecoder(reporter.DecoderMode(cfg.Report.Decoder), cfg.Report.Charset)
	if err != nil {
		logger.Error("Failed to create decoder", zap.Error(err))
		return exitFailure
	}

	formatter, err := reporter.NewFormatter(reporter.Format(cfg.Report.Format), cfg.Report.TimeLayout)
	if err != nil {
		logger.Error("Failed to create formatter", zap.Error(err))
		return exitFailure
	}

	rep, err := reporter.New(logger, endpoint, decoder, formatter, out)
	if err != nil {
		logger.Error("Failed to create reporter", zap.Error(err))
		return exitFailure
	}

	svc, err := service.New(logger, rep, out, servers...)
	if err != nil {
		logger.Error("Failed to create service", zap.Error(err))
		return exitFailure
	}

	logger.Info("udpwatch started", zap.String("endpoint", endpoint.String()))

	runErr := svc.Run(ctx)

	if err := svc.Stop(); err != nil {
		logger.Error("Failed to stop service", zap.Error(err))
	}

	if runErr != nil {
		var bindErr *reporter.BindError
		var sockErr *reporter.SocketError
		switch {
		case errors.As(runErr, &bindErr):
			logger.Error("Failed to bind listening socket", zap.String("endpoint", bindErr.Endpoint.String()), zap.Error(bindErr.Err))
		case errors.As(runErr, &sockErr):
			logger.Error("Listening socket failed", zap.String("op", sockErr.Op), zap.Error(sockErr.Err))
		default:
			logger.Error("udpwatch failed", zap.Error(runErr))
		}
		fmt.Fprintf(stderr, "%s\n", runErr)
		return exitFailure
	}

	logger.Info("udpwatch shutdown complete")
	return exitOK
}

// newOutput builds the report destination. Lines always reach stdout; a
// tcp or udp output type adds a forwarding destination.
func newOutput(logger *zap.Logger, cfg config.Output, stdout io.Writer) (output.Output, error) {
	console, err := output.NewStdout(logger, stdout)
	if err != nil {
		return nil, fmt.Errorf("create stdout output: %w", err)
	}

	var forward output.Output
	var target string
	switch cfg.Type {
	case config.OutputTypeStdout, "":
		return console, nil
	case config.OutputTypeUDP:
		target = cfg.UDP.Target()
		forward, err = output.NewUDP(logger, cfg.UDP.Host, strconv.Itoa(cfg.UDP.Port), cfg.UDP.Workers)
		if err != nil {
			return nil, fmt.Errorf("create UDP output to %s: %w", target, err)
		}
	case config.OutputTypeTCP:
		target = cfg.TCP.Target()
		tlsConfig, err := tcpTLSConfig(cfg.TCP)
		if err != nil {
			return nil, err
		}
		forward, err = output.NewTCP(logger, cfg.TCP.Host, strconv.Itoa(cfg.TCP.Port), cfg.TCP.Workers, tlsConfig)
		if err != nil {
			return nil, fmt.Errorf("create TCP output to %s: %w", target, err)
		}
	default:
		return nil, fmt.Errorf("invalid output type: %s", cfg.Type)
	}

	logger.Info("Forwarding report lines", zap.String("type", string(cfg.Type)), zap.String("target", target))
	return output.NewMulti(console, forward)
}
