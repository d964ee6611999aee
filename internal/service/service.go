// Package service runs the reporter alongside its supporting servers.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/observiq/udpwatch/output"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// StopTimeout bounds how long Stop waits for outputs and servers to drain.
const StopTimeout = 30 * time.Second

// errReporterDone ends the group when the reporter exits cleanly.
var errReporterDone = errors.New("reporter done")

// Runner blocks until its context is cancelled or it fails.
type Runner interface {
	Run(ctx context.Context) error
}

// Server is an auxiliary server such as the metrics endpoint.
type Server interface {
	Serve() error
	Shutdown(ctx context.Context) error
}

// Service ties the reporter to its output and optional servers.
type Service struct {
	Logger   *zap.Logger
	Reporter Runner
	Output   output.Output
	Servers  []Server
}

// New creates a new Service.
func New(logger *zap.Logger, reporter Runner, out output.Output, servers ...Server) (*Service, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if reporter == nil {
		return nil, fmt.Errorf("reporter cannot be nil")
	}
	if out == nil {
		return nil, fmt.Errorf("output cannot be nil")
	}

	return &Service{
		Logger:   logger,
		Reporter: reporter,
		Output:   out,
		Servers:  servers,
	}, nil
}

// Run runs the reporter and servers until ctx is cancelled or one of them
// fails. The first failure is returned.
func (s *Service) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	for _, srv := range s.Servers {
		g.Go(srv.Serve)
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), StopTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	g.Go(func() error {
		if err := s.Reporter.Run(gctx); err != nil {
			return err
		}
		return errReporterDone
	})

	err := g.Wait()
	if errors.Is(err, errReporterDone) {
		return nil
	}
	return err
}

// Stop stops the output. Stop will block for up to StopTimeout.
func (s *Service) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), StopTimeout)
	defer cancel()

	if err := s.Output.Stop(ctx); err != nil {
		return fmt.Errorf("stop output: %w", err)
	}

	return nil
}
