package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeReporter blocks until cancelled, or returns err straight away.
type fakeReporter struct {
	err error
}

func (f *fakeReporter) Run(ctx context.Context) error {
	if f.err != nil {
		return f.err
	}
	<-ctx.Done()
	return nil
}

type fakeOutput struct {
	stopped atomic.Bool
	stopErr error
}

func (f *fakeOutput) Write(context.Context, []byte) error { return nil }

func (f *fakeOutput) Stop(context.Context) error {
	f.stopped.Store(true)
	return f.stopErr
}

type fakeServer struct {
	shutdown chan struct{}
	serveErr error
	closed   atomic.Bool
}

func newFakeServer(serveErr error) *fakeServer {
	return &fakeServer{shutdown: make(chan struct{}), serveErr: serveErr}
}

func (f *fakeServer) Serve() error {
	if f.serveErr != nil {
		return f.serveErr
	}
	<-f.shutdown
	return nil
}

func (f *fakeServer) Shutdown(context.Context) error {
	if f.closed.CompareAndSwap(false, true) {
		close(f.shutdown)
	}
	return nil
}

func TestNew(t *testing.T) {
	_, err := New(nil, &fakeReporter{}, &fakeOutput{})
	require.ErrorContains(t, err, "logger cannot be nil")

	_, err = New(zap.NewNop(), nil, &fakeOutput{})
	require.ErrorContains(t, err, "reporter cannot be nil")

	_, err = New(zap.NewNop(), &fakeReporter{}, nil)
	require.ErrorContains(t, err, "output cannot be nil")
}

func TestService_RunUntilCancelled(t *testing.T) {
	srv := newFakeServer(nil)
	s, err := New(zap.NewNop(), &fakeReporter{}, &fakeOutput{}, srv)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("service did not stop")
	}
	require.True(t, srv.closed.Load())
}

func TestService_ReporterFailure(t *testing.T) {
	reporterErr := errors.New("bind failed")
	srv := newFakeServer(nil)
	s, err := New(zap.NewNop(), &fakeReporter{err: reporterErr}, &fakeOutput{}, srv)
	require.NoError(t, err)

	err = s.Run(context.Background())
	require.ErrorIs(t, err, reporterErr)
	require.True(t, srv.closed.Load())
}

func TestService_ServerFailure(t *testing.T) {
	serveErr := errors.New("metrics listener closed")
	s, err := New(zap.NewNop(), &fakeReporter{}, &fakeOutput{}, newFakeServer(serveErr))
	require.NoError(t, err)

	err = s.Run(context.Background())
	require.ErrorIs(t, err, serveErr)
}

func TestService_Stop(t *testing.T) {
	out := &fakeOutput{}
	s, err := New(zap.NewNop(), &fakeReporter{}, out)
	require.NoError(t, err)
	require.NoError(t, s.Stop())
	require.True(t, out.stopped.Load())

	out = &fakeOutput{stopErr: errors.New("flush failed")}
	s, err = New(zap.NewNop(), &fakeReporter{}, out)
	require.NoError(t, err)
	require.ErrorContains(t, s.Stop(), "stop output: flush failed")
}
