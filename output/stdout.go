package output

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
)

// Stdout writes report lines to standard output, or any io.Writer.
type Stdout struct {
	logger *zap.Logger
	mu     sync.Mutex
	w      io.Writer
}

// NewStdout creates a new Stdout output. A nil writer selects os.Stdout.
func NewStdout(logger *zap.Logger, w io.Writer) (*Stdout, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if w == nil {
		w = os.Stdout
	}

	return &Stdout{
		logger: logger.Named("output-stdout"),
		w:      w,
	}, nil
}

// Write writes data as a single write call so concurrent lines never interleave.
func (s *Stdout) Write(_ context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.w.Write(data); err != nil {
		return fmt.Errorf("failed to write data: %w", err)
	}
	return nil
}

// Stop flushes the writer if it supports syncing.
func (s *Stdout) Stop(_ context.Context) error {
	s.logger.Debug("Stopping stdout output")

	s.mu.Lock()
	defer s.mu.Unlock()

	if f, ok := s.w.(*os.File); ok {
		// Sync fails on terminals and pipes; nothing is buffered there.
		_ = f.Sync()
	}
	return nil
}
