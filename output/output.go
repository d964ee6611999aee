// Package output delivers rendered report lines.
package output

import (
	"context"
)

// Writer can consume report lines.
type Writer interface {
	// Write writes a single newline terminated report line. Implementations
	// must not retain data after returning unless they copy it.
	Write(ctx context.Context, data []byte) error
}

// Output is the interface for delivering report lines.
type Output interface {
	Writer

	// Stop stops the output.
	Stop(ctx context.Context) error
}
