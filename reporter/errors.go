package reporter

import (
	"errors"
	"fmt"
)

// Usage is printed when the address or port argument is absent.
const Usage = "Space-separated IP and Port are required"

// ErrMissingArguments is returned when the address or port argument is absent.
var ErrMissingArguments = errors.New("address and port arguments are required")

// ArgumentError is returned when the startup arguments are missing or malformed.
type ArgumentError struct {
	// Arg names the offending argument, e.g. "port".
	Arg string
	// Value is the raw value supplied by the caller.
	Value string
	Err   error
}

func (e *ArgumentError) Error() string {
	if e.Arg == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("invalid %s %q: %v", e.Arg, e.Value, e.Err)
}

func (e *ArgumentError) Unwrap() error { return e.Err }

// BindError is returned when the listening socket cannot be bound.
type BindError struct {
	Endpoint Endpoint
	Err      error
}

func (e *BindError) Error() string {
	return fmt.Sprintf("bind %s: %v", e.Endpoint, e.Err)
}

func (e *BindError) Unwrap() error { return e.Err }

// SocketError is returned when the socket fails after the receive loop started.
type SocketError struct {
	// Op is the failing socket operation, e.g. "read".
	Op  string
	Err error
}

func (e *SocketError) Error() string {
	return fmt.Sprintf("socket %s: %v", e.Op, e.Err)
}

func (e *SocketError) Unwrap() error { return e.Err }

// DecodeWarning reports that a payload was not valid text and a fallback
// rendering was used. It is never fatal.
type DecodeWarning struct {
	// Mode is the decoder mode that fell back.
	Mode DecoderMode
	// Offset is the first byte that could not be decoded.
	Offset int
}

func (w *DecodeWarning) Error() string {
	return fmt.Sprintf("payload is not valid %s at byte %d, rendered with fallback", w.Mode, w.Offset)
}
