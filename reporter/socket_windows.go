//go:build windows

package reporter

import (
	"errors"
	"syscall"

	"golang.org/x/sys/windows"
)

// Windows reports truncation through WSAEMSGSIZE instead of a flag.
const msgTrunc = 0

const (
	wsaeintr   syscall.Errno = 10004
	wsaenobufs syscall.Errno = 10055
)

func controlReuseAddr(_, _ string, c syscall.RawConn) error {
	var sockErr error
	err := c.Control(func(fd uintptr) {
		sockErr = windows.SetsockoptInt(windows.Handle(fd), windows.SOL_SOCKET, windows.SO_REUSEADDR, 1)
	})
	if err != nil {
		return err
	}
	return sockErr
}

func isTruncation(err error) bool {
	return errors.Is(err, windows.WSAEMSGSIZE)
}

// ICMP port unreachable surfaces as WSAECONNRESET on unconnected UDP sockets.
func isTransientErrno(err error) bool {
	return errors.Is(err, windows.WSAECONNRESET) ||
		errors.Is(err, wsaeintr) ||
		errors.Is(err, wsaenobufs)
}
