//go:build unix

package reporter

import (
	"errors"
	"syscall"

	"golang.org/x/sys/unix"
)

// msgTrunc is the recvmsg flag set when a datagram did not fit the buffer.
const msgTrunc = unix.MSG_TRUNC

func controlReuseAddr(_, _ string, c syscall.RawConn) error {
	var sockErr error
	err := c.Control(func(fd uintptr) {
		sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
	})
	if err != nil {
		return err
	}
	return sockErr
}

// isTruncation reports whether err only signals a truncated datagram.
func isTruncation(error) bool {
	return false
}

func isTransientErrno(err error) bool {
	switch {
	case errors.Is(err, unix.EINTR),
		errors.Is(err, unix.EAGAIN),
		errors.Is(err, unix.ECONNREFUSED),
		errors.Is(err, unix.ENOBUFS),
		errors.Is(err, unix.ENOMEM):
		return true
	default:
		return false
	}
}
