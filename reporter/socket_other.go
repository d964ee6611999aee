//go:build !unix && !windows

package reporter

import "syscall"

const msgTrunc = 0

func controlReuseAddr(_, _ string, _ syscall.RawConn) error {
	return nil
}

func isTruncation(error) bool {
	return false
}

func isTransientErrno(error) bool {
	return false
}
