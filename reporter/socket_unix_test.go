//go:build unix

package reporter

import (
	"context"
	"errors"
	"net"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "interrupted", err: &net.OpError{Op: "read", Err: os.NewSyscallError("recvmsg", unix.EINTR)}, want: true},
		{name: "no buffers", err: unix.ENOBUFS, want: true},
		{name: "refused", err: unix.ECONNREFUSED, want: true},
		{name: "timeout", err: os.ErrDeadlineExceeded, want: true},
		{name: "closed", err: net.ErrClosed, want: false},
		{name: "bad descriptor", err: unix.EBADF, want: false},
		{name: "other", err: errors.New("boom"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, isTransient(tt.err))
		})
	}
}

func TestListen_SetsReuseAddr(t *testing.T) {
	conn, err := Listen(context.Background(), Endpoint{Address: "127.0.0.1", Port: 0})
	require.NoError(t, err)
	defer conn.Close()

	raw, err := conn.SyscallConn()
	require.NoError(t, err)

	var value int
	var sockErr error
	require.NoError(t, raw.Control(func(fd uintptr) {
		value, sockErr = unix.GetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR)
	}))
	require.NoError(t, sockErr)
	require.NotZero(t, value)
}
