package output

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewUDP(t *testing.T) {
	logger := zap.NewNop()

	tests := []struct {
		name        string
		logger      *zap.Logger
		host        string
		port        string
		workers     int
		wantWorkers int
		errContains string
	}{
		{
			name:        "default workers",
			logger:      logger,
			host:        "localhost",
			port:        "8080",
			workers:     0,
			wantWorkers: DefaultWorkers,
		},
		{
			name:        "custom workers",
			logger:      logger,
			host:        "127.0.0.1",
			port:        "9090",
			workers:     3,
			wantWorkers: 3,
		},
		{
			name:        "negative workers",
			logger:      logger,
			host:        "localhost",
			port:        "8080",
			workers:     -1,
			wantWorkers: DefaultWorkers,
		},
		{
			name:        "nil logger",
			host:        "localhost",
			port:        "8080",
			errContains: "logger cannot be nil",
		},
		{
			name:        "empty host",
			logger:      logger,
			port:        "8080",
			errContains: "host cannot be empty",
		},
		{
			name:        "empty port",
			logger:      logger,
			host:        "localhost",
			errContains: "port cannot be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			udp, err := NewUDP(tt.logger, tt.host, tt.port, tt.workers)
			if tt.errContains != "" {
				require.ErrorContains(t, err, tt.errContains)
				require.Nil(t, udp)
				return
			}

			require.NoError(t, err)
			defer func() { require.NoError(t, udp.Stop(context.Background())) }()

			require.Equal(t, tt.host, udp.host)
			require.Equal(t, tt.port, udp.port)
			require.Equal(t, tt.wantWorkers, udp.workers)
			require.NotNil(t, udp.dataChan)
		})
	}
}

func TestUDP_ForwardsLines(t *testing.T) {
	collector := newTestUDPCollector(t)

	host, port, err := net.SplitHostPort(collector.addr())
	require.NoError(t, err)

	udp, err := NewUDP(zap.NewNop(), host, port, 1)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	line := []byte("Mon Jan  2 15:04:05 2006 [127.0.0.1:5000] hello\n")
	require.NoError(t, udp.Write(ctx, line))
	require.NoError(t, udp.Write(ctx, []byte("second\n")))

	// The output must copy the line, the caller may reuse its buffer.
	copy(line, "XXXX")

	require.Eventually(t, func() bool {
		return len(collector.received()) == 2
	}, 5*time.Second, 10*time.Millisecond)

	got := collector.received()
	require.Equal(t, "Mon Jan  2 15:04:05 2006 [127.0.0.1:5000] hello\n", got[0])
	require.Equal(t, "second\n", got[1])

	require.NoError(t, udp.Stop(ctx))
}

func TestUDP_WriteAfterStop(t *testing.T) {
	collector := newTestUDPCollector(t)

	host, port, err := net.SplitHostPort(collector.addr())
	require.NoError(t, err)

	udp, err := NewUDP(zap.NewNop(), host, port, 1)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, udp.Stop(ctx))

	err = udp.Write(ctx, []byte("dropped\n"))
	require.ErrorContains(t, err, "UDP output is shutting down")
}

func TestUDP_StopTwice(t *testing.T) {
	udp, err := NewUDP(zap.NewNop(), "127.0.0.1", "9", 2)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, udp.Stop(ctx))
	require.NoError(t, udp.Stop(ctx))
	require.Eventually(t, func() bool {
		return udp.workerManager.GetActiveWorkerCount() == 0
	}, time.Second, 10*time.Millisecond)
}

// testUDPCollector records every datagram it receives.
type testUDPCollector struct {
	conn net.PacketConn
	mu   sync.Mutex
	data []string
}

func newTestUDPCollector(t *testing.T) *testUDPCollector {
	t.Helper()

	conn, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)

	c := &testUDPCollector{conn: conn}
	t.Cleanup(func() { _ = conn.Close() })

	go func() {
		buffer := make([]byte, 2048)
		for {
			n, _, err := conn.ReadFrom(buffer)
			if err != nil {
				return
			}
			c.mu.Lock()
			c.data = append(c.data, string(buffer[:n]))
			c.mu.Unlock()
		}
	}()

	return c
}

func (c *testUDPCollector) addr() string {
	return c.conn.LocalAddr().String()
}

func (c *testUDPCollector) received() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.data...)
}
