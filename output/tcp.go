package output

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/observiq/udpwatch/internal/workermanager"
	"go.uber.org/zap"
)

const (
	// DefaultTCPConnectTimeout is the default timeout for establishing TCP connections
	DefaultTCPConnectTimeout = 10 * time.Second

	// DefaultTCPWriteTimeout is the default timeout for writing data to TCP connections
	DefaultTCPWriteTimeout = 5 * time.Second
)

// TCP forwards report lines over a TCP stream, optionally using TLS
type TCP struct {
	logger        *zap.Logger
	host          string
	port          string
	workers       int
	tlsConfig     *tls.Config
	dataChan      chan []byte
	ctx           context.Context
	cancel        context.CancelFunc
	stopOnce      sync.Once
	workerManager *workermanager.WorkerManager
}

// NewTCP creates a new TCP output instance and starts its workers.
// A nil tlsConfig selects plain TCP.
func NewTCP(logger *zap.Logger, host, port string, workers int, tlsConfig *tls.Config) (*TCP, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if host == "" {
		return nil, fmt.Errorf("host cannot be empty")
	}
	if port == "" {
		return nil, fmt.Errorf("port cannot be empty")
	}
	if workers <= 0 {
		workers = DefaultWorkers
	}

	ctx, cancel := context.WithCancel(context.Background())

	tcp := &TCP{
		logger:    logger.Named("output-tcp"),
		host:      host,
		port:      port,
		workers:   workers,
		tlsConfig: tlsConfig,
		dataChan:  make(chan []byte, DefaultChannelSize),
		ctx:       ctx,
		cancel:    cancel,
	}

	tcp.logger.Info("Starting TCP output",
		zap.String("host", tcp.host),
		zap.String("port", tcp.port),
		zap.Int("workers", tcp.workers),
		zap.Bool("tls", tcp.tlsConfig != nil),
		zap.Int("channel_size", DefaultChannelSize),
	)

	tcp.workerManager = workermanager.NewWorkerManager(tcp.logger, workers, tcp.tcpWorker)
	tcp.workerManager.Start()

	return tcp, nil
}

// Write queues a copy of data for the workers.
// If the provided context is done, Write will return immediately
// even if the data is not queued.
func (t *TCP) Write(ctx context.Context, data []byte) error {
	select {
	case <-t.ctx.Done():
		return fmt.Errorf("TCP output is shutting down")
	default:
	}

	line := make([]byte, len(data))
	copy(line, data)

	select {
	case t.dataChan <- line:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("context cancelled while waiting to write data: %w", ctx.Err())
	case <-t.ctx.Done():
		return fmt.Errorf("TCP output is shutting down")
	}
}

// Stop shuts down all workers and closes TCP connections. Lines still
// queued are dropped. Stop is safe to call more than once.
func (t *TCP) Stop(ctx context.Context) error {
	var err error
	t.stopOnce.Do(func() {
		t.logger.Info("Stopping TCP output")
		t.cancel()
		err = stopWorkers(ctx, t.workerManager)
		if dropped := len(t.dataChan); dropped > 0 {
			t.logger.Warn("Dropped queued lines on shutdown", zap.Int("lines", dropped))
		}
		t.logger.Info("TCP output stopped")
	})
	return err
}

// tcpWorker streams queued lines to the configured host and port. The worker
// returns on any failure and the worker manager reconnects with backoff.
func (t *TCP) tcpWorker(id int) {
	t.logger.Debug("Starting TCP worker", zap.Int("worker_id", id))

	conn, err := t.connect()
	if err != nil {
		t.logger.Error("Failed to establish TCP connection",
			zap.Int("worker_id", id),
			zap.Error(err))
		return
	}
	defer conn.Close()

	for {
		select {
		case data := <-t.dataChan:
			if err := sendData(conn, data, DefaultTCPWriteTimeout); err != nil {
				t.logger.Error("Failed to send TCP data",
					zap.Int("worker_id", id),
					zap.Error(err))
				return
			}

		case <-t.ctx.Done():
			t.logger.Debug("TCP worker exiting - context cancelled", zap.Int("worker_id", id))
			return
		}
	}
}

// connect establishes a TCP or TLS connection to the configured host and port
func (t *TCP) connect() (net.Conn, error) {
	address := net.JoinHostPort(t.host, t.port)
	dialer := &net.Dialer{Timeout: DefaultTCPConnectTimeout}

	var (
		conn net.Conn
		err  error
	)
	if t.tlsConfig != nil {
		tlsDialer := &tls.Dialer{NetDialer: dialer, Config: t.tlsConfig}
		conn, err = tlsDialer.DialContext(t.ctx, "tcp", address)
	} else {
		conn, err = dialer.DialContext(t.ctx, "tcp", address)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", address, err)
	}

	return conn, nil
}
