package output

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/observiq/udpwatch/internal/workermanager"
	"go.uber.org/zap"
)

const (
	// DefaultChannelSize is the default size of the line channel of the
	// forwarding outputs
	DefaultChannelSize = 100

	// DefaultWorkers is the default number of worker goroutines
	DefaultWorkers = 1

	// DefaultUDPWriteTimeout is the default timeout for writing data to UDP connections
	DefaultUDPWriteTimeout = 5 * time.Second
)

// UDP forwards each report line as a datagram to a remote collector
type UDP struct {
	logger        *zap.Logger
	host          string
	port          string
	workers       int
	dataChan      chan []byte
	ctx           context.Context
	cancel        context.CancelFunc
	stopOnce      sync.Once
	workerManager *workermanager.WorkerManager
}

// NewUDP creates a new UDP output instance and starts its workers
func NewUDP(logger *zap.Logger, host, port string, workers int) (*UDP, error) {
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

	udp := &UDP{
		logger:   logger.Named("output-udp"),
		host:     host,
		port:     port,
		workers:  workers,
		dataChan: make(chan []byte, DefaultChannelSize),
		ctx:      ctx,
		cancel:   cancel,
	}

	udp.logger.Info("Starting UDP output",
		zap.String("host", udp.host),
		zap.String("port", udp.port),
		zap.Int("workers", udp.workers),
		zap.Int("channel_size", DefaultChannelSize),
	)

	udp.workerManager = workermanager.NewWorkerManager(udp.logger, workers, udp.udpWorker)
	udp.workerManager.Start()

	return udp, nil
}

// Write queues a copy of data for the workers.
// If the provided context is done, Write will return immediately
// even if the data is not queued.
func (u *UDP) Write(ctx context.Context, data []byte) error {
	select {
	case <-u.ctx.Done():
		return fmt.Errorf("UDP output is shutting down")
	default:
	}

	line := make([]byte, len(data))
	copy(line, data)

	select {
	case u.dataChan <- line:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("context cancelled while waiting to write data: %w", ctx.Err())
	case <-u.ctx.Done():
		return fmt.Errorf("UDP output is shutting down")
	}
}

// Stop shuts down all workers and closes UDP connections. Lines still
// queued are dropped. Stop is safe to call more than once.
func (u *UDP) Stop(ctx context.Context) error {
	var err error
	u.stopOnce.Do(func() {
		u.logger.Info("Stopping UDP output")
		u.cancel()
		err = stopWorkers(ctx, u.workerManager)
		if dropped := len(u.dataChan); dropped > 0 {
			u.logger.Warn("Dropped queued lines on shutdown", zap.Int("lines", dropped))
		}
		u.logger.Info("UDP output stopped")
	})
	return err
}

// udpWorker sends queued lines to the configured host and port. The worker
// returns on any failure and the worker manager restarts it with backoff.
func (u *UDP) udpWorker(id int) {
	u.logger.Debug("Starting UDP worker", zap.Int("worker_id", id))

	conn, err := u.connect()
	if err != nil {
		u.logger.Error("Failed to establish UDP connection",
			zap.Int("worker_id", id),
			zap.Error(err))
		return
	}
	defer conn.Close()

	for {
		select {
		case data := <-u.dataChan:
			if err := sendData(conn, data, DefaultUDPWriteTimeout); err != nil {
				u.logger.Error("Failed to send UDP data",
					zap.Int("worker_id", id),
					zap.Error(err))
				return
			}

		case <-u.ctx.Done():
			u.logger.Debug("UDP worker exiting - context cancelled", zap.Int("worker_id", id))
			return
		}
	}
}

// connect establishes a UDP connection to the configured host and port
func (u *UDP) connect() (net.Conn, error) {
	address := net.JoinHostPort(u.host, u.port)

	conn, err := net.Dial("udp", address)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", address, err)
	}

	return conn, nil
}

// sendData writes data to conn with a timeout
func sendData(conn net.Conn, data []byte, timeout time.Duration) error {
	if err := conn.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}

	if _, err := conn.Write(data); err != nil {
		return fmt.Errorf("failed to write data: %w", err)
	}

	return nil
}

// stopWorkers waits for the worker manager to stop or ctx to be done.
func stopWorkers(ctx context.Context, wm *workermanager.WorkerManager) error {
	done := make(chan struct{})
	go func() {
		wm.Stop()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("stop cancelled due to context cancellation: %w", ctx.Err())
	}
}
