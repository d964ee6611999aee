// Package workermanager runs a fixed number of worker goroutines and restarts
// any worker that returns, waiting an exponential backoff between attempts.
//
// A worker function owns one connection for as long as it is healthy and
// simply returns on failure:
//
//	func (u *UDP) udpWorker(id int) {
//		conn, err := u.connect()
//		if err != nil {
//			return // restarted after a backoff delay
//		}
//		defer conn.Close()
//		for {
//			select {
//			case data := <-u.dataChan:
//				if err := sendData(conn, data, timeout); err != nil {
//					return
//				}
//			case <-u.ctx.Done():
//				return
//			}
//		}
//	}
//
// Workers that stay up for at least HealthyRunTime reset their backoff, so a
// connection that drops after hours of service reconnects quickly.
package workermanager

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

const (
	// HealthyRunTime is how long a worker must run before its backoff is reset.
	HealthyRunTime = 30 * time.Second

	initialInterval = 100 * time.Millisecond
	maxInterval     = 30 * time.Second
)

// WorkerManager manages worker goroutines with restart on failure
type WorkerManager struct {
	logger        *zap.Logger
	ctx           context.Context
	cancel        context.CancelFunc
	wg            sync.WaitGroup
	workerFunc    func(id int)
	workerCount   int
	activeWorkers atomic.Int32
	restarts      atomic.Int64
	newBackOff    func() backoff.BackOff
}

// NewWorkerManager creates a new worker manager. Restarts are retried for as
// long as the manager runs.
func NewWorkerManager(logger *zap.Logger, workerCount int, workerFunc func(id int)) *WorkerManager {
	ctx, cancel := context.WithCancel(context.Background())

	return &WorkerManager{
		logger:      logger,
		ctx:         ctx,
		cancel:      cancel,
		workerFunc:  workerFunc,
		workerCount: workerCount,
		newBackOff: func() backoff.BackOff {
			return backoff.NewExponentialBackOff(
				backoff.WithInitialInterval(initialInterval),
				backoff.WithMaxInterval(maxInterval),
				backoff.WithMultiplier(2),
				backoff.WithRandomizationFactor(0.1),
				backoff.WithMaxElapsedTime(0),
			)
		},
	}
}

// Start spawns the workers
func (wm *WorkerManager) Start() {
	wm.logger.Debug("Starting worker manager", zap.Int("target_workers", wm.workerCount))

	for i := 0; i < wm.workerCount; i++ {
		wm.activeWorkers.Add(1)
		wm.wg.Add(1)
		go wm.runWorker(i)
	}
}

// Stop stops the worker manager and waits for all workers to finish.
// Worker functions must watch their own shutdown signal; Stop only prevents restarts.
func (wm *WorkerManager) Stop() {
	wm.logger.Debug("Stopping worker manager")
	wm.cancel()
	wm.wg.Wait()
	wm.logger.Debug("Worker manager stopped", zap.Int64("restarts", wm.restarts.Load()))
}

// runWorker runs a worker until the manager stops, restarting it with backoff
func (wm *WorkerManager) runWorker(id int) {
	defer wm.wg.Done()
	defer wm.activeWorkers.Add(-1)

	policy := wm.newBackOff()

	for {
		started := time.Now()
		wm.workerFunc(id)

		if wm.ctx.Err() != nil {
			wm.logger.Debug("Worker exiting - manager stopped", zap.Int("worker_id", id))
			return
		}

		if time.Since(started) >= HealthyRunTime {
			policy.Reset()
		}

		delay := policy.NextBackOff()
		if delay == backoff.Stop {
			wm.logger.Error("Worker failed permanently - retry budget exhausted", zap.Int("worker_id", id))
			return
		}

		wm.restarts.Add(1)
		wm.logger.Warn("Worker failed, retrying with backoff",
			zap.Int("worker_id", id),
			zap.Duration("delay", delay))

		timer := time.NewTimer(delay)
		select {
		case <-wm.ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// GetActiveWorkerCount returns the current number of active workers
func (wm *WorkerManager) GetActiveWorkerCount() int {
	return int(wm.activeWorkers.Load())
}

// Restarts returns how many times workers have been restarted
func (wm *WorkerManager) Restarts() int64 {
	return wm.restarts.Load()
}
