// Package reporter listens on a UDP endpoint and writes one report line per
// received datagram.
package reporter

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

var errAlreadyRunning = errors.New("reporter has already been run")

// Writer consumes rendered report lines.
type Writer interface {
	// Write writes a single newline terminated report line.
	Write(ctx context.Context, data []byte) error
}

// Reporter owns a single UDP socket and reports every datagram it receives.
type Reporter struct {
	logger    *zap.Logger
	endpoint  Endpoint
	decoder   *Decoder
	formatter *Formatter
	writer    Writer
	now       func() time.Time

	started atomic.Bool
	ready   chan struct{}

	mu   sync.RWMutex
	conn *net.UDPConn

	// Metrics
	datagramsReceived  metric.Int64Counter
	datagramBytes      metric.Int64Counter
	datagramsTruncated metric.Int64Counter
	decodeFallbacks    metric.Int64Counter
	receiveErrors      metric.Int64Counter
	writeErrors        metric.Int64Counter
	attrs              metric.MeasurementOption
}

// New creates a Reporter for endpoint. A nil decoder or formatter selects the
// UTF-8 text decoder and the ctime text format.
func New(logger *zap.Logger, endpoint Endpoint, decoder *Decoder, formatter *Formatter, writer Writer) (*Reporter, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if writer == nil {
		return nil, fmt.Errorf("writer cannot be nil")
	}

	var err error
	if decoder == nil {
		if decoder, err = NewDecoder(DecoderModeText, DefaultCharset); err != nil {
			return nil, fmt.Errorf("create default decoder: %w", err)
		}
	}
	if formatter == nil {
		if formatter, err = NewFormatter(FormatText, DefaultTimeLayout); err != nil {
			return nil, fmt.Errorf("create default formatter: %w", err)
		}
	}

	r := &Reporter{
		logger:    logger.Named("reporter"),
		endpoint:  endpoint,
		decoder:   decoder,
		formatter: formatter,
		writer:    writer,
		now:       time.Now,
		ready:     make(chan struct{}),
		attrs: metric.WithAttributeSet(
			attribute.NewSet(attribute.String("component", "reporter")),
		),
	}

	if err := r.initMetrics(); err != nil {
		return nil, err
	}

	return r, nil
}

func (r *Reporter) initMetrics() error {
	meter := otel.Meter("udpwatch-reporter")

	var err error
	r.datagramsReceived, err = meter.Int64Counter(
		"udpwatch.datagrams.received",
		metric.WithDescription("Total number of datagrams received"),
	)
	if err != nil {
		return fmt.Errorf("create datagrams received counter: %w", err)
	}

	r.datagramBytes, err = meter.Int64Counter(
		"udpwatch.datagrams.bytes",
		metric.WithDescription("Total number of payload bytes received"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return fmt.Errorf("create datagram bytes counter: %w", err)
	}

	r.datagramsTruncated, err = meter.Int64Counter(
		"udpwatch.datagrams.truncated",
		metric.WithDescription("Total number of datagrams truncated to the receive buffer size"),
	)
	if err != nil {
		return fmt.Errorf("create datagrams truncated counter: %w", err)
	}

	r.decodeFallbacks, err = meter.Int64Counter(
		"udpwatch.decode.fallbacks",
		metric.WithDescription("Total number of payloads rendered with a fallback decoding"),
	)
	if err != nil {
		return fmt.Errorf("create decode fallbacks counter: %w", err)
	}

	r.receiveErrors, err = meter.Int64Counter(
		"udpwatch.receive.errors",
		metric.WithDescription("Total number of transient receive errors"),
	)
	if err != nil {
		return fmt.Errorf("create receive errors counter: %w", err)
	}

	r.writeErrors, err = meter.Int64Counter(
		"udpwatch.output.errors",
		metric.WithDescription("Total number of report lines that could not be written"),
	)
	if err != nil {
		return fmt.Errorf("create output errors counter: %w", err)
	}

	return nil
}

// Ready is closed once the socket is bound.
func (r *Reporter) Ready() <-chan struct{} {
	return r.ready
}

// LocalAddr returns the bound address, or nil before the socket is bound.
func (r *Reporter) LocalAddr() net.Addr {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.conn == nil {
		return nil
	}
	return r.conn.LocalAddr()
}

// Run binds the socket and reports datagrams until ctx is cancelled or the
// socket fails. It returns a *BindError when the endpoint cannot be bound,
// a *SocketError when the socket fails, and nil after cancellation. An
// already cancelled ctx returns nil without binding.
// Run may only be called once.
func (r *Reporter) Run(ctx context.Context) error {
	if !r.started.CompareAndSwap(false, true) {
		return errAlreadyRunning
	}
	if ctx.Err() != nil {
		return nil
	}

	conn, err := Listen(ctx, r.endpoint)
	if err != nil {
		return err
	}
	defer conn.Close()

	r.mu.Lock()
	r.conn = conn
	r.mu.Unlock()
	close(r.ready)

	// Closing the socket is the only way to interrupt a blocked read.
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	r.logger.Info("Listening for datagrams",
		zap.String("endpoint", r.endpoint.String()),
		zap.Stringer("local_addr", conn.LocalAddr()),
		zap.String("decoder", string(r.decoder.Mode())),
		zap.Int("buffer_size", MaxDatagramSize),
	)

	buf := make([]byte, MaxDatagramSize)
	for {
		n, _, flags, addr, err := conn.ReadMsgUDPAddrPort(buf, nil)
		truncated := flags&msgTrunc != 0
		if err != nil {
			if ctx.Err() != nil {
				r.logger.Info("Reporter stopping - context cancelled")
				return nil
			}
			switch {
			case isTruncation(err) && addr.IsValid():
				truncated = true
				n = len(buf)
			case isTransient(err):
				r.receiveErrors.Add(ctx, 1, r.attrs)
				r.logger.Warn("Transient receive error, continuing", zap.Error(err))
				continue
			default:
				return &SocketError{Op: "read", Err: err}
			}
		}

		r.report(ctx, Event{
			Time:      r.now(),
			IP:        addr.Addr().Unmap(),
			Port:      addr.Port(),
			Payload:   buf[:n],
			Truncated: truncated,
		})
	}
}

// report decodes, formats and writes a single event. Failures here never
// stop the receive loop.
func (r *Reporter) report(ctx context.Context, ev Event) {
	r.datagramsReceived.Add(ctx, 1, r.attrs)
	r.datagramBytes.Add(ctx, int64(len(ev.Payload)), r.attrs)
	if ev.Truncated {
		r.datagramsTruncated.Add(ctx, 1, r.attrs)
		r.logger.Debug("Datagram truncated",
			zap.String("source", ev.Source()),
			zap.Int("size", len(ev.Payload)))
	}

	text, warning := r.decoder.Decode(ev.Payload)
	if warning != nil {
		r.decodeFallbacks.Add(ctx, 1, r.attrs)
		r.logger.Debug("Payload decoded with fallback",
			zap.String("source", ev.Source()),
			zap.Error(warning))
	}

	line, err := r.formatter.Format(ev, text)
	if err != nil {
		r.writeErrors.Add(ctx, 1, r.attrs)
		r.logger.Error("Failed to format report", zap.String("source", ev.Source()), zap.Error(err))
		return
	}

	if err := r.writer.Write(ctx, line); err != nil {
		r.writeErrors.Add(ctx, 1, r.attrs)
		r.logger.Error("Failed to write report", zap.String("source", ev.Source()), zap.Error(err))
	}
}
