// Package metrics provides a Prometheus exporter
// for serving metrics.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	"go.uber.org/zap"
)

const (
	serviceName = "udpwatch"

	// Path is the HTTP path metrics are served on
	Path = "/metrics"

	readHeaderTimeout = 5 * time.Second
)

// Prometheus is an OpenTelemetry Prometheus exporter served over HTTP.
type Prometheus struct {
	logger    *zap.Logger
	address   string
	resources *resource.Resource
	registry  *promclient.Registry
	provider  *sdkmetric.MeterProvider
	listener  net.Listener
	server    *http.Server
}

// NewPrometheus creates a new Prometheus provider listening on host:port.
func NewPrometheus(logger *zap.Logger, host string, port int) (*Prometheus, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	hostname, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("get hostname: %w", err)
	}

	r := []attribute.KeyValue{
		semconv.ServiceNameKey.String(serviceName),
		semconv.HostNameKey.String(hostname),
	}

	return &Prometheus{
		logger:    logger.Named("metrics"),
		address:   net.JoinHostPort(host, strconv.Itoa(port)),
		resources: resource.NewWithAttributes(semconv.SchemaURL, r...),
		registry:  promclient.NewRegistry(),
	}, nil
}

// Start installs the global meter provider and binds the HTTP listener.
// Serve must be called to answer requests.
func (p *Prometheus) Start(_ context.Context) error {
	exporter, err := prometheus.New(prometheus.WithRegisterer(p.registry))
	if err != nil {
		return fmt.Errorf("create prometheus exporter: %w", err)
	}

	p.provider = sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
		sdkmetric.WithResource(p.resources),
	)
	otel.SetMeterProvider(p.provider)

	listener, err := net.Listen("tcp", p.address)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", p.address, err)
	}
	p.listener = listener

	mux := http.NewServeMux()
	mux.Handle(Path, promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{}))
	p.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	p.logger.Info("Metrics endpoint listening", zap.String("address", listener.Addr().String()), zap.String("path", Path))
	return nil
}

// Addr returns the bound listener address, or nil before Start.
func (p *Prometheus) Addr() net.Addr {
	if p.listener == nil {
		return nil
	}
	return p.listener.Addr()
}

// Serve answers metric scrapes until Shutdown is called.
func (p *Prometheus) Serve() error {
	if p.server == nil {
		return errors.New("metrics server not started")
	}
	if err := p.server.Serve(p.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve metrics: %w", err)
	}
	return nil
}

// Shutdown stops the HTTP server and the Prometheus exporter
func (p *Prometheus) Shutdown(ctx context.Context) error {
	var errs []error
	if p.server != nil {
		if err := p.server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown metrics server: %w", err))
		}
	}
	if p.provider != nil {
		if err := p.provider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown meter provider: %w", err))
		}
	}
	return errors.Join(errs...)
}
