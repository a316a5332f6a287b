// Package observability provides OpenTelemetry instrumentation for tracing and metrics.
package observability

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// MeterName is the instrumentation scope of the API's own instruments.
const MeterName = "dtapi"

// InitMetrics initializes the OpenTelemetry metrics provider with a Prometheus exporter.
// It returns the HTTP handler for the /metrics endpoint and a shutdown function.
// The shutdown function should be called on application exit for graceful cleanup.
func InitMetrics() (http.Handler, func(context.Context) error, error) {
	registry := promclient.NewRegistry()

	exporter, err := prometheus.New(prometheus.WithRegisterer(registry))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
	)

	otel.SetMeterProvider(provider)

	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{}), provider.Shutdown, nil
}

// BookingMetrics counts booking API requests by operation and response status.
type BookingMetrics struct {
	requests metric.Int64Counter
}

// NewBookingMetrics creates the booking instruments on meter.
func NewBookingMetrics(meter metric.Meter) (*BookingMetrics, error) {
	requests, err := meter.Int64Counter("dtapi.booking.requests",
		metric.WithDescription("Booking API requests by operation and status"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create request counter: %w", err)
	}
	return &BookingMetrics{requests: requests}, nil
}

// RecordRequest counts one request. A nil receiver records nothing.
func (m *BookingMetrics) RecordRequest(ctx context.Context, operation string, status int) {
	if m == nil {
		return
	}
	m.requests.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("status", strconv.Itoa(status)),
	))
}

// RegisterOutboxDepth registers an observable gauge reporting the number of
// undelivered emails returned by count.
func RegisterOutboxDepth(meter metric.Meter, count func(context.Context) (int64, error)) error {
	_, err := meter.Int64ObservableGauge("dtapi.outbox.depth",
		metric.WithDescription("Emails waiting in the outbox"),
		metric.WithInt64Callback(func(ctx context.Context, o metric.Int64Observer) error {
			n, err := count(ctx)
			if err != nil {
				return err
			}
			o.Observe(n)
			return nil
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to create outbox gauge: %w", err)
	}
	return nil
}
