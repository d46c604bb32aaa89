package client

import (
	"context"
	"time"

	"vittlify/internal/domain/errors/domain"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric names following OpenTelemetry semantic conventions.
const (
	RequestCounterName           = "vt_requests_total"
	RequestDurationHistogramName = "vt_request_duration_seconds"
)

// Attribute keys attached to every request measurement.
const (
	AttrEndpoint = "endpoint" // all lists, list items, complete, ...
	AttrMethod   = "method"   // GET, PUT, POST
	AttrOutcome  = "outcome"  // success, domain_error, http_error, transport_error, configuration_error
)

// Outcome values.
const (
	OutcomeSuccess            = "success"
	OutcomeDomainError        = "domain_error"
	OutcomeHTTPError          = "http_error"
	OutcomeTransportError     = "transport_error"
	OutcomeConfigurationError = "configuration_error"
	OutcomeInternalError      = "internal_error"
)

// RequestMetrics records one counter increment and one duration sample per request.
type RequestMetrics struct {
	requests metric.Int64Counter
	duration metric.Float64Histogram
}

// NewRequestMetrics registers the request instruments on the global meter provider.
func NewRequestMetrics() (*RequestMetrics, error) {
	return NewRequestMetricsWithProvider(otel.GetMeterProvider())
}

// NewRequestMetricsWithProvider registers the request instruments on provider.
func NewRequestMetricsWithProvider(provider metric.MeterProvider) (*RequestMetrics, error) {
	meter := provider.Meter("vittlify/client", metric.WithInstrumentationVersion("1.0.0"))

	// 5ms to the default 5s request timeout and a little beyond.
	latencyBuckets := []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0}

	requests, err := meter.Int64Counter(
		RequestCounterName,
		metric.WithDescription("Total number of signed requests sent to the backend"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram(
		RequestDurationHistogramName,
		metric.WithDescription("Duration of signed requests in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	)
	if err != nil {
		return nil, err
	}

	return &RequestMetrics{requests: requests, duration: duration}, nil
}

// Record records a finished request. A nil receiver records nothing.
func (m *RequestMetrics) Record(ctx context.Context, p Payload, elapsed time.Duration, err error) {
	if m == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String(AttrEndpoint, p.Endpoint()),
		attribute.String(AttrMethod, p.Method()),
		attribute.String(AttrOutcome, outcomeOf(err)),
	)
	m.requests.Add(ctx, 1, attrs)
	m.duration.Record(ctx, elapsed.Seconds(), attrs)
}

func outcomeOf(err error) string {
	if err == nil {
		return OutcomeSuccess
	}

	kind, ok := domain.KindOf(err)
	if !ok {
		return OutcomeInternalError
	}

	switch kind {
	case domain.KindDomain:
		return OutcomeDomainError
	case domain.KindHTTP:
		return OutcomeHTTPError
	case domain.KindTransport:
		return OutcomeTransportError
	case domain.KindConfiguration:
		return OutcomeConfigurationError
	case domain.KindArity:
	}
	return OutcomeInternalError
}
