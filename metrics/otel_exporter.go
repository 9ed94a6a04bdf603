package metrics

import (
	"context"
	"fmt"
	"net/http"

	"github.com/marcelsud/webhook-relay/relay"
	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// OTelExporter provides OpenTelemetry metrics export following OTel standards.
// It also implements relay.Recorder.
type OTelExporter struct {
	meterProvider *sdkmetric.MeterProvider
	registry      *promclient.Registry
	collector     Collector

	// OTel meters and instruments
	meter             metric.Meter
	deliveries        metric.Int64Counter
	deliveryDuration  metric.Float64Histogram
	batches           metric.Int64Counter
	endpointsGauge    metric.Int64ObservableGauge
	staticRoutesGauge metric.Int64ObservableGauge
}

var _ relay.Recorder = (*OTelExporter)(nil)

// NewOTelExporter creates a new OpenTelemetry metrics exporter with Prometheus format
func NewOTelExporter(collector Collector) (*OTelExporter, error) {
	registry := promclient.NewRegistry()

	// Create Prometheus exporter
	exporter, err := prometheus.New(prometheus.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("creating prometheus exporter: %w", err)
	}

	// Create meter provider
	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
	)
	otel.SetMeterProvider(meterProvider)

	meter := meterProvider.Meter(
		"webhook-relay",
		metric.WithInstrumentationVersion("1.0.0"),
	)

	oe := &OTelExporter{
		meterProvider: meterProvider,
		registry:      registry,
		collector:     collector,
		meter:         meter,
	}

	if err := oe.registerInstruments(); err != nil {
		return nil, fmt.Errorf("registering instruments: %w", err)
	}

	return oe, nil
}

// registerInstruments creates and registers all OpenTelemetry metric instruments
func (oe *OTelExporter) registerInstruments() error {
	var err error

	oe.deliveries, err = oe.meter.Int64Counter(
		"relay.deliveries",
		metric.WithDescription("Number of delivery attempts per target and outcome"),
		metric.WithUnit("{deliveries}"),
	)
	if err != nil {
		return fmt.Errorf("creating deliveries counter: %w", err)
	}

	oe.deliveryDuration, err = oe.meter.Float64Histogram(
		"relay.delivery.duration",
		metric.WithDescription("Time from request start to classified outcome"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return fmt.Errorf("creating delivery duration histogram: %w", err)
	}

	oe.batches, err = oe.meter.Int64Counter(
		"relay.batches",
		metric.WithDescription("Number of inbound webhooks by dispatch status"),
		metric.WithUnit("{batches}"),
	)
	if err != nil {
		return fmt.Errorf("creating batches counter: %w", err)
	}

	oe.endpointsGauge, err = oe.meter.Int64ObservableGauge(
		"relay.endpoints",
		metric.WithDescription("Number of registered endpoints by state"),
		metric.WithUnit("{endpoints}"),
		metric.WithInt64Callback(oe.observeEndpoints),
	)
	if err != nil {
		return fmt.Errorf("creating endpoints gauge: %w", err)
	}

	oe.staticRoutesGauge, err = oe.meter.Int64ObservableGauge(
		"relay.static_routes",
		metric.WithDescription("Number of static routes"),
		metric.WithUnit("{routes}"),
		metric.WithInt64Callback(oe.observeStaticRoutes),
	)
	if err != nil {
		return fmt.Errorf("creating static routes gauge: %w", err)
	}

	return nil
}

// RecordDelivery counts one classified delivery
func (oe *OTelExporter) RecordDelivery(ctx context.Context, outcome relay.Outcome) {
	status := attribute.String("outcome", outcome.Status.String())
	oe.deliveries.Add(ctx, 1, metric.WithAttributes(
		attribute.String("target", outcome.Target.Name),
		status,
	))
	oe.deliveryDuration.Record(ctx, outcome.Duration.Seconds(), metric.WithAttributes(status))
}

// RecordBatch counts one inbound webhook
func (oe *OTelExporter) RecordBatch(ctx context.Context, status relay.BatchStatus, targets int) {
	oe.batches.Add(ctx, 1, metric.WithAttributes(
		attribute.String("status", status.String()),
	))
}

func (oe *OTelExporter) observeEndpoints(ctx context.Context, observer metric.Int64Observer) error {
	counts, err := oe.collector.GetEndpointCounts(ctx)
	if err != nil {
		return err
	}

	observer.Observe(counts.Active, metric.WithAttributes(attribute.String("state", "active")))
	observer.Observe(counts.Inactive, metric.WithAttributes(attribute.String("state", "inactive")))
	return nil
}

func (oe *OTelExporter) observeStaticRoutes(ctx context.Context, observer metric.Int64Observer) error {
	n, err := oe.collector.GetStaticRoutes(ctx)
	if err != nil {
		return err
	}

	observer.Observe(n)
	return nil
}

// ServeHTTP returns the handler serving Prometheus-formatted metrics
func (oe *OTelExporter) ServeHTTP() http.Handler {
	return promhttp.HandlerFor(oe.registry, promhttp.HandlerOpts{})
}

// Shutdown gracefully shuts down the meter provider
func (oe *OTelExporter) Shutdown(ctx context.Context) error {
	if oe.meterProvider != nil {
		return oe.meterProvider.Shutdown(ctx)
	}
	return nil
}
