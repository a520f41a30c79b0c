// Package telemetry sets up OpenTelemetry metrics for llamacloud-mcp and exposes them in the prometheus format.
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

// Config holds the telemetry settings.
type Config struct {
	ServiceName string
	Enabled     bool
}

// Providers holds the initialized OpenTelemetry providers.
// When telemetry is disabled, Meter is a no-op meter and Shutdown does nothing.
type Providers struct {
	Meter metric.Meter

	serviceName   string
	enabled       bool
	meterProvider *sdkmetric.MeterProvider
}

// Init initializes the OpenTelemetry meter provider.
// Metrics are exported through the prometheus default registry so that they can be
// served by promhttp.Handler().
func Init(ctx context.Context, c *Config) (*Providers, error) {
	if !c.Enabled {
		return &Providers{
			Meter:       noop.NewMeterProvider().Meter(c.ServiceName),
			serviceName: c.ServiceName,
		}, nil
	}

	exporter, err := prometheus.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(attribute.String("service.name", c.ServiceName)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create otel resource: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
		sdkmetric.WithResource(res),
	)

	return &Providers{
		Meter:         mp.Meter(c.ServiceName),
		serviceName:   c.ServiceName,
		enabled:       true,
		meterProvider: mp,
	}, nil
}

// IsEnabled returns true if telemetry was enabled when the providers were initialized.
func (p *Providers) IsEnabled() bool {
	return p != nil && p.enabled
}

// ServiceName returns the service name reported with all metrics.
func (p *Providers) ServiceName() string {
	return p.serviceName
}

// Shutdown flushes and stops the meter provider.
func (p *Providers) Shutdown(ctx context.Context) error {
	if p == nil || p.meterProvider == nil {
		return nil
	}
	return p.meterProvider.Shutdown(ctx)
}
