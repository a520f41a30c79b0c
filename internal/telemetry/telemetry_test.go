package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestInitDisabled(t *testing.T) {
	p, err := Init(context.Background(), &Config{ServiceName: "llamacloud-mcp", Enabled: false})
	require.NoError(t, err)
	assert.False(t, p.IsEnabled())
	assert.NotNil(t, p.Meter)
	assert.Equal(t, "llamacloud-mcp", p.ServiceName())
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestInitEnabled(t *testing.T) {
	p, err := Init(context.Background(), &Config{ServiceName: "llamacloud-mcp", Enabled: true})
	require.NoError(t, err)
	assert.True(t, p.IsEnabled())

	m, err := NewOtelCustomMetrics(p.Meter)
	require.NoError(t, err)
	m.RecordToolCall(context.Background(), "index", "query_docs", ToolCallOutcomeSuccess, time.Second)

	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestNilProviders(t *testing.T) {
	var p *Providers
	assert.False(t, p.IsEnabled())
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestOtelCustomMetricsRecordToolCall(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = mp.Shutdown(context.Background()) }()

	m, err := NewOtelCustomMetrics(mp.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordToolCall(ctx, "index", "query_docs", ToolCallOutcomeSuccess, 200*time.Millisecond)
	m.RecordToolCall(ctx, "index", "query_docs", ToolCallOutcomeSuccess, 300*time.Millisecond)
	m.RecordToolCall(ctx, "extract_agent", "extract_invoices", ToolCallOutcomeError, time.Second)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	require.Len(t, rm.ScopeMetrics, 1)

	counts := map[string]int64{}
	var histogramSeen bool
	for _, md := range rm.ScopeMetrics[0].Metrics {
		switch data := md.Data.(type) {
		case metricdata.Sum[int64]:
			assert.Equal(t, "llamacloud_mcp_tool_calls", md.Name)
			for _, dp := range data.DataPoints {
				tool, _ := dp.Attributes.Value(attribute.Key("tool"))
				outcome, _ := dp.Attributes.Value(attribute.Key("outcome"))
				counts[tool.AsString()+"/"+outcome.AsString()] = dp.Value
			}
		case metricdata.Histogram[float64]:
			assert.Equal(t, "llamacloud_mcp_tool_call_duration", md.Name)
			histogramSeen = true
		}
	}

	assert.True(t, histogramSeen)
	assert.Equal(t, map[string]int64{
		"query_docs/success":     2,
		"extract_invoices/error": 1,
	}, counts)
}

func TestNoopCustomMetrics(t *testing.T) {
	m := NewNoopCustomMetrics()
	assert.NotPanics(t, func() {
		m.RecordToolCall(context.Background(), "index", "query_docs", ToolCallOutcomeError, time.Millisecond)
	})
}
