package telemetry

import (
	"bytes"
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/joao-fontenele/menuflow/internal/domain"
)

func TestWithSearchPath(t *testing.T) {
	t.Run("url form", func(t *testing.T) {
		dsn, err := WithSearchPath("postgres://app:secret@db:5432/menuflow?sslmode=disable", "menuflow")
		require.NoError(t, err)
		assert.Equal(t, "postgres://app:secret@db:5432/menuflow?search_path=menuflow&sslmode=disable", dsn)
	})

	t.Run("key value form", func(t *testing.T) {
		dsn, err := WithSearchPath("host=db dbname=menuflow", "menuflow")
		require.NoError(t, err)
		assert.Equal(t, "host=db dbname=menuflow search_path=menuflow", dsn)
	})
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "warn")

	logger.Info("hidden")
	logger.Warn("shown", "order_id", "o-1")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"order_id":"o-1"`)
}

func TestOrderMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	metrics, err := NewOrderMetrics(provider.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	metrics.RecordOrderPlaced(ctx, domain.Order{
		DeliveryMethod: domain.DeliveryMethodDelivery,
		Total:          decimal.RequireFromString("62.00"),
		Items: []domain.CartLine{
			{Kind: domain.LineKindRegular, Quantity: 2},
			{Kind: domain.LineKindPackage, Quantity: 1},
		},
	})
	metrics.RecordSubmissionFailed(ctx)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	require.Len(t, rm.ScopeMetrics, 1)

	sums := map[string]int64{}
	for _, m := range rm.ScopeMetrics[0].Metrics {
		if sum, ok := m.Data.(metricdata.Sum[int64]); ok {
			for _, dp := range sum.DataPoints {
				sums[m.Name] += dp.Value
			}
		}
	}

	assert.Equal(t, int64(1), sums["menuflow.orders.placed"])
	assert.Equal(t, int64(1), sums["menuflow.orders.failed"])
	assert.Equal(t, int64(3), sums["menuflow.order.lines"])
}
