package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/joao-fontenele/menuflow/internal/domain"
)

// OrderMetrics records order submission outcomes.
type OrderMetrics struct {
	placed metric.Int64Counter
	failed metric.Int64Counter
	total  metric.Float64Histogram
	lines  metric.Int64Counter
}

func NewOrderMetrics(meter metric.Meter) (*OrderMetrics, error) {
	placed, err := meter.Int64Counter("menuflow.orders.placed",
		metric.WithDescription("Orders persisted successfully"))
	if err != nil {
		return nil, err
	}

	failed, err := meter.Int64Counter("menuflow.orders.failed",
		metric.WithDescription("Order submissions that failed to persist"))
	if err != nil {
		return nil, err
	}

	total, err := meter.Float64Histogram("menuflow.order.total",
		metric.WithDescription("Order totals"),
		metric.WithUnit("{currency}"),
		metric.WithExplicitBucketBoundaries(10, 25, 50, 75, 100, 150, 250, 500))
	if err != nil {
		return nil, err
	}

	lines, err := meter.Int64Counter("menuflow.order.lines",
		metric.WithDescription("Ordered lines by kind"))
	if err != nil {
		return nil, err
	}

	return &OrderMetrics{placed: placed, failed: failed, total: total, lines: lines}, nil
}

func (m *OrderMetrics) RecordOrderPlaced(ctx context.Context, order domain.Order) {
	method := metric.WithAttributes(attribute.String("delivery_method", string(order.DeliveryMethod)))

	m.placed.Add(ctx, 1, method)
	m.total.Record(ctx, order.Total.InexactFloat64(), method)

	for _, line := range order.Items {
		m.lines.Add(ctx, int64(line.Quantity), metric.WithAttributes(attribute.String("kind", string(line.Kind))))
	}
}

func (m *OrderMetrics) RecordSubmissionFailed(ctx context.Context) {
	m.failed.Add(ctx, 1)
}
