package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/ghuser/exportdesk/orders"

// OrderMetrics holds the counters recorded by the order service. A nil
// *OrderMetrics records nothing.
type OrderMetrics struct {
	editsRejected  metric.Int64Counter
	savesBlocked   metric.Int64Counter
	stockShortfall metric.Int64Counter
	submissions    metric.Int64Counter
}

func newOrderMetrics(m metric.Meter) (*OrderMetrics, error) {
	editsRejected, err := m.Int64Counter("allocation_edits_rejected_total",
		metric.WithDescription("Interactive allocation edits rejected by the capacity gate or duplicate guard"))
	if err != nil {
		return nil, err
	}
	savesBlocked, err := m.Int64Counter("allocation_saves_blocked_total",
		metric.WithDescription("Allocation saves blocked by over-allocation"))
	if err != nil {
		return nil, err
	}
	stockShortfall, err := m.Int64Counter("stock_shortfalls_total",
		metric.WithDescription("Order lines short of stock, by severity"))
	if err != nil {
		return nil, err
	}
	submissions, err := m.Int64Counter("orders_submitted_total",
		metric.WithDescription("Submission attempts, by outcome"))
	if err != nil {
		return nil, err
	}
	return &OrderMetrics{
		editsRejected:  editsRejected,
		savesBlocked:   savesBlocked,
		stockShortfall: stockShortfall,
		submissions:    submissions,
	}, nil
}

// EditRejected counts one rejected allocation edit. reason is a short code
// such as "quantity_exceeds_available".
func (m *OrderMetrics) EditRejected(ctx context.Context, reason string) {
	if m == nil {
		return
	}
	m.editsRejected.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}

// SaveBlocked counts one blocked save with the number of violating keys.
func (m *OrderMetrics) SaveBlocked(ctx context.Context, violations int) {
	if m == nil {
		return
	}
	m.savesBlocked.Add(ctx, 1, metric.WithAttributes(attribute.Int("violations", violations)))
}

// StockShortfall counts one short line.
func (m *OrderMetrics) StockShortfall(ctx context.Context, severity string) {
	if m == nil {
		return
	}
	m.stockShortfall.Add(ctx, 1, metric.WithAttributes(attribute.String("severity", severity)))
}

// Submitted counts one submission step by its resulting status.
func (m *OrderMetrics) Submitted(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.submissions.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}
