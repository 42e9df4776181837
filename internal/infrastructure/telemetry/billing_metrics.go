package telemetry

import (
	"context"
	"errors"

	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/approval"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// Metric attribute keys
const (
	AttrAggregateType = attribute.Key("aggregate_type")
	AttrDecision      = attribute.Key("decision")
)

// BillingMetrics records business metrics for bills and reviews.
// It satisfies the metric hooks of the billing and approval services.
type BillingMetrics struct {
	billsIssued  metric.Int64Counter
	billsPaid    metric.Int64Counter
	amountBilled metric.Float64Counter
	amountPaid   metric.Float64Counter
	billAmount   metric.Float64Histogram
	reviews      metric.Int64Counter
	logger       *zap.Logger
}

// NewBillingMetrics registers the billing instruments on meter
func NewBillingMetrics(meter metric.Meter, logger *zap.Logger) (*BillingMetrics, error) {
	if meter == nil {
		return nil, errors.New("NewBillingMetrics: meter cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BillingMetrics{logger: logger}
	var err error

	if bm.billsIssued, err = meter.Int64Counter("billing.bills.issued",
		metric.WithDescription("Number of bills issued"),
		metric.WithUnit("{bill}"),
	); err != nil {
		return nil, err
	}
	if bm.billsPaid, err = meter.Int64Counter("billing.bills.paid",
		metric.WithDescription("Number of bills marked paid"),
		metric.WithUnit("{bill}"),
	); err != nil {
		return nil, err
	}
	if bm.amountBilled, err = meter.Float64Counter("billing.amount.billed",
		metric.WithDescription("Total amount billed"),
	); err != nil {
		return nil, err
	}
	if bm.amountPaid, err = meter.Float64Counter("billing.amount.paid",
		metric.WithDescription("Total amount collected"),
	); err != nil {
		return nil, err
	}
	if bm.billAmount, err = meter.Float64Histogram("billing.bill.amount",
		metric.WithDescription("Distribution of bill totals"),
		metric.WithExplicitBucketBoundaries(100, 500, 1000, 2500, 5000, 10000, 50000),
	); err != nil {
		return nil, err
	}
	if bm.reviews, err = meter.Int64Counter("approval.reviews",
		metric.WithDescription("Number of review decisions"),
		metric.WithUnit("{review}"),
	); err != nil {
		return nil, err
	}

	return bm, nil
}

// RecordBillIssued counts an issued bill and its total
func (bm *BillingMetrics) RecordBillIssued(ctx context.Context, amount decimal.Decimal) {
	value := amount.InexactFloat64()
	bm.billsIssued.Add(ctx, 1)
	bm.amountBilled.Add(ctx, value)
	bm.billAmount.Record(ctx, value)
}

// RecordBillPaid counts a paid bill and the amount collected
func (bm *BillingMetrics) RecordBillPaid(ctx context.Context, amount decimal.Decimal) {
	bm.billsPaid.Add(ctx, 1)
	bm.amountPaid.Add(ctx, amount.InexactFloat64())
}

// RecordReview counts a review decision per aggregate type
func (bm *BillingMetrics) RecordReview(ctx context.Context, aggregateType string, decision approval.State) {
	bm.reviews.Add(ctx, 1, metric.WithAttributes(
		AttrAggregateType.String(aggregateType),
		AttrDecision.String(decision.String()),
	))
}
