// Package event dispatches the domain events raised by aggregates once the
// write that produced them has been persisted.
package event

import (
	"context"

	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Dispatcher publishes pending aggregate events. Publishing is fire-and-forget:
// a failing publisher is logged and never fails the calling operation.
type Dispatcher struct {
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewDispatcher creates a Dispatcher. A nil publisher makes Dispatch a no-op
// that only clears the events.
func NewDispatcher(publisher shared.EventPublisher, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		publisher: publisher,
		logger:    logger,
	}
}

// Dispatch publishes and clears the pending events of each aggregate
func (d *Dispatcher) Dispatch(ctx context.Context, aggregates ...shared.AggregateRoot) {
	if d == nil {
		return
	}
	for _, agg := range aggregates {
		events := agg.GetDomainEvents()
		agg.ClearDomainEvents()
		if d.publisher == nil || len(events) == 0 {
			continue
		}
		if err := d.publisher.Publish(ctx, events...); err != nil {
			d.logger.Warn("Failed to publish domain events",
				zap.String("aggregate_id", agg.GetID().String()),
				zap.Int("event_count", len(events)),
				zap.Error(err))
		}
	}
}
