// Package approval provides the review workflow shared by tariff plans,
// consumption records and standalone approval requests.
package approval

import (
	"context"
	"time"

	"github.com/AcmeAI-Git/water-tariff-backend/internal/application/event"
	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/approval"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Loader loads a reviewable aggregate by ID
type Loader[T approval.Reviewable] func(ctx context.Context, id uuid.UUID) (T, error)

// ReviewMetrics records review outcomes
type ReviewMetrics interface {
	RecordReview(ctx context.Context, aggregateType string, decision approval.State)
}

// ReviewCommand is a reviewer's decision on a pending entity
type ReviewCommand struct {
	Decision   string
	ReviewerID uuid.UUID
	Comments   string
}

// Workflow reviews aggregates of type T. The in-memory transition is
// validated first, then persisted with an atomic conditional update so that
// only one of several concurrent reviewers can succeed.
type Workflow[T approval.Reviewable] struct {
	load       Loader[T]
	store      approval.TransitionStore
	dispatcher *event.Dispatcher
	metrics    ReviewMetrics
	logger     *zap.Logger
	clock      func() time.Time
}

// NewWorkflow creates a review workflow
func NewWorkflow[T approval.Reviewable](load Loader[T], store approval.TransitionStore, logger *zap.Logger) *Workflow[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Workflow[T]{
		load:   load,
		store:  store,
		logger: logger,
		clock:  func() time.Time { return time.Now().UTC() },
	}
}

// SetDispatcher sets the dispatcher for review events
func (w *Workflow[T]) SetDispatcher(dispatcher *event.Dispatcher) {
	w.dispatcher = dispatcher
}

// SetMetrics sets the review metrics recorder
func (w *Workflow[T]) SetMetrics(metrics ReviewMetrics) {
	w.metrics = metrics
}

// SetClock overrides the review timestamp source
func (w *Workflow[T]) SetClock(clock func() time.Time) {
	w.clock = clock
}

// Review applies cmd to the entity with the given ID
func (w *Workflow[T]) Review(ctx context.Context, id uuid.UUID, cmd ReviewCommand) (T, error) {
	var zero T

	decision, err := approval.ParseDecision(cmd.Decision)
	if err != nil {
		return zero, err
	}

	entity, err := w.load(ctx, id)
	if err != nil {
		return zero, err
	}

	if err := approval.Review(entity, decision, cmd.ReviewerID, cmd.Comments, w.clock()); err != nil {
		return zero, err
	}

	if err := w.store.TransitionFromPending(ctx, id, entity.GetVersion(), *entity.ApprovalRecord()); err != nil {
		w.logger.Info("Review transition refused by store",
			zap.String("aggregate_type", entity.AggregateTypeName()),
			zap.String("id", id.String()),
			zap.Error(err))
		return zero, err
	}

	w.logger.Info("Entity reviewed",
		zap.String("aggregate_type", entity.AggregateTypeName()),
		zap.String("id", id.String()),
		zap.String("decision", decision.String()),
		zap.String("reviewer_id", cmd.ReviewerID.String()))

	if w.metrics != nil {
		w.metrics.RecordReview(ctx, entity.AggregateTypeName(), decision)
	}
	w.dispatcher.Dispatch(ctx, entity)

	return entity, nil
}
