package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestEvent(eventType string) shared.DomainEvent {
	return shared.NewChangeEvent(eventType, "TariffPlan", uuid.New(), uuid.New(), "test", nil, map[string]string{"name": "Residential"})
}

// testHandler implements EventHandler for testing
type testHandler struct {
	eventTypes []string
	handled    []shared.DomainEvent
	err        error
	block      chan struct{}
	sawCtx     []context.Context
	mu         sync.Mutex
}

func newTestHandler(eventTypes ...string) *testHandler {
	return &testHandler{eventTypes: eventTypes}
}

func (h *testHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	if h.block != nil {
		<-h.block
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = append(h.handled, event)
	h.sawCtx = append(h.sawCtx, ctx)
	return h.err
}

func (h *testHandler) EventTypes() []string {
	return h.eventTypes
}

func (h *testHandler) getHandled() []shared.DomainEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]shared.DomainEvent(nil), h.handled...)
}

type panicHandler struct{}

func (panicHandler) Handle(context.Context, shared.DomainEvent) error {
	panic("boom")
}

func (panicHandler) EventTypes() []string {
	return nil
}

func TestInMemoryEventBus_SyncPublish(t *testing.T) {
	t.Run("delivers to typed and wildcard handlers", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		typed := newTestHandler("BillIssued")
		wildcard := newTestHandler()
		other := newTestHandler("BillPaid")
		bus.Subscribe(typed)
		bus.Subscribe(wildcard)
		bus.Subscribe(other)

		require.NoError(t, bus.Publish(context.Background(), newTestEvent("BillIssued"), newTestEvent("BillIssued")))

		assert.Len(t, typed.getHandled(), 2)
		assert.Len(t, wildcard.getHandled(), 2)
		assert.Empty(t, other.getHandled())
	})

	t.Run("handler error does not stop other handlers", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		failing := newTestHandler("BillIssued")
		failing.err = errors.New("handler error")
		healthy := newTestHandler("BillIssued")
		bus.Subscribe(failing)
		bus.Subscribe(healthy)

		require.NoError(t, bus.Publish(context.Background(), newTestEvent("BillIssued")))
		assert.Len(t, healthy.getHandled(), 1)
	})

	t.Run("handler panic is recovered", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		healthy := newTestHandler()
		bus.Subscribe(panicHandler{})
		bus.Subscribe(healthy)

		assert.NotPanics(t, func() {
			_ = bus.Publish(context.Background(), newTestEvent("BillIssued"))
		})
		assert.Len(t, healthy.getHandled(), 1)
	})

	t.Run("unsubscribed handler receives nothing", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := newTestHandler("BillIssued")
		bus.Subscribe(handler)
		bus.Unsubscribe(handler)

		_ = bus.Publish(context.Background(), newTestEvent("BillIssued"))
		assert.Empty(t, handler.getHandled())
	})
}

func TestInMemoryEventBus_AsyncPublish(t *testing.T) {
	t.Run("publish returns before handlers finish and stop drains them", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop(), WithAsyncDispatch(time.Second))
		handler := newTestHandler()
		handler.block = make(chan struct{})
		bus.Subscribe(handler)
		require.NoError(t, bus.Start(context.Background()))

		require.NoError(t, bus.Publish(context.Background(), newTestEvent("TariffPlanApproved")))
		assert.Empty(t, handler.getHandled())

		close(handler.block)
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		require.NoError(t, bus.Stop(ctx))
		assert.Len(t, handler.getHandled(), 1)
	})

	t.Run("handlers outlive the publisher's context", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop(), WithAsyncDispatch(0))
		handler := newTestHandler()
		bus.Subscribe(handler)
		require.NoError(t, bus.Start(context.Background()))

		ctx, cancel := context.WithCancel(context.Background())
		require.NoError(t, bus.Publish(ctx, newTestEvent("BillPaid")))
		cancel()

		require.NoError(t, bus.Stop(context.Background()))
		handler.mu.Lock()
		defer handler.mu.Unlock()
		require.Len(t, handler.sawCtx, 1)
		assert.NoError(t, handler.sawCtx[0].Err())
	})

	t.Run("stop gives up when its context expires", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop(), WithAsyncDispatch(0))
		handler := newTestHandler()
		handler.block = make(chan struct{})
		defer close(handler.block)
		bus.Subscribe(handler)
		require.NoError(t, bus.Start(context.Background()))
		require.NoError(t, bus.Publish(context.Background(), newTestEvent("BillPaid")))

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		assert.ErrorIs(t, bus.Stop(ctx), context.DeadlineExceeded)
	})

	t.Run("after stop publish runs inline", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop(), WithAsyncDispatch(time.Second))
		handler := newTestHandler()
		bus.Subscribe(handler)
		require.NoError(t, bus.Start(context.Background()))
		require.NoError(t, bus.Stop(context.Background()))

		require.NoError(t, bus.Publish(context.Background(), newTestEvent("BillPaid")))
		assert.Len(t, handler.getHandled(), 1)
	})

	t.Run("publishes racing stop are all delivered by the time both return", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop(), WithAsyncDispatch(time.Second))
		handler := newTestHandler()
		bus.Subscribe(handler)
		require.NoError(t, bus.Start(context.Background()))

		const publishers = 50
		var wg sync.WaitGroup
		for i := 0; i < publishers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_ = bus.Publish(context.Background(), newTestEvent("BillIssued"))
			}()
		}
		require.NoError(t, bus.Stop(context.Background()))
		wg.Wait()

		assert.Len(t, handler.getHandled(), publishers)
	})
}
