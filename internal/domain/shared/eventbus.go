package shared

import "context"

// EventHandler consumes domain events. Audit logging, Kafka notification and
// usage time series are all handlers.
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	// EventTypes lists the event types handled; empty means every event
	EventTypes() []string
}

// EventPublisher hands domain events to the subscribed handlers
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventBus routes published events to subscribed handlers. A handler error
// never reaches the publisher.
type EventBus interface {
	EventPublisher
	Subscribe(handler EventHandler, eventTypes ...string)
	Unsubscribe(handler EventHandler)
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}
