package event

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/shared"
	"github.com/AcmeAI-Git/water-tariff-backend/internal/infrastructure/config"
	"github.com/Shopify/sarama"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NotificationMessage is the JSON envelope written to the notification topic
type NotificationMessage struct {
	EventID       uuid.UUID `json:"event_id"`
	EventType     string    `json:"event_type"`
	AggregateType string    `json:"aggregate_type"`
	AggregateID   uuid.UUID `json:"aggregate_id"`
	OccurredAt    time.Time `json:"occurred_at"`
	Actor         uuid.UUID `json:"actor,omitempty"`
	Action        string    `json:"action,omitempty"`
	OldData       any       `json:"old_data,omitempty"`
	NewData       any       `json:"new_data,omitempty"`
}

// KafkaPublisher forwards domain events to Kafka for notification delivery.
// It subscribes to every event type.
type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
	logger   *zap.Logger
}

// NewKafkaPublisher creates a KafkaPublisher writing to topic
func NewKafkaPublisher(producer sarama.SyncProducer, topic string, logger *zap.Logger) *KafkaPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KafkaPublisher{producer: producer, topic: topic, logger: logger}
}

// NewKafkaProducer builds a synchronous producer from config
func NewKafkaProducer(cfg config.KafkaConfig) (sarama.SyncProducer, error) {
	saramaConfig := sarama.NewConfig()
	acks, err := ParseRequiredAcks(cfg.RequiredAcks)
	if err != nil {
		return nil, err
	}
	saramaConfig.Producer.RequiredAcks = acks
	saramaConfig.Producer.Retry.Max = cfg.MaxRetries
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	if cfg.ClientID != "" {
		saramaConfig.ClientID = cfg.ClientID
	}

	producer, err := sarama.NewSyncProducer(cfg.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("error creating kafka producer: %w", err)
	}
	return producer, nil
}

// ParseRequiredAcks maps the configured acknowledgement level to sarama's
func ParseRequiredAcks(v string) (sarama.RequiredAcks, error) {
	switch strings.ToLower(v) {
	case "none", "no_response", "0":
		return sarama.NoResponse, nil
	case "leader", "local", "wait_for_local", "1":
		return sarama.WaitForLocal, nil
	case "", "all", "wait_for_all", "-1":
		return sarama.WaitForAll, nil
	default:
		return sarama.WaitForAll, fmt.Errorf("invalid kafka required_acks: %s", v)
	}
}

// Handle publishes the event keyed by aggregate ID so every change of one
// entity lands on the same partition
func (p *KafkaPublisher) Handle(ctx context.Context, event shared.DomainEvent) error {
	msg := NotificationMessage{
		EventID:       event.EventID(),
		EventType:     event.EventType(),
		AggregateType: event.AggregateType(),
		AggregateID:   event.AggregateID(),
		OccurredAt:    event.OccurredAt(),
	}
	if audited, ok := event.(shared.AuditedEvent); ok {
		msg.Actor = audited.Actor()
		msg.Action = audited.Action()
		msg.OldData = audited.Before()
		msg.NewData = audited.After()
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode event %s: %w", event.EventID(), err)
	}

	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.AggregateID().String()),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(event.EventType())},
		},
		Timestamp: event.OccurredAt(),
	})
	if err != nil {
		return fmt.Errorf("failed to publish event %s to kafka: %w", event.EventID(), err)
	}

	p.logger.Debug("Event published to kafka",
		zap.String("event_type", event.EventType()),
		zap.String("event_id", event.EventID().String()),
		zap.Int32("partition", partition),
		zap.Int64("offset", offset),
	)
	return nil
}

// EventTypes returns nil: every event is forwarded
func (p *KafkaPublisher) EventTypes() []string {
	return nil
}

// Close closes the underlying producer
func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}
