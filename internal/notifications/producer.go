package notifications

import (
	"context"
	"fmt"
	"time"

	"cinetix/internal/reservations"
	"cinetix/internal/shared/config"
	"cinetix/pkg/logger"

	"github.com/IBM/sarama"
)

// Publisher emits reservation lifecycle events. It satisfies
// reservations.EventPublisher.
type Publisher interface {
	PublishReservationEvent(ctx context.Context, eventType string, reservation *reservations.Reservation)
	Close() error
}

// KafkaPublisher publishes events via a sarama sync producer. Publishing
// is best-effort: failures are logged, never returned to the booking path.
type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
}

func NewKafkaPublisher(cfg config.KafkaConfig) (Publisher, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Compression = sarama.CompressionSnappy
	saramaConfig.Producer.Retry.Max = 3
	saramaConfig.Producer.Timeout = 10 * time.Second
	saramaConfig.Producer.Idempotent = true
	saramaConfig.Net.MaxOpenRequests = 1
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(cfg.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	logger.Info("kafka reservation event producer created", "topic", cfg.EventsTopic)

	return &KafkaPublisher{
		producer: producer,
		topic:    cfg.EventsTopic,
	}, nil
}

func (p *KafkaPublisher) PublishReservationEvent(ctx context.Context, eventType string, reservation *reservations.Reservation) {
	event := NewReservationEvent(eventType, reservation)

	payload, err := event.ToJSON()
	if err != nil {
		logger.Error("failed to marshal reservation event", "event_type", eventType, "error", err)
		return
	}

	message := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.PartitionKey()),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(eventType)},
			{Key: []byte("reservation_id"), Value: []byte(event.ReservationID)},
			{Key: []byte("occurred_at"), Value: []byte(event.OccurredAt.Format(time.RFC3339))},
		},
		Timestamp: event.OccurredAt,
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		logger.Error("failed to publish reservation event",
			"event_type", eventType,
			"reservation_id", event.ReservationID,
			"error", err)
		return
	}

	logger.Debug("reservation event published",
		"event_type", eventType,
		"reservation_id", event.ReservationID,
		"partition", partition,
		"offset", offset)
}

func (p *KafkaPublisher) Close() error {
	if p.producer != nil {
		if err := p.producer.Close(); err != nil {
			return fmt.Errorf("failed to close Kafka producer: %w", err)
		}
	}
	return nil
}

// NoopPublisher is used when Kafka is disabled.
type NoopPublisher struct{}

func NewNoopPublisher() Publisher {
	return &NoopPublisher{}
}

func (NoopPublisher) PublishReservationEvent(ctx context.Context, eventType string, reservation *reservations.Reservation) {
	logger.Debug("kafka disabled, dropping reservation event",
		"event_type", eventType,
		"reservation_id", reservation.ID.String())
}

func (NoopPublisher) Close() error {
	return nil
}
