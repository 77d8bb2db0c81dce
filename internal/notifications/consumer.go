package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cinetix/internal/shared/config"
	"cinetix/pkg/logger"

	"github.com/IBM/sarama"
)

// consumeRetryBackoff spaces out Consume retries when the broker is
// unreachable, since Consume returns immediately in that case.
const consumeRetryBackoff = 5 * time.Second

// Consumer drives ticket emails off the reservation events topic.
type Consumer struct {
	group        sarama.ConsumerGroup
	topic        string
	emailService EmailService
	backoff      time.Duration
	cancel       context.CancelFunc
}

func NewConsumer(cfg config.KafkaConfig, emailService EmailService) (*Consumer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRange()}
	saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	saramaConfig.Consumer.Return.Errors = true

	group, err := sarama.NewConsumerGroup(cfg.Brokers, cfg.ConsumerGroup, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka consumer group: %w", err)
	}

	return &Consumer{
		group:        group,
		topic:        cfg.EventsTopic,
		emailService: emailService,
		backoff:      consumeRetryBackoff,
	}, nil
}

// Start consumes until ctx is cancelled or Close is called.
func (c *Consumer) Start(ctx context.Context) {
	ctx, c.cancel = context.WithCancel(ctx)

	go func() {
		for err := range c.group.Errors() {
			logger.Error("kafka consumer error", "error", err)
		}
	}()

	go func() {
		handler := &eventHandler{emailService: c.emailService}
		for {
			err := c.group.Consume(ctx, []string{c.topic}, handler)
			if ctx.Err() != nil {
				return
			}
			if err != nil {
				logger.Error("kafka consume failed, retrying", "topic", c.topic, "error", err)
				select {
				case <-ctx.Done():
					return
				case <-time.After(c.backoff):
				}
			}
		}
	}()

	logger.Info("notification consumer started", "topic", c.topic)
}

func (c *Consumer) Close() error {
	if c.cancel != nil {
		c.cancel()
	}
	return c.group.Close()
}

type eventHandler struct {
	emailService EmailService
}

func (h *eventHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *eventHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *eventHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for message := range claim.Messages() {
		var event ReservationEvent
		if err := json.Unmarshal(message.Value, &event); err != nil {
			logger.Error("failed to decode reservation event",
				"partition", message.Partition,
				"offset", message.Offset,
				"error", err)
			session.MarkMessage(message, "")
			continue
		}

		if err := h.emailService.SendReservationEmail(session.Context(), &event); err != nil {
			logger.Error("failed to send reservation email",
				"reservation_id", event.ReservationID,
				"error", err)
			// Mark anyway; email delivery is best-effort
		}

		session.MarkMessage(message, "")
	}
	return nil
}
