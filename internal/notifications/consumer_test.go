package notifications

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubConsumerGroup struct {
	mu    sync.Mutex
	calls []time.Time
	errs  chan error
}

func (s *stubConsumerGroup) Consume(ctx context.Context, topics []string, handler sarama.ConsumerGroupHandler) error {
	s.mu.Lock()
	s.calls = append(s.calls, time.Now())
	s.mu.Unlock()
	return sarama.ErrOutOfBrokers
}

func (s *stubConsumerGroup) Errors() <-chan error { return s.errs }

func (s *stubConsumerGroup) Close() error { return nil }

func (s *stubConsumerGroup) Pause(map[string][]int32) {}

func (s *stubConsumerGroup) Resume(map[string][]int32) {}

func (s *stubConsumerGroup) PauseAll() {}

func (s *stubConsumerGroup) ResumeAll() {}

func (s *stubConsumerGroup) callTimes() []time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Time(nil), s.calls...)
}

func TestConsumeRetriesWithBackoff(t *testing.T) {
	backoff := 20 * time.Millisecond
	stub := &stubConsumerGroup{errs: make(chan error)}
	consumer := &Consumer{
		group:        stub,
		topic:        "reservation-events",
		emailService: NewEmailService(),
		backoff:      backoff,
	}

	ctx, cancel := context.WithCancel(context.Background())
	consumer.Start(ctx)

	time.Sleep(3 * backoff)
	cancel()

	calls := stub.callTimes()
	require.GreaterOrEqual(t, len(calls), 2, "broker failure must keep retrying")

	for i := 1; i < len(calls); i++ {
		assert.GreaterOrEqual(t, calls[i].Sub(calls[i-1]), backoff,
			"failed Consume calls must not spin back-to-back")
	}
}
