package stream

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
)

// Producer emits envelope messages to the stream. Callers use it best-effort:
// log and ignore errors.
type Producer interface {
	// Emit sends one encoded envelope. Implementations may block briefly.
	Emit(ctx context.Context, message []byte) error
	// Close releases resources (e.g. Kafka writer). Safe to call if already closed.
	Close() error
}

// KafkaProducer implements Producer using segmentio/kafka-go.
type KafkaProducer struct {
	writer *kafka.Writer
}

// NewKafkaProducer creates a producer that writes envelopes to the given topic.
// Returns nil when brokers or topic are unset (stream disabled). Call Close when shutting down.
func NewKafkaProducer(brokers []string, topic string) *KafkaProducer {
	if len(brokers) == 0 || topic == "" {
		return nil
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
	}
	return &KafkaProducer{writer: writer}
}

// Emit writes the message to the Kafka topic with a short timeout so a slow
// broker does not block callers indefinitely.
func (p *KafkaProducer) Emit(ctx context.Context, message []byte) error {
	if p == nil || p.writer == nil || len(message) == 0 {
		return nil
	}
	writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return p.writer.WriteMessages(writeCtx, kafka.Message{Value: message})
}

// Close closes the Kafka writer. Safe to call multiple times.
func (p *KafkaProducer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
