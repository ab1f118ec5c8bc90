package stream

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
)

// Source is the push side the ingestion facade reads from. Next blocks until
// a message arrives, the context is cancelled, or the source fails.
type Source interface {
	Next(ctx context.Context) ([]byte, error)
	Close() error
}

// KafkaSource implements Source over a kafka-go consumer group reader.
type KafkaSource struct {
	reader *kafka.Reader
}

// NewKafkaSource creates a consumer-group reader for the envelope topic.
// Returns nil when brokers are unset (push source disabled).
func NewKafkaSource(brokers []string, topic, groupID string) *KafkaSource {
	if len(brokers) == 0 || topic == "" {
		return nil
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       1,
		MaxBytes:       10e6, // 10MB
		MaxWait:        1 * time.Second,
		CommitInterval: time.Second,
	})
	return &KafkaSource{reader: reader}
}

// Next returns the value of the next message on the topic.
func (s *KafkaSource) Next(ctx context.Context) ([]byte, error) {
	msg, err := s.reader.ReadMessage(ctx)
	if err != nil {
		return nil, err
	}
	return msg.Value, nil
}

// Close closes the underlying reader.
func (s *KafkaSource) Close() error {
	if s == nil || s.reader == nil {
		return nil
	}
	return s.reader.Close()
}
