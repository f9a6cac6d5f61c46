package mail

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/yamdb/api-yamdb/internal/core/domain"
)

const (
	contentType  = "application/json"
	batchTimeout = 10 * time.Millisecond
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaMailer publishes messages to an outbox topic consumed by the mail relay.
// Messages are keyed by recipient so one address stays on one partition.
type KafkaMailer struct {
	writer messageWriter
	topic  string
}

func NewKafkaMailer(brokers []string, topic string) *KafkaMailer {
	return &KafkaMailer{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			BatchTimeout:           batchTimeout,
			AllowAutoTopicCreation: true,
		},
		topic: topic,
	}
}

func (m *KafkaMailer) Send(ctx context.Context, msg domain.Mail) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("kafka mail: marshal: %w", err)
	}

	err = m.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strings.ToLower(msg.To)),
		Value: data,
		Headers: []kafka.Header{
			{Key: "content-type", Value: []byte(contentType)},
		},
	})
	if err != nil {
		return fmt.Errorf("kafka mail: publish to %s: %w", m.topic, err)
	}
	return nil
}

func (m *KafkaMailer) Close() error {
	return m.writer.Close()
}
