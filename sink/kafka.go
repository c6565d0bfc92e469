// Package sink forwards webhooks picked up by a listener to a message broker.
package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/chinmay1088/tatum-go/api"
	"github.com/chinmay1088/tatum-go/logger"
)

// MessageWriter writes messages to a topic. *kafka.Writer satisfies it.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSink publishes webhooks as JSON keyed by subscription id, so all
// deliveries of one subscription land on the same partition.
type KafkaSink struct {
	writer MessageWriter
	log    *zap.Logger
}

// NewKafkaWriter creates a writer for topic on brokers
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
		BatchTimeout:           10 * time.Millisecond,
		WriteTimeout:           10 * time.Second,
	}
}

// NewKafkaSink wraps w
func NewKafkaSink(w MessageWriter, l *zap.Logger) *KafkaSink {
	return &KafkaSink{writer: w, log: logger.OrNop(l)}
}

// Handle publishes webhook; it matches notification.WebhookHandler
func (s *KafkaSink) Handle(ctx context.Context, webhook api.Webhook) error {
	value, err := json.Marshal(webhook)
	if err != nil {
		return fmt.Errorf("failed to encode webhook %s: %w", webhook.ID, err)
	}
	msg := kafka.Message{
		Key:   []byte(webhook.SubscriptionID),
		Value: value,
		Time:  time.Now(),
		Headers: []kafka.Header{
			{Key: "webhook-id", Value: []byte(webhook.ID)},
			{Key: "webhook-type", Value: []byte(webhook.Type)},
		},
	}
	if err := s.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish webhook %s: %w", webhook.ID, err)
	}
	s.log.Debug("published webhook", zap.String("webhook_id", webhook.ID), zap.String("subscription_id", webhook.SubscriptionID))
	return nil
}

// Close flushes and closes the writer
func (s *KafkaSink) Close() error {
	return s.writer.Close()
}
