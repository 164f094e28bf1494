// Package notify publishes domain notifications (approvals, rejections,
// reminders) to an event stream for downstream consumers.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// Notification types
const (
	TypeClubApproved         = "club_request.approved"
	TypeClubRejected         = "club_request.rejected"
	TypeEventApproved        = "event_request.approved"
	TypeEventRejected        = "event_request.rejected"
	TypeAnnouncementApproved = "announcement_request.approved"
	TypeAnnouncementRejected = "announcement_request.rejected"
	TypeEventReminder        = "event.reminder"
)

// Notification is one message addressed to a user.
type Notification struct {
	Type        string            `json:"type"`
	RecipientID string            `json:"recipientId"`
	EntityID    string            `json:"entityId"`
	Title       string            `json:"title"`
	Data        map[string]string `json:"data,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
}

// Publisher delivers notifications.
type Publisher interface {
	Publish(ctx context.Context, n Notification) error
	Close() error
}

// messageWriter is the part of *kafka.Writer we use.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes notifications as JSON, keyed by recipient so one
// user's notifications stay ordered within a partition.
type KafkaPublisher struct {
	writer messageWriter
	logger zerolog.Logger
}

// KafkaConfig configures the publisher.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// NewKafkaPublisher creates a synchronous writer on cfg.Topic.
func NewKafkaPublisher(cfg KafkaConfig, logger zerolog.Logger) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{writer: w, logger: logger}
}

// Publish implements Publisher
func (p *KafkaPublisher) Publish(ctx context.Context, n Notification) error {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	value, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to encode notification: %w", err)
	}
	if err := p.writer.WriteMessages(ctx, kafka.Message{Key: []byte(n.RecipientID), Value: value}); err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}
	p.logger.Debug().Str("type", n.Type).Str("recipientId", n.RecipientID).Msg("Notification published")
	return nil
}

// Close flushes and closes the writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// LogPublisher is used when no brokers are configured.
type LogPublisher struct {
	logger zerolog.Logger
}

// NewLogPublisher creates a LogPublisher
func NewLogPublisher(logger zerolog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// Publish implements Publisher
func (p *LogPublisher) Publish(_ context.Context, n Notification) error {
	p.logger.Info().
		Str("type", n.Type).
		Str("recipientId", n.RecipientID).
		Str("entityId", n.EntityID).
		Str("title", n.Title).
		Msg("Notification")
	return nil
}

// Close implements Publisher
func (p *LogPublisher) Close() error { return nil }

// New picks the Kafka publisher when brokers are configured.
func New(cfg KafkaConfig, logger zerolog.Logger) Publisher {
	if len(cfg.Brokers) == 0 || cfg.Topic == "" {
		logger.Info().Msg("Kafka not configured, notifications are logged only")
		return NewLogPublisher(logger)
	}
	return NewKafkaPublisher(cfg, logger)
}
