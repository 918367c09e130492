package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	domainErrors "github.com/polkiloo/catering/internal/domain/errors"
	"github.com/polkiloo/catering/internal/domain/model"
)

// Sender delivers fire-and-forget notifications.
type Sender interface {
	Notify(ctx context.Context, kind model.NotificationKind, recipient string, payload map[string]any) error
}

// Message is the envelope published for every notification.
type Message struct {
	ID         string                 `json:"id"`
	Kind       model.NotificationKind `json:"kind"`
	Recipient  string                 `json:"recipient"`
	Payload    map[string]any         `json:"payload,omitempty"`
	OccurredAt time.Time              `json:"occurred_at"`
}

func newMessage(kind model.NotificationKind, recipient string, payload map[string]any) Message {
	return Message{
		ID:         uuid.NewString(),
		Kind:       kind,
		Recipient:  recipient,
		Payload:    payload,
		OccurredAt: time.Now().UTC(),
	}
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSender publishes notifications to a topic consumed by the mailer.
type KafkaSender struct {
	writer messageWriter
}

// NewKafkaSender wraps a kafka writer.
func NewKafkaSender(writer messageWriter) *KafkaSender {
	return &KafkaSender{writer: writer}
}

// Notify publishes one message keyed by recipient so a recipient's messages stay ordered.
func (s *KafkaSender) Notify(ctx context.Context, kind model.NotificationKind, recipient string, payload map[string]any) error {
	msg := newMessage(kind, recipient, payload)
	data, err := json.Marshal(msg)
	if err != nil {
		return domainErrors.Wrap(domainErrors.KindInternal, "encode notification", err)
	}

	err = s.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(recipient),
		Value: data,
		Time:  msg.OccurredAt,
		Headers: []kafka.Header{
			{Key: "kind", Value: []byte(kind)},
			{Key: "message_id", Value: []byte(msg.ID)},
		},
	})
	if err != nil {
		return domainErrors.Wrap(domainErrors.KindDependencyUnavailable, "publish notification", err)
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (s *KafkaSender) Close() error {
	return s.writer.Close()
}

// LogSender writes notifications to the log. Used when no broker is configured.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender builds a log-only sender.
func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Notify implements Sender.
func (s *LogSender) Notify(ctx context.Context, kind model.NotificationKind, recipient string, payload map[string]any) error {
	msg := newMessage(kind, recipient, payload)
	s.logger.InfoContext(ctx, "notification",
		slog.String("id", msg.ID),
		slog.String("kind", string(kind)),
		slog.String("recipient", recipient),
		slog.Any("payload", payload),
	)
	return nil
}
