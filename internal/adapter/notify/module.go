package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/fx"

	"github.com/polkiloo/catering/internal/config"
)

const writeTimeout = 5 * time.Second

// Module provides the notification sender.
var Module = fx.Provide(newSender)

type senderParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.Config
	Logger    *slog.Logger
}

func newSender(p senderParams) Sender {
	if len(p.Config.KafkaBrokers) == 0 {
		p.Logger.Info("kafka brokers not configured, notifications are logged only")
		return NewLogSender(p.Logger)
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(p.Config.KafkaBrokers...),
		Topic:                  p.Config.NotificationTopic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		WriteTimeout:           writeTimeout,
		AllowAutoTopicCreation: true,
	}
	sender := NewKafkaSender(writer)

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return sender.Close()
		},
	})
	return sender
}
