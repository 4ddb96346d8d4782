// Package event consumes the notification topic and hands each event to the notification
// service.
package event

import (
	"context"

	"gamasa/config"
	"gamasa/infras/kafka"
	"gamasa/infras/otel"
	"gamasa/internal/domains/notification/model/dto"
	"gamasa/internal/domains/notification/service"
	"gamasa/shared/constant"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
)

type Event struct {
	kafka        kafka.Client
	notification service.Notification
	cfg          *config.Config
	otel         otel.Otel
}

func New(kafka kafka.Client, notification service.Notification, cfg *config.Config, otel otel.Otel) *Event {
	return &Event{
		kafka:        kafka,
		notification: notification,
		cfg:          cfg,
		otel:         otel,
	}
}

// Listen blocks until ctx is done. It returns at once when no brokers are configured.
func (e *Event) Listen(ctx context.Context) {
	if !e.kafka.Enabled() {
		log.Warn().Msg("Kafka is not configured, notification consumer is idle.")

		return
	}

	log.Info().
		Str("topic", e.cfg.Kafka.Topic.Notification).
		Str("group", e.cfg.Kafka.ConsumerGroup).
		Msg("Starting notification consumer.")

	e.kafka.Consume(ctx, e.cfg.Kafka.ConsumerGroup, e.cfg.Kafka.Topic.Notification, e.HandleNotification)
}

// HandleNotification dispatches one notification event. Undecodable messages are dropped,
// dispatch failures are returned so the consumer retries the message.
func (e *Event) HandleNotification(ctx context.Context, message kafkaGo.Message) (err error) {
	ctx, scope := e.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".HandleNotification")
	defer scope.End()
	defer scope.TraceIfError(&err)

	scope.SetAttributes(map[string]any{
		"kafka.topic":     message.Topic,
		"kafka.partition": message.Partition,
		"kafka.offset":    message.Offset,
	})

	event, decodeErr := kafka.DecodeKafkaMessage[dto.NotificationEvent](message)
	if decodeErr != nil {
		scope.TraceError(decodeErr)
		log.Error().Err(decodeErr).Str("key", string(message.Key)).Msg("dropping malformed notification event")

		return nil
	}

	if err = e.notification.Dispatch(ctx, event); err != nil {
		log.Error().Err(err).Str("key", string(message.Key)).Msg("failed to dispatch notification")

		return err
	}

	log.Debug().Str("key", string(message.Key)).Str("type", event.Type).Msg("notification dispatched")

	return nil
}
