// Package publisher hands notification events from the domains to the notification topic.
// Without configured brokers the events are dispatched in process.
package publisher

//go:generate go run go.uber.org/mock/mockgen -source=./publisher.go -destination=../mocks/publisher_mock.go -package=mocks

import (
	"context"
	"fmt"

	"gamasa/config"
	"gamasa/infras/kafka"
	"gamasa/infras/otel"
	"gamasa/internal/domains/notification/model/dto"
	"gamasa/internal/domains/notification/service"
	"gamasa/shared/constant"

	"github.com/rs/zerolog/log"
)

type Publisher interface {
	Publish(ctx context.Context, events ...dto.NotificationEvent) error
}

type publisherImpl struct {
	kafka      kafka.Client
	dispatcher service.Notification
	cfg        *config.Config
	otel       otel.Otel
}

func New(kafka kafka.Client, dispatcher service.Notification, cfg *config.Config, otel otel.Otel) Publisher {
	return &publisherImpl{
		kafka:      kafka,
		dispatcher: dispatcher,
		cfg:        cfg,
		otel:       otel,
	}
}

func (p *publisherImpl) Publish(ctx context.Context, events ...dto.NotificationEvent) (err error) {
	ctx, scope := p.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Publish")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if len(events) == 0 {
		return nil
	}

	if !p.kafka.Enabled() {
		for _, event := range events {
			if err = p.dispatcher.Dispatch(ctx, event); err != nil {
				return fmt.Errorf("failed to dispatch notification: %w", err)
			}
		}

		return nil
	}

	messages := make([]kafka.Message, len(events))
	for i, event := range events {
		messages[i] = kafka.Message{Key: messageKey(event), Value: event}
	}

	if err = p.kafka.SendMessages(ctx, p.cfg.Kafka.Topic.Notification, messages...); err != nil {
		log.Error().Err(err).Int("count", len(events)).Msg("failed to publish notification events")

		return fmt.Errorf("failed to publish notification events: %w", err)
	}

	return nil
}

// messageKey keeps the events of one recipient on one partition.
func messageKey(event dto.NotificationEvent) string {
	if event.UserID != constant.Empty {
		return event.UserID
	}

	return "role:" + event.Role
}

// Notify publishes events and only logs a failure, so the operation that produced them stands.
func Notify(ctx context.Context, publisher Publisher, events ...dto.NotificationEvent) {
	if err := publisher.Publish(context.WithoutCancel(ctx), events...); err != nil {
		log.Error().Err(err).Msg("failed to publish notifications")
	}
}
