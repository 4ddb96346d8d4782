// Package realtime carries server pushed events between API instances and the sockets
// they hold. Producers publish to a Redis channel and every instance's hub delivers the
// events to its local connections.
package realtime

//go:generate go run go.uber.org/mock/mockgen -source=./realtime.go -destination=./mocks/realtime_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"fmt"

	"gamasa/infras/otel"
	"gamasa/shared/constant"

	goRedis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const Channel = "gamasa:realtime"

const (
	EventMessageNew      = "message.new"
	EventMessageRead     = "message.read"
	EventTyping          = "typing"
	EventPresence        = "presence"
	EventNotificationNew = "notification.new"
	EventMediaPermission = "conversation.media_permission"
	EventPing            = "ping"
	EventPong            = "pong"
	EventError           = "error"
)

type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// Envelope is the pub/sub wire form: the encoded event and the users it is addressed to.
type Envelope struct {
	UserIDs []string        `json:"user_ids"`
	Event   json.RawMessage `json:"event"`
}

type Publisher interface {
	Publish(ctx context.Context, event Event, userIDs ...string) error
}

type Subscriber interface {
	Subscribe(ctx context.Context, handler func(Envelope))
}

type RedisBus struct {
	client *goRedis.Client
	otel   otel.Otel
}

func NewRedisBus(client *goRedis.Client, otel otel.Otel) *RedisBus {
	return &RedisBus{
		client: client,
		otel:   otel,
	}
}

func (b *RedisBus) Publish(ctx context.Context, event Event, userIDs ...string) (err error) {
	ctx, scope := b.otel.NewScope(ctx, constant.OtelRealtimeScopeName, constant.OtelRealtimeScopeName+".Publish")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if len(userIDs) == 0 {
		return nil
	}

	scope.SetAttribute("event.type", event.Type)

	encodedEvent, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal realtime event: %w", err)
	}

	payload, err := json.Marshal(Envelope{UserIDs: userIDs, Event: encodedEvent})
	if err != nil {
		return fmt.Errorf("failed to marshal realtime envelope: %w", err)
	}

	if err = b.client.Publish(ctx, Channel, payload).Err(); err != nil {
		log.Error().Err(err).Str("type", event.Type).Msg("failed to publish realtime event")

		return fmt.Errorf("failed to publish realtime event: %w", err)
	}

	return nil
}

// Subscribe blocks until ctx is done, handing every envelope on the channel to handler.
func (b *RedisBus) Subscribe(ctx context.Context, handler func(Envelope)) {
	pubsub := b.client.Subscribe(ctx, Channel)
	defer pubsub.Close()

	log.Info().Str("channel", Channel).Msg("Subscribed to realtime channel")

	messages := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Realtime subscription stopped")

			return
		case msg, ok := <-messages:
			if !ok {
				return
			}

			var envelope Envelope
			if err := json.Unmarshal([]byte(msg.Payload), &envelope); err != nil {
				log.Error().Err(err).Msg("failed to decode realtime envelope")

				continue
			}

			handler(envelope)
		}
	}
}
