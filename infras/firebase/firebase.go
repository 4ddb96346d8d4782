package firebase

//go:generate go run go.uber.org/mock/mockgen -source=./firebase.go -destination=./mocks/firebase_mock.go -package=mocks

import (
	"context"
	"fmt"

	"gamasa/config"
	"gamasa/infras/otel"
	"gamasa/shared/constant"

	firebase "firebase.google.com/go"
	"firebase.google.com/go/messaging"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

const (
	androidChannelID = "high_priority_channel"
	androidPriority  = "high"
	apnsPriority     = "10"
)

type Push struct {
	Token string
	Title string
	Body  string
	Data  map[string]string
}

type Messaging interface {
	Enabled() bool
	Send(ctx context.Context, push Push) error
}

type messagingImpl struct {
	client *messaging.Client
	otel   otel.Otel
}

type disabledMessaging struct{}

// New returns an FCM sender, or a sender that drops every push when Firebase is disabled
// or cannot be initialized.
func New(cfg *config.Config, otel otel.Otel) Messaging {
	if !cfg.External.Firebase.Enable {
		log.Info().Msg("Firebase push notifications disabled")

		return disabledMessaging{}
	}

	ctx := context.Background()

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(cfg.External.Firebase.CredentialsFile))
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize Firebase app, push notifications disabled")

		return disabledMessaging{}
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize Firebase messaging, push notifications disabled")

		return disabledMessaging{}
	}

	log.Info().Msg("Firebase messaging initialized")

	return &messagingImpl{
		client: client,
		otel:   otel,
	}
}

func (m *messagingImpl) Enabled() bool {
	return true
}

func (m *messagingImpl) Send(ctx context.Context, push Push) (err error) {
	ctx, scope := m.otel.NewScope(ctx, constant.OtelPushScopeName, constant.OtelPushScopeName+".Send")
	defer scope.End()
	defer scope.TraceIfError(&err)

	message := &messaging.Message{
		Token: push.Token,
		Notification: &messaging.Notification{
			Title: push.Title,
			Body:  push.Body,
		},
		Data: push.Data,
		Android: &messaging.AndroidConfig{
			Priority: androidPriority,
			Notification: &messaging.AndroidNotification{
				ChannelID: androidChannelID,
			},
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-priority": apnsPriority,
			},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Alert: &messaging.ApsAlert{
						Title: push.Title,
						Body:  push.Body,
					},
					Sound: "default",
				},
			},
		},
	}

	id, err := m.client.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send push notification: %w", err)
	}

	log.Debug().Str("message_id", id).Msg("push notification sent")

	return nil
}

func (disabledMessaging) Enabled() bool {
	return false
}

func (disabledMessaging) Send(_ context.Context, _ Push) error {
	return nil
}
