package event_test

import (
	"context"
	"errors"
	"testing"
	"time"

	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"gamasa/config"
	"gamasa/infras/kafka"
	kafkaMocks "gamasa/infras/kafka/mocks"
	otelMocks "gamasa/infras/otel/mocks"
	"gamasa/internal/domains/notification/model/dto"
	notificationMocks "gamasa/internal/domains/notification/service/mocks"
	"gamasa/transport/event"
)

func newEvent(t *testing.T) (*event.Event, *kafkaMocks.MockClient, *notificationMocks.MockNotification) {
	ctrl := gomock.NewController(t)

	client := kafkaMocks.NewMockClient(ctrl)
	notification := notificationMocks.NewMockNotification(ctrl)

	cfg := &config.Config{}
	cfg.Kafka.ConsumerGroup = "gamasa"
	cfg.Kafka.Topic.Notification = "gamasa.notification"

	return event.New(client, notification, cfg, otelMocks.NewOtel()), client, notification
}

func TestEvent_Listen(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		e, client, _ := newEvent(t)
		client.EXPECT().Enabled().Return(false)

		e.Listen(context.Background())
	})

	t.Run("consumes the notification topic", func(t *testing.T) {
		e, client, _ := newEvent(t)
		client.EXPECT().Enabled().Return(true)
		client.EXPECT().Consume(gomock.Any(), "gamasa", "gamasa.notification", gomock.Any())

		e.Listen(context.Background())
	})
}

func TestEvent_HandleNotification(t *testing.T) {
	payload := []byte(`{"user_id":"owner-1","title":"t","body":"b","type":"booking"}`)

	tests := []struct {
		name      string
		message   kafkaGo.Message
		setupMock func(n *notificationMocks.MockNotification)
		wantErr   bool
	}{
		{
			name:    "dispatched",
			message: kafkaGo.Message{Key: []byte("owner-1"), Value: payload},
			setupMock: func(n *notificationMocks.MockNotification) {
				n.EXPECT().Dispatch(gomock.Any(), dto.NotificationEvent{
					UserID: "owner-1",
					Title:  "t",
					Body:   "b",
					Type:   "booking",
				}).Return(nil)
			},
		},
		{
			name:    "dispatch error is returned for retry",
			message: kafkaGo.Message{Key: []byte("owner-1"), Value: payload},
			setupMock: func(n *notificationMocks.MockNotification) {
				n.EXPECT().Dispatch(gomock.Any(), gomock.Any()).Return(errors.New("db down"))
			},
			wantErr: true,
		},
		{
			name:      "malformed payload is skipped",
			message:   kafkaGo.Message{Value: []byte("{")},
			setupMock: func(_ *notificationMocks.MockNotification) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _, notification := newEvent(t)
			tt.setupMock(notification)

			err := e.HandleNotification(context.Background(), tt.message)

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestEvent_DispatchFailureIsRetried(t *testing.T) {
	e, _, notification := newEvent(t)

	message := kafkaGo.Message{Key: []byte("owner-1"), Value: []byte(`{"user_id":"owner-1","title":"t","body":"b","type":"booking"}`)}

	gomock.InOrder(
		notification.EXPECT().Dispatch(gomock.Any(), gomock.Any()).Return(errors.New("db down")),
		notification.EXPECT().Dispatch(gomock.Any(), gomock.Any()).Return(nil),
	)

	assert.True(t, kafka.HandleWithRetry(context.Background(), message, e.HandleNotification, time.Millisecond))
}
