package publisher_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"gamasa/config"
	"gamasa/infras/kafka"
	kafkaMocks "gamasa/infras/kafka/mocks"
	"gamasa/infras/otel/mocks"
	"gamasa/internal/domains/notification/model/dto"
	"gamasa/internal/domains/notification/publisher"
	serviceMocks "gamasa/internal/domains/notification/service/mocks"
	"gamasa/shared/constant"
)

func TestPublisher_Publish(t *testing.T) {
	events := []dto.NotificationEvent{
		{UserID: "owner-1", Title: "t", Body: "b", Type: "booking"},
		{Role: constant.RoleAdmin, Title: "t", Body: "b", Type: "payment"},
	}

	cfg := &config.Config{}
	cfg.Kafka.Topic.Notification = "notifications"

	t.Run("kafka enabled sends keyed messages", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		client := kafkaMocks.NewMockClient(ctrl)
		dispatcher := serviceMocks.NewMockNotification(ctrl)

		client.EXPECT().Enabled().Return(true)
		client.EXPECT().
			SendMessages(gomock.Any(), "notifications", gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, messages ...kafka.Message) error {
				assert.Equal(t, "owner-1", messages[0].Key)
				assert.Equal(t, "role:admin", messages[1].Key)

				return nil
			})

		p := publisher.New(client, dispatcher, cfg, mocks.NewOtel())

		assert.NoError(t, p.Publish(context.Background(), events...))
	})

	t.Run("kafka disabled dispatches in process", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		client := kafkaMocks.NewMockClient(ctrl)
		dispatcher := serviceMocks.NewMockNotification(ctrl)

		client.EXPECT().Enabled().Return(false)
		dispatcher.EXPECT().Dispatch(gomock.Any(), events[0]).Return(nil)
		dispatcher.EXPECT().Dispatch(gomock.Any(), events[1]).Return(nil)

		p := publisher.New(client, dispatcher, cfg, mocks.NewOtel())

		assert.NoError(t, p.Publish(context.Background(), events...))
	})

	t.Run("send failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		client := kafkaMocks.NewMockClient(ctrl)

		client.EXPECT().Enabled().Return(true)
		client.EXPECT().SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("broker down"))

		p := publisher.New(client, serviceMocks.NewMockNotification(ctrl), cfg, mocks.NewOtel())

		assert.Error(t, p.Publish(context.Background(), events[0]))
	})

	t.Run("no events", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		p := publisher.New(kafkaMocks.NewMockClient(ctrl), serviceMocks.NewMockNotification(ctrl), cfg, mocks.NewOtel())

		assert.NoError(t, p.Publish(context.Background()))
	})
}
