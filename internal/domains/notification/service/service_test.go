package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"gamasa/config"
	"gamasa/infras/firebase"
	firebaseMocks "gamasa/infras/firebase/mocks"
	"gamasa/infras/otel/mocks"
	notificationMocks "gamasa/internal/domains/notification/mocks"
	"gamasa/internal/domains/notification/model"
	"gamasa/internal/domains/notification/model/dto"
	"gamasa/internal/domains/notification/service"
	profileMocks "gamasa/internal/domains/profile/mocks"
	profileModel "gamasa/internal/domains/profile/model"
	cacheMocks "gamasa/shared/cache/mocks"
	"gamasa/shared/constant"
	gDto "gamasa/shared/dto"
	"gamasa/shared/failure"
	"gamasa/shared/realtime"
	realtimeMocks "gamasa/shared/realtime/mocks"
)

type fixture struct {
	repo      *notificationMocks.MockNotification
	profiles  *profileMocks.MockProfile
	realtime  *realtimeMocks.MockPublisher
	messaging *firebaseMocks.MockMessaging
	cache     *cacheMocks.MockRedisCache
	svc       service.Notification
}

func newFixture(t *testing.T) fixture {
	ctrl := gomock.NewController(t)

	f := fixture{
		repo:      notificationMocks.NewMockNotification(ctrl),
		profiles:  profileMocks.NewMockProfile(ctrl),
		realtime:  realtimeMocks.NewMockPublisher(ctrl),
		messaging: firebaseMocks.NewMockMessaging(ctrl),
		cache:     cacheMocks.NewMockRedisCache(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 60

	f.svc = service.New(f.repo, f.profiles, f.realtime, f.messaging, cfg, f.cache, mocks.NewOtel())

	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return f
}

func userContext(userID string) context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, userID)
}

var bookingEvent = dto.NotificationEvent{
	UserID: "owner-1",
	Title:  "New booking request",
	Body:   "A tenant requested your chalet",
	Type:   model.TypeBooking,
	Link:   "/bookings/b-1",
}

func TestNotificationService_Create(t *testing.T) {
	token := "device-token"

	tests := []struct {
		name      string
		setupMock func(f fixture)
		wantErr   bool
	}{
		{
			name: "persists, pushes realtime and fcm",
			setupMock: func(f fixture) {
				f.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, n model.Notification) error {
						assert.Equal(t, "owner-1", n.UserID)
						assert.False(t, n.IsRead)
						assert.Equal(t, "/bookings/b-1", *n.Link)

						return nil
					})
				f.realtime.EXPECT().
					Publish(gomock.Any(), gomock.Any(), "owner-1").
					DoAndReturn(func(_ context.Context, event realtime.Event, _ ...string) error {
						assert.Equal(t, realtime.EventNotificationNew, event.Type)

						return nil
					})
				f.messaging.EXPECT().Enabled().Return(true)
				f.profiles.EXPECT().
					Get(gomock.Any(), gomock.Any(), profileModel.FieldID, profileModel.FieldFCMToken).
					Return(profileModel.Profile{ID: "owner-1", FCMToken: &token}, nil)
				f.messaging.EXPECT().
					Send(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, push firebase.Push) error {
						assert.Equal(t, token, push.Token)
						assert.Equal(t, model.TypeBooking, push.Data["type"])

						return nil
					})
			},
		},
		{
			name: "push failures are not fatal",
			setupMock: func(f fixture) {
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
				f.realtime.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("redis down"))
				f.messaging.EXPECT().Enabled().Return(true)
				f.profiles.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(profileModel.Profile{ID: "owner-1", FCMToken: &token}, nil)
				f.messaging.EXPECT().Send(gomock.Any(), gomock.Any()).Return(errors.New("fcm down"))
			},
		},
		{
			name: "no device token skips fcm",
			setupMock: func(f fixture) {
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
				f.realtime.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				f.messaging.EXPECT().Enabled().Return(true)
				f.profiles.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(profileModel.Profile{ID: "owner-1"}, nil)
			},
		},
		{
			name: "firebase disabled",
			setupMock: func(f fixture) {
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
				f.realtime.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				f.messaging.EXPECT().Enabled().Return(false)
			},
		},
		{
			name: "insert failure",
			setupMock: func(f fixture) {
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Create(context.Background(), "owner-1", bookingEvent)

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
			assert.NotEmpty(t, res.ID)
			assert.Equal(t, bookingEvent.Title, res.Title)
		})
	}
}

func TestNotificationService_Dispatch(t *testing.T) {
	t.Run("admin role expands to admins and superadmins", func(t *testing.T) {
		f := newFixture(t)

		event := dto.NotificationEvent{Role: constant.RoleAdmin, Title: "New listing", Body: "Review it", Type: model.TypeProperty}

		f.profiles.EXPECT().IDsByRoles(gomock.Any(), constant.RoleAdmin, constant.RoleSuperAdmin).Return([]string{"admin-1", "admin-2"}, nil)
		f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil).Times(2)
		f.realtime.EXPECT().Publish(gomock.Any(), gomock.Any(), "admin-1").Return(nil)
		f.realtime.EXPECT().Publish(gomock.Any(), gomock.Any(), "admin-2").Return(nil)
		f.messaging.EXPECT().Enabled().Return(false).Times(2)

		assert.NoError(t, f.svc.Dispatch(context.Background(), event))
	})

	t.Run("direct recipient", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
		f.realtime.EXPECT().Publish(gomock.Any(), gomock.Any(), "owner-1").Return(nil)
		f.messaging.EXPECT().Enabled().Return(false)

		assert.NoError(t, f.svc.Dispatch(context.Background(), bookingEvent))
	})

	t.Run("recipient lookup failure", func(t *testing.T) {
		f := newFixture(t)

		f.profiles.EXPECT().IDsByRoles(gomock.Any(), gomock.Any()).Return(nil, errors.New("database error"))

		err := f.svc.Dispatch(context.Background(), dto.NotificationEvent{Role: constant.RoleOwner, Title: "t", Body: "b", Type: model.TypeSystem})

		assert.Error(t, err)
	})
}

func TestNotificationService_GetMine(t *testing.T) {
	f := newFixture(t)

	f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
	f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
	f.repo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, params gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.Notification, error) {
			where, args := filter.GetWhereClause()

			assert.Equal(t, "(notifications.is_read = :is_read AND notifications.user_id = :user_id)", where)
			assert.Equal(t, "user-1", args["user_id"])
			assert.Equal(t, gDto.SortDirDesc, params.SortDir)

			return []model.Notification{{ID: "n-1", UserID: "user-1", Title: "hello"}}, nil
		})

	res, err := f.svc.GetMine(userContext("user-1"), gDto.QueryParams{Page: 1, Limit: 10}, true)

	assert.NoError(t, err)
	assert.Len(t, res.Notifications, 1)
}

func TestNotificationService_UnreadCount(t *testing.T) {
	f := newFixture(t)

	f.cache.EXPECT().Get(gomock.Any(), "notification:unread:user-1", gomock.Any()).Return(errors.New("miss"))
	f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(4, nil)

	res, err := f.svc.UnreadCount(userContext("user-1"))

	assert.NoError(t, err)
	assert.Equal(t, 4, res.Count)
}

func TestNotificationService_MarkRead(t *testing.T) {
	t.Run("not owned", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

		err := f.svc.MarkRead(userContext("user-1"), "n-9")

		assert.Equal(t, 404, failure.GetCode(err))
	})

	t.Run("marks read", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		f.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, true, fields[model.FieldIsRead])

				return nil
			})

		assert.NoError(t, f.svc.MarkRead(userContext("user-1"), "n-1"))
	})
}

func TestNotificationService_MarkAllRead(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().
		Update(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fields map[string]any, filter gDto.FilterGroup) error {
			where, _ := filter.GetWhereClause()

			assert.Contains(t, where, ":current_is_read")
			assert.Equal(t, true, fields[model.FieldIsRead])

			return nil
		})

	assert.NoError(t, f.svc.MarkAllRead(userContext("user-1")))
}
