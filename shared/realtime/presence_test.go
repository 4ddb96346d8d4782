package realtime_test

import (
	"context"
	"errors"
	"testing"

	"gamasa/config"
	cacheMocks "gamasa/shared/cache/mocks"
	"gamasa/shared/realtime"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestPresence_Touch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	cfg := &config.Config{}
	cfg.Chat.PresenceTTLSeconds = 30

	presence := realtime.NewPresence(mockCache, cfg)

	mockCache.EXPECT().Save(gomock.Any(), "presence:user-1", gomock.Any(), 30).Return(nil)
	assert.NoError(t, presence.Touch(context.Background(), "user-1"))

	mockCache.EXPECT().Save(gomock.Any(), "presence:user-1", gomock.Any(), 30).Return(errors.New("down"))
	assert.Error(t, presence.Touch(context.Background(), "user-1"))
}

func TestPresence_Leave(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	presence := realtime.NewPresence(mockCache, &config.Config{})

	gomock.InOrder(
		mockCache.EXPECT().Save(gomock.Any(), "last_seen:user-1", gomock.Any(), gomock.Any()).Return(nil),
		mockCache.EXPECT().Delete(gomock.Any(), "presence:user-1").Return(nil),
	)

	assert.NoError(t, presence.Leave(context.Background(), "user-1"))
}

func TestPresence_Status(t *testing.T) {
	tests := []struct {
		name         string
		setupMock    func(mockCache *cacheMocks.MockRedisCache)
		wantOnline   bool
		wantLastSeen bool
	}{
		{
			name: "online",
			setupMock: func(mockCache *cacheMocks.MockRedisCache) {
				mockCache.EXPECT().Get(gomock.Any(), "presence:user-1", gomock.Any()).Return(nil)
			},
			wantOnline: true,
		},
		{
			name: "offline with last seen",
			setupMock: func(mockCache *cacheMocks.MockRedisCache) {
				mockCache.EXPECT().Get(gomock.Any(), "presence:user-1", gomock.Any()).Return(errors.New("nil"))
				mockCache.EXPECT().Get(gomock.Any(), "last_seen:user-1", gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, value any) error {
						*(value.(*string)) = "2025-07-01T10:00:00Z"

						return nil
					})
			},
			wantLastSeen: true,
		},
		{
			name: "never seen",
			setupMock: func(mockCache *cacheMocks.MockRedisCache) {
				mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("nil")).Times(2)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockCache := cacheMocks.NewMockRedisCache(ctrl)
			tt.setupMock(mockCache)

			status, err := realtime.NewPresence(mockCache, &config.Config{}).Status(context.Background(), "user-1")

			assert.NoError(t, err)
			assert.Equal(t, "user-1", status.UserID)
			assert.Equal(t, tt.wantOnline, status.Online)
			assert.Equal(t, tt.wantLastSeen, status.LastSeen != nil)
		})
	}
}
