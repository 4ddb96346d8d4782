package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"gamasa/config"
	"gamasa/infras/otel/mocks"
	adminMocks "gamasa/internal/domains/admin/mocks"
	"gamasa/internal/domains/admin/model/dto"
	"gamasa/internal/domains/admin/service"
	cacheMocks "gamasa/shared/cache/mocks"
)

func TestAdminService_Stats(t *testing.T) {
	counts := map[string]map[string]int{
		"profiles":         {"user": 10, "owner": 4, "admin": 1},
		"properties":       {"pending": 2, "available": 7, "rented": 1},
		"bookings":         {"confirmed": 3, "pending": 1},
		"payment_requests": {"pending": 5, "used": 2},
	}

	t.Run("computes breakdowns on cache miss", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := adminMocks.NewMockStats(ctrl)
		redis := cacheMocks.NewMockRedisCache(ctrl)

		redis.EXPECT().Get(gomock.Any(), "admin:stats", gomock.Any()).Return(errors.New("cache miss"))
		redis.EXPECT().Save(gomock.Any(), "admin:stats", gomock.Any(), 60).Return(nil).AnyTimes()
		repo.EXPECT().GroupCount(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, table, _ string) (map[string]int, error) {
				return counts[table], nil
			}).Times(4)

		res, err := service.New(repo, &config.Config{}, redis, mocks.NewOtel()).Stats(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, 15, res.Profiles.Total)
		assert.Equal(t, 7, res.Properties.By["available"])
		assert.Equal(t, 4, res.Bookings.Total)
		assert.Equal(t, 5, res.PendingPayments)
		assert.NotEmpty(t, res.GeneratedAt)
	})

	t.Run("cache hit", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := adminMocks.NewMockStats(ctrl)
		redis := cacheMocks.NewMockRedisCache(ctrl)

		redis.EXPECT().Get(gomock.Any(), "admin:stats", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, value any) error {
				*(value.(*dto.StatsResponse)) = dto.StatsResponse{PendingPayments: 9}

				return nil
			})

		res, err := service.New(repo, &config.Config{}, redis, mocks.NewOtel()).Stats(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, 9, res.PendingPayments)
	})

	t.Run("repository error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := adminMocks.NewMockStats(ctrl)
		redis := cacheMocks.NewMockRedisCache(ctrl)

		redis.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
		repo.EXPECT().GroupCount(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("database error")).MinTimes(1).MaxTimes(4)

		_, err := service.New(repo, &config.Config{}, redis, mocks.NewOtel()).Stats(context.Background())

		assert.Error(t, err)
	})
}

func TestNewBreakdown(t *testing.T) {
	breakdown := dto.NewBreakdown(nil)

	assert.Equal(t, 0, breakdown.Total)
	assert.NotNil(t, breakdown.By)
}
