package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"gamasa/config"
	"gamasa/infras/otel/mocks"
	favoriteMocks "gamasa/internal/domains/favorite/mocks"
	"gamasa/internal/domains/favorite/model"
	"gamasa/internal/domains/favorite/service"
	propertyMocks "gamasa/internal/domains/property/mocks"
	cacheMocks "gamasa/shared/cache/mocks"
	"gamasa/shared/constant"
	gDto "gamasa/shared/dto"
	"gamasa/shared/failure"
)

const propertyID = "6f1c2b8e-3a4d-4c5e-9f60-718293a4b5c6"

type fixture struct {
	repo       *favoriteMocks.MockFavorite
	properties *propertyMocks.MockProperty
	cache      *cacheMocks.MockRedisCache
	svc        service.Favorite
}

func newFixture(t *testing.T) fixture {
	ctrl := gomock.NewController(t)

	f := fixture{
		repo:       favoriteMocks.NewMockFavorite(ctrl),
		properties: propertyMocks.NewMockProperty(ctrl),
		cache:      cacheMocks.NewMockRedisCache(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	f.svc = service.New(f.repo, f.properties, cfg, f.cache, mocks.NewOtel())

	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return f
}

func tenantContext() context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "tenant-1")

	return context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleUser)
}

func TestFavoriteService_Add(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(f fixture)
		wantCode  int
	}{
		{
			name: "success",
			setupMock: func(f fixture) {
				f.properties.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, fav model.Favorite) error {
					assert.Equal(t, "tenant-1", fav.UserID)
					assert.Equal(t, propertyID, fav.PropertyID)

					return nil
				})
			},
		},
		{
			name: "property missing",
			setupMock: func(f fixture) {
				f.properties.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantCode: 404,
		},
		{
			name: "duplicate",
			setupMock: func(f fixture) {
				f.properties.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantCode: 409,
		},
		{
			name: "concurrent duplicate",
			setupMock: func(f fixture) {
				f.properties.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(&pq.Error{Code: "23505"})
			},
			wantCode: 409,
		},
		{
			name: "insert error",
			setupMock: func(f fixture) {
				f.properties.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("database error"))
			},
			wantCode: 500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			err := f.svc.Add(tenantContext(), propertyID)

			if tt.wantCode != 0 {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestFavoriteService_Remove(t *testing.T) {
	t.Run("removes saved property", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)

		assert.NoError(t, f.svc.Remove(tenantContext(), propertyID))
	})

	t.Run("not saved", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

		err := f.svc.Remove(tenantContext(), propertyID)
		assert.Equal(t, 404, failure.GetCode(err))
	})
}

func TestFavoriteService_GetMine(t *testing.T) {
	title := "شقة"

	f := newFixture(t)
	f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
	f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
	f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Favorite{
		{ID: "fav-1", PropertyID: propertyID, PropertyTitle: &title, PropertyImages: []string{"https://cdn.example.com/a.jpg", "https://cdn.example.com/b.jpg"}},
	}, nil)

	res, err := f.svc.GetMine(tenantContext(), gDto.QueryParams{Page: 1, Limit: 10})

	assert.NoError(t, err)
	assert.Len(t, res.Favorites, 1)
	assert.Equal(t, "https://cdn.example.com/a.jpg", *res.Favorites[0].CoverImage)
}

func TestFavoriteService_IsFavorite(t *testing.T) {
	f := newFixture(t)
	f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)

	res, err := f.svc.IsFavorite(tenantContext(), propertyID)

	assert.NoError(t, err)
	assert.True(t, res.Favorite)
}
