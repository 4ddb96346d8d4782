package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"gamasa/config"
	"gamasa/infras/otel/mocks"
	s3Mocks "gamasa/infras/s3/mocks"
	notificationMocks "gamasa/internal/domains/notification/mocks"
	paymentMocks "gamasa/internal/domains/payment/mocks"
	propertyMocks "gamasa/internal/domains/property/mocks"
	"gamasa/internal/domains/property/model"
	"gamasa/internal/domains/property/model/dto"
	"gamasa/internal/domains/property/service"
	cacheMocks "gamasa/shared/cache/mocks"
	"gamasa/shared/constant"
	gDto "gamasa/shared/dto"
	"gamasa/shared/failure"
)

var errCacheMiss = errors.New("cache miss")

type fixture struct {
	repo      *propertyMocks.MockProperty
	unlocks   *paymentMocks.MockUnlock
	storage   *s3Mocks.MockS3
	publisher *notificationMocks.MockPublisher
	cache     *cacheMocks.MockRedisCache
	svc       service.Property
}

func newFixture(t *testing.T) fixture {
	ctrl := gomock.NewController(t)

	f := fixture{
		repo:      propertyMocks.NewMockProperty(ctrl),
		unlocks:   paymentMocks.NewMockUnlock(ctrl),
		storage:   s3Mocks.NewMockS3(ctrl),
		publisher: notificationMocks.NewMockPublisher(ctrl),
		cache:     cacheMocks.NewMockRedisCache(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	f.svc = service.New(f.repo, f.unlocks, f.storage, f.publisher, cfg, f.cache, mocks.NewOtel())

	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.repo.EXPECT().IncrementViews(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return f
}

func userContext(userID, role string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, userID)

	return context.WithValue(ctx, constant.ContextKeyUserRole, role)
}

func sampleProperty(status string) model.Property {
	name := "Owner Name"
	phone := "01012345678"

	return model.Property{
		ID:           "property-1",
		OwnerID:      "owner-1",
		Title:        "شقة على البحر",
		Description:  "شقة مفروشة بالكامل قريبة من الشاطئ",
		PropertyType: "apartment",
		City:         "جمصة",
		Area:         "المنطقة الأولى",
		Price:        500,
		PricePeriod:  model.PeriodDaily,
		Bedrooms:     2,
		Status:       status,
		OwnerName:    &name,
		OwnerPhone:   &phone,
	}
}

func TestPropertyService_Create(t *testing.T) {
	lat, lng := 31.45, 31.53

	validReq := dto.CreatePropertyRequest{
		Title:        "شقة على البحر",
		Description:  "شقة مفروشة بالكامل قريبة من الشاطئ",
		PropertyType: "apartment",
		City:         "جمصة",
		Area:         "المنطقة الأولى",
		Price:        500,
		PricePeriod:  model.PeriodDaily,
		Latitude:     &lat,
		Longitude:    &lng,
	}

	tests := []struct {
		name      string
		req       dto.CreatePropertyRequest
		setupMock func(f fixture)
		wantCode  int
	}{
		{
			name: "success notifies admins",
			req:  validReq,
			setupMock: func(f fixture) {
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, p model.Property) error {
					assert.Equal(t, model.StatusPending, p.Status)
					assert.Equal(t, "owner-1", p.OwnerID)
					assert.NotNil(t, p.Geohash)
					assert.NotEmpty(t, p.SearchText)

					return nil
				})
				f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "latitude without longitude",
			req: func() dto.CreatePropertyRequest {
				r := validReq
				r.Longitude = nil

				return r
			}(),
			setupMock: func(_ fixture) {},
			wantCode:  400,
		},
		{
			name: "repository error",
			req:  validReq,
			setupMock: func(f fixture) {
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("database error"))
			},
			wantCode: 500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Create(userContext("owner-1", constant.RoleOwner), tt.req)

			if tt.wantCode != 0 {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, model.StatusPending, res.Status)
			assert.NotEmpty(t, res.ID)
		})
	}
}

func TestPropertyService_Search(t *testing.T) {
	tests := []struct {
		name      string
		req       dto.SearchRequest
		setupMock func(f fixture)
		wantCode  int
		wantTotal int
	}{
		{
			name: "only available listings are searched",
			req:  dto.SearchRequest{Status: model.StatusPending, City: "جمصة"},
			setupMock: func(f fixture) {
				f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errCacheMiss).Times(2)
				f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
				f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, params gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.Property, error) {
						where, args := filter.GetWhereClause()
						assert.Contains(t, where, "properties.status")
						assert.Equal(t, model.StatusAvailable, args[model.FieldStatus])
						assert.Equal(t, "properties.created_at", params.SortBy)

						return []model.Property{sampleProperty(model.StatusAvailable)}, nil
					})
			},
			wantTotal: 1,
		},
		{
			name: "inverted price range",
			req: func() dto.SearchRequest {
				minPrice, maxPrice := 900.0, 100.0

				return dto.SearchRequest{MinPrice: &minPrice, MaxPrice: &maxPrice}
			}(),
			setupMock: func(_ fixture) {},
			wantCode:  400,
		},
		{
			name: "count error",
			req:  dto.SearchRequest{},
			setupMock: func(f fixture) {
				f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errCacheMiss).Times(2)
				f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, errors.New("database error"))
			},
			wantCode: 500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Search(context.Background(), gDto.QueryParams{Page: 1, Limit: 10}, tt.req)

			if tt.wantCode != 0 {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.wantTotal, res.TotalData)
			assert.Len(t, res.Properties, tt.wantTotal)
		})
	}
}

func TestPropertyService_Get(t *testing.T) {
	tests := []struct {
		name      string
		ctx       context.Context
		setupMock func(f fixture)
		wantCode  int
	}{
		{
			name: "available property is public",
			ctx:  context.Background(),
			setupMock: func(f fixture) {
				f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errCacheMiss)
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(sampleProperty(model.StatusAvailable), nil)
			},
		},
		{
			name: "cache hit",
			ctx:  context.Background(),
			setupMock: func(f fixture) {
				f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, _ string, dest any) error {
					res := dest.(*dto.PropertyResponse)
					res.FromModel(sampleProperty(model.StatusAvailable))

					return nil
				})
			},
		},
		{
			name: "pending property hidden from strangers",
			ctx:  userContext("user-2", constant.RoleUser),
			setupMock: func(f fixture) {
				f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errCacheMiss)
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(sampleProperty(model.StatusPending), nil)
			},
			wantCode: 404,
		},
		{
			name: "pending property visible to owner",
			ctx:  userContext("owner-1", constant.RoleOwner),
			setupMock: func(f fixture) {
				f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errCacheMiss)
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(sampleProperty(model.StatusPending), nil)
			},
		},
		{
			name: "rejected property visible to admin",
			ctx:  userContext("admin-1", constant.RoleAdmin),
			setupMock: func(f fixture) {
				f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errCacheMiss)
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(sampleProperty(model.StatusRejected), nil)
			},
		},
		{
			name: "missing property",
			ctx:  context.Background(),
			setupMock: func(f fixture) {
				f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errCacheMiss)
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Property{}, nil)
			},
			wantCode: 404,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Get(tt.ctx, "property-1")

			if tt.wantCode != 0 {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, "property-1", res.ID)
		})
	}
}

func TestPropertyService_Update(t *testing.T) {
	tests := []struct {
		name      string
		ctx       context.Context
		req       dto.UpdatePropertyRequest
		setupMock func(f fixture)
		wantCode  int
	}{
		{
			name: "owner edits rejected listing and it returns to review",
			ctx:  userContext("owner-1", constant.RoleOwner),
			req:  dto.UpdatePropertyRequest{Title: "شقة جديدة على البحر"},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(sampleProperty(model.StatusRejected), nil)
				f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
					assert.Equal(t, model.StatusPending, fields[model.FieldStatus])
					assert.Contains(t, fields, model.FieldRejectionReason)
					assert.Contains(t, fields[model.FieldSearchText], "شقه جديده")

					return nil
				})
			},
		},
		{
			name: "owner marks listing rented",
			ctx:  userContext("owner-1", constant.RoleOwner),
			req:  dto.UpdatePropertyRequest{Status: model.StatusRented},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(sampleProperty(model.StatusAvailable), nil)
				f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
					assert.Equal(t, model.StatusRented, fields[model.FieldStatus])

					return nil
				})
			},
		},
		{
			name: "status change on pending listing",
			ctx:  userContext("owner-1", constant.RoleOwner),
			req:  dto.UpdatePropertyRequest{Status: model.StatusAvailable},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(sampleProperty(model.StatusPending), nil)
			},
			wantCode: 409,
		},
		{
			name: "not the owner",
			ctx:  userContext("owner-2", constant.RoleOwner),
			req:  dto.UpdatePropertyRequest{Title: "عنوان آخر للعقار"},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(sampleProperty(model.StatusAvailable), nil)
			},
			wantCode: 403,
		},
		{
			name: "unpaired coordinates",
			ctx:  userContext("owner-1", constant.RoleOwner),
			req: func() dto.UpdatePropertyRequest {
				lat := 31.4

				return dto.UpdatePropertyRequest{Latitude: &lat}
			}(),
			setupMock: func(_ fixture) {},
			wantCode:  400,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			err := f.svc.Update(tt.ctx, "property-1", tt.req)

			if tt.wantCode != 0 {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestPropertyService_Delete(t *testing.T) {
	tests := []struct {
		name      string
		ctx       context.Context
		setupMock func(f fixture)
		wantCode  int
	}{
		{
			name: "admin deletes any listing",
			ctx:  userContext("admin-1", constant.RoleAdmin),
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(sampleProperty(model.StatusAvailable), nil)
				f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "stranger cannot delete",
			ctx:  userContext("user-2", constant.RoleUser),
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(sampleProperty(model.StatusAvailable), nil)
			},
			wantCode: 403,
		},
		{
			name: "repository error",
			ctx:  userContext("owner-1", constant.RoleOwner),
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(sampleProperty(model.StatusAvailable), nil)
				f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(errors.New("database error"))
			},
			wantCode: 500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			err := f.svc.Delete(tt.ctx, "property-1")

			if tt.wantCode != 0 {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestPropertyService_GetContact(t *testing.T) {
	tests := []struct {
		name      string
		ctx       context.Context
		setupMock func(f fixture)
		wantCode  int
	}{
		{
			name: "unlocked tenant sees phone",
			ctx:  userContext("user-2", constant.RoleUser),
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(sampleProperty(model.StatusAvailable), nil)
				f.unlocks.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
		},
		{
			name: "owner sees own phone",
			ctx:  userContext("owner-1", constant.RoleOwner),
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(sampleProperty(model.StatusAvailable), nil)
			},
		},
		{
			name: "locked property requires payment",
			ctx:  userContext("user-2", constant.RoleUser),
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(sampleProperty(model.StatusAvailable), nil)
				f.unlocks.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantCode: 402,
		},
		{
			name: "unlock lookup error",
			ctx:  userContext("user-2", constant.RoleUser),
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(sampleProperty(model.StatusAvailable), nil)
				f.unlocks.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, errors.New("database error"))
			},
			wantCode: 500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.GetContact(tt.ctx, "property-1")

			if tt.wantCode != 0 {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, "01012345678", res.Phone)
			assert.Equal(t, "owner-1", res.OwnerID)
		})
	}
}

func TestPropertyService_Moderation(t *testing.T) {
	admin := userContext("admin-1", constant.RoleAdmin)

	t.Run("approve pending listing", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(sampleProperty(model.StatusPending), nil)
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
			assert.Equal(t, model.StatusAvailable, fields[model.FieldStatus])

			return nil
		})
		f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

		assert.NoError(t, f.svc.Approve(admin, "property-1"))
	})

	t.Run("reject stores reason", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(sampleProperty(model.StatusPending), nil)
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
			assert.Equal(t, model.StatusRejected, fields[model.FieldStatus])
			assert.Equal(t, "صور غير واضحة", *fields[model.FieldRejectionReason].(*string))

			return nil
		})
		f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

		assert.NoError(t, f.svc.Reject(admin, "property-1", dto.RejectRequest{Reason: "صور غير واضحة"}))
	})

	t.Run("approve already approved listing", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(sampleProperty(model.StatusAvailable), nil)

		err := f.svc.Approve(admin, "property-1")
		assert.Error(t, err)
		assert.Equal(t, 409, failure.GetCode(err))
	})

	t.Run("publisher failure does not fail approval", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(sampleProperty(model.StatusPending), nil)
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(errors.New("broker down"))

		assert.NoError(t, f.svc.Approve(admin, "property-1"))
	})
}
