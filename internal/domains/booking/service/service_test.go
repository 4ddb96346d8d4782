package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"gamasa/config"
	"gamasa/infras/otel/mocks"
	bookingMocks "gamasa/internal/domains/booking/mocks"
	"gamasa/internal/domains/booking/model"
	"gamasa/internal/domains/booking/model/dto"
	"gamasa/internal/domains/booking/service"
	notificationMocks "gamasa/internal/domains/notification/mocks"
	notificationDto "gamasa/internal/domains/notification/model/dto"
	propertyMocks "gamasa/internal/domains/property/mocks"
	propertyModel "gamasa/internal/domains/property/model"
	cacheMocks "gamasa/shared/cache/mocks"
	"gamasa/shared/constant"
	gDto "gamasa/shared/dto"
	"gamasa/shared/failure"
	"gamasa/shared/timezone"
)

const propertyID = "6f1c2b8e-3a4d-4c5e-9f60-718293a4b5c6"

var errCacheMiss = errors.New("cache miss")

type fixture struct {
	repo       *bookingMocks.MockBooking
	properties *propertyMocks.MockProperty
	publisher  *notificationMocks.MockPublisher
	cache      *cacheMocks.MockRedisCache
	svc        service.Booking
}

func newFixture(t *testing.T) fixture {
	ctrl := gomock.NewController(t)

	f := fixture{
		repo:       bookingMocks.NewMockBooking(ctrl),
		properties: propertyMocks.NewMockProperty(ctrl),
		publisher:  notificationMocks.NewMockPublisher(ctrl),
		cache:      cacheMocks.NewMockRedisCache(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	f.svc = service.New(f.repo, f.properties, f.publisher, cfg, f.cache, mocks.NewOtel())

	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return f
}

func userContext(userID, role string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, userID)

	return context.WithValue(ctx, constant.ContextKeyUserRole, role)
}

func day(offset int) string {
	return timezone.Now().AddDate(0, 0, offset).Format(constant.DateOnlyFormat)
}

func availableProperty() propertyModel.Property {
	maxGuests := 4

	return propertyModel.Property{
		ID:          propertyID,
		OwnerID:     "owner-1",
		Title:       "شاليه جمصة",
		Price:       300,
		PricePeriod: propertyModel.PeriodDaily,
		MaxGuests:   &maxGuests,
		Status:      propertyModel.StatusAvailable,
	}
}

func sampleBooking(status string) model.Booking {
	checkIn := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	return model.Booking{
		ID:         "booking-1",
		PropertyID: propertyID,
		TenantID:   "tenant-1",
		OwnerID:    "owner-1",
		CheckIn:    checkIn,
		CheckOut:   checkIn.AddDate(0, 0, 3),
		Guests:     2,
		TotalPrice: 900,
		Status:     status,
	}
}

func TestBookingService_Create(t *testing.T) {
	validReq := dto.CreateBookingRequest{PropertyID: propertyID, CheckIn: day(2), CheckOut: day(5), Guests: 2}

	tests := []struct {
		name      string
		ctx       context.Context
		req       dto.CreateBookingRequest
		setupMock func(f fixture)
		wantCode  int
		wantPrice float64
	}{
		{
			name: "success prices three nights",
			ctx:  userContext("tenant-1", constant.RoleUser),
			req:  validReq,
			setupMock: func(f fixture) {
				f.properties.EXPECT().Get(gomock.Any(), gomock.Any()).Return(availableProperty(), nil)
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) (bool, error) {
					_, args := filter.GetWhereClause()
					assert.Equal(t, model.StatusConfirmed, args[model.FieldStatus])
					assert.Contains(t, args, "requested_check_in")
					assert.Contains(t, args, "requested_check_out")

					return false, nil
				})
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
				f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, events ...notificationDto.NotificationEvent) error {
					assert.Equal(t, "owner-1", events[0].UserID)

					return nil
				})
			},
			wantPrice: 900,
		},
		{
			name:      "check out before check in",
			ctx:       userContext("tenant-1", constant.RoleUser),
			req:       dto.CreateBookingRequest{PropertyID: propertyID, CheckIn: day(5), CheckOut: day(5), Guests: 1},
			setupMock: func(_ fixture) {},
			wantCode:  400,
		},
		{
			name:      "check in in the past",
			ctx:       userContext("tenant-1", constant.RoleUser),
			req:       dto.CreateBookingRequest{PropertyID: propertyID, CheckIn: day(-1), CheckOut: day(2), Guests: 1},
			setupMock: func(_ fixture) {},
			wantCode:  400,
		},
		{
			name: "owner books own property",
			ctx:  userContext("owner-1", constant.RoleOwner),
			req:  validReq,
			setupMock: func(f fixture) {
				f.properties.EXPECT().Get(gomock.Any(), gomock.Any()).Return(availableProperty(), nil)
			},
			wantCode: 400,
		},
		{
			name: "property not available",
			ctx:  userContext("tenant-1", constant.RoleUser),
			req:  validReq,
			setupMock: func(f fixture) {
				p := availableProperty()
				p.Status = propertyModel.StatusRented
				f.properties.EXPECT().Get(gomock.Any(), gomock.Any()).Return(p, nil)
			},
			wantCode: 409,
		},
		{
			name: "too many guests",
			ctx:  userContext("tenant-1", constant.RoleUser),
			req:  dto.CreateBookingRequest{PropertyID: propertyID, CheckIn: day(2), CheckOut: day(5), Guests: 5},
			setupMock: func(f fixture) {
				f.properties.EXPECT().Get(gomock.Any(), gomock.Any()).Return(availableProperty(), nil)
			},
			wantCode: 400,
		},
		{
			name: "dates overlap a confirmed booking",
			ctx:  userContext("tenant-1", constant.RoleUser),
			req:  validReq,
			setupMock: func(f fixture) {
				f.properties.EXPECT().Get(gomock.Any(), gomock.Any()).Return(availableProperty(), nil)
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantCode: 409,
		},
		{
			name: "property missing",
			ctx:  userContext("tenant-1", constant.RoleUser),
			req:  validReq,
			setupMock: func(f fixture) {
				f.properties.EXPECT().Get(gomock.Any(), gomock.Any()).Return(propertyModel.Property{}, nil)
			},
			wantCode: 404,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Create(tt.ctx, tt.req)

			if tt.wantCode != 0 {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, model.StatusPending, res.Status)
			assert.InDelta(t, tt.wantPrice, res.TotalPrice, 0.001)
			assert.Equal(t, 3, res.Nights)
		})
	}
}

func TestBookingService_UpdateStatus(t *testing.T) {
	tests := []struct {
		name          string
		ctx           context.Context
		current       string
		to            string
		setupMock     func(f fixture)
		wantCode      int
		wantRecipient string
	}{
		{
			name:    "owner confirms",
			ctx:     userContext("owner-1", constant.RoleOwner),
			current: model.StatusPending,
			to:      model.StatusConfirmed,
			setupMock: func(f fixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
			wantRecipient: "tenant-1",
		},
		{
			name:    "owner confirm blocked by overlap",
			ctx:     userContext("owner-1", constant.RoleOwner),
			current: model.StatusPending,
			to:      model.StatusConfirmed,
			setupMock: func(f fixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantCode: 409,
		},
		{
			name:    "tenant cancels",
			ctx:     userContext("tenant-1", constant.RoleUser),
			current: model.StatusConfirmed,
			to:      model.StatusCancelled,
			setupMock: func(f fixture) {
				f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
					assert.Equal(t, model.StatusCancelled, fields[model.FieldStatus])

					return nil
				})
			},
			wantRecipient: "owner-1",
		},
		{
			name:      "tenant cannot confirm",
			ctx:       userContext("tenant-1", constant.RoleUser),
			current:   model.StatusPending,
			to:        model.StatusConfirmed,
			setupMock: func(_ fixture) {},
			wantCode:  409,
		},
		{
			name:      "stranger",
			ctx:       userContext("someone", constant.RoleUser),
			current:   model.StatusPending,
			to:        model.StatusCancelled,
			setupMock: func(_ fixture) {},
			wantCode:  404,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(sampleBooking(tt.current), nil)
			tt.setupMock(f)

			if tt.wantRecipient != "" {
				f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, events ...notificationDto.NotificationEvent) error {
					assert.Equal(t, tt.wantRecipient, events[0].UserID)

					return nil
				})
			}

			err := f.svc.UpdateStatus(tt.ctx, "booking-1", dto.UpdateStatusRequest{Status: tt.to})

			if tt.wantCode != 0 {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestBookingService_Get(t *testing.T) {
	tests := []struct {
		name     string
		ctx      context.Context
		wantCode int
	}{
		{name: "tenant", ctx: userContext("tenant-1", constant.RoleUser)},
		{name: "owner", ctx: userContext("owner-1", constant.RoleOwner)},
		{name: "admin", ctx: userContext("admin-1", constant.RoleAdmin)},
		{name: "stranger", ctx: userContext("someone", constant.RoleUser), wantCode: 404},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errCacheMiss)
			f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(sampleBooking(model.StatusPending), nil)

			res, err := f.svc.Get(tt.ctx, "booking-1")

			if tt.wantCode != 0 {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, "2026-08-01", res.CheckIn)
		})
	}
}

func TestBookingService_GetForOwner(t *testing.T) {
	f := newFixture(t)
	f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errCacheMiss).Times(2)
	f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
	f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.Booking, error) {
			_, args := filter.GetWhereClause()
			assert.Equal(t, "owner-1", args[model.FieldOwnerID])
			assert.Equal(t, model.StatusPending, args[model.FieldStatus])

			return []model.Booking{sampleBooking(model.StatusPending)}, nil
		})

	res, err := f.svc.GetForOwner(userContext("owner-1", constant.RoleOwner), gDto.QueryParams{Page: 1, Limit: 10}, model.StatusPending)

	assert.NoError(t, err)
	assert.Len(t, res.Bookings, 1)
}
