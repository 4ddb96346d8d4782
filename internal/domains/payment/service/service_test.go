package service_test

import (
	"context"
	"errors"
	"mime/multipart"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"gamasa/config"
	"gamasa/infras/otel/mocks"
	s3Mocks "gamasa/infras/s3/mocks"
	notificationMocks "gamasa/internal/domains/notification/mocks"
	paymentMocks "gamasa/internal/domains/payment/mocks"
	"gamasa/internal/domains/payment/model"
	"gamasa/internal/domains/payment/model/dto"
	"gamasa/internal/domains/payment/service"
	propertyMocks "gamasa/internal/domains/property/mocks"
	propertyModel "gamasa/internal/domains/property/model"
	cacheMocks "gamasa/shared/cache/mocks"
	"gamasa/shared/constant"
	gDto "gamasa/shared/dto"
	"gamasa/shared/failure"
	repoMocks "gamasa/shared/repository/mocks"
)

const (
	propertyID = "6f1c2b8e-3a4d-4c5e-9f60-718293a4b5c6"
	paymentID  = "0d9e8f7a-6b5c-4d3e-8f21-0a1b2c3d4e5f"
	tenantID   = "tenant-1"
)

type fixture struct {
	repo       *paymentMocks.MockPayment
	unlocks    *paymentMocks.MockUnlock
	properties *propertyMocks.MockProperty
	transactor *repoMocks.MockTransactor
	storage    *s3Mocks.MockS3
	publisher  *notificationMocks.MockPublisher
	cache      *cacheMocks.MockRedisCache
	svc        service.Payment
}

func newFixture(t *testing.T) fixture {
	ctrl := gomock.NewController(t)

	f := fixture{
		repo:       paymentMocks.NewMockPayment(ctrl),
		unlocks:    paymentMocks.NewMockUnlock(ctrl),
		properties: propertyMocks.NewMockProperty(ctrl),
		transactor: repoMocks.NewMockTransactor(ctrl),
		storage:    s3Mocks.NewMockS3(ctrl),
		publisher:  notificationMocks.NewMockPublisher(ctrl),
		cache:      cacheMocks.NewMockRedisCache(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.Marketplace.MinPaymentAmount = 50
	cfg.Marketplace.UnlockFee = 100

	f.svc = service.New(f.repo, f.unlocks, f.properties, f.transactor, f.storage, f.publisher, cfg, f.cache, mocks.NewOtel())

	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return f
}

func userContext(userID, role string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, userID)

	return context.WithValue(ctx, constant.ContextKeyUserRole, role)
}

func existingProperty() propertyModel.Property {
	return propertyModel.Property{ID: propertyID, OwnerID: "owner-1", Title: "شاليه جمصة"}
}

func approvedPayment(amount float64) model.Payment {
	return model.Payment{ID: paymentID, UserID: tenantID, PropertyID: propertyID, Amount: amount, Status: model.StatusApproved}
}

func runInTx(f fixture) {
	f.transactor.EXPECT().WithTransaction(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, fn func(tx *sqlx.Tx) error) error {
		return fn(nil)
	})
}

func TestPaymentService_Create(t *testing.T) {
	validReq := dto.CreatePaymentRequest{
		PropertyID:    propertyID,
		Amount:        100,
		PaymentMethod: model.MethodVodafoneCash,
		ReceiptURL:    "https://cdn.example.com/receipts/r.png",
	}

	tests := []struct {
		name      string
		req       dto.CreatePaymentRequest
		setupMock func(f fixture)
		wantCode  int
		wantMsg   string
	}{
		{
			name: "amount below minimum",
			req: func() dto.CreatePaymentRequest {
				r := validReq
				r.Amount = 49.99

				return r
			}(),
			setupMock: func(_ fixture) {},
			wantCode:  400,
			wantMsg:   "payment amount must be at least 50",
		},
		{
			name: "missing receipt image",
			req: func() dto.CreatePaymentRequest {
				r := validReq
				r.ReceiptURL = ""

				return r
			}(),
			setupMock: func(_ fixture) {},
			wantCode:  400,
			wantMsg:   "payment receipt image is required",
		},
		{
			name: "property does not exist",
			req:  validReq,
			setupMock: func(f fixture) {
				f.properties.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(propertyModel.Property{}, nil)
			},
			wantCode: 404,
		},
		{
			name: "property already unlocked",
			req:  validReq,
			setupMock: func(f fixture) {
				f.properties.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(existingProperty(), nil)
				f.unlocks.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantCode: 409,
		},
		{
			name: "duplicate pending request",
			req:  validReq,
			setupMock: func(f fixture) {
				f.properties.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(existingProperty(), nil)
				f.unlocks.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) (bool, error) {
					_, args := filter.GetWhereClause()
					assert.Equal(t, model.StatusPending, args[model.FieldStatus])

					return true, nil
				})
			},
			wantCode: 409,
			wantMsg:  "a pending payment request already exists for this property",
		},
		{
			name: "pending request inserted concurrently",
			req:  validReq,
			setupMock: func(f fixture) {
				f.properties.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(existingProperty(), nil)
				f.unlocks.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(&pq.Error{Code: "23505"})
			},
			wantCode: 409,
			wantMsg:  "a pending payment request already exists for this property",
		},
		{
			name: "success with receipt url",
			req:  validReq,
			setupMock: func(f fixture) {
				f.properties.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(existingProperty(), nil)
				f.unlocks.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, p model.Payment) error {
					assert.Equal(t, model.StatusPending, p.Status)
					assert.Equal(t, tenantID, p.UserID)
					assert.Equal(t, validReq.ReceiptURL, p.ReceiptURL)

					return nil
				})
				f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "success with uploaded receipt",
			req: func() dto.CreatePaymentRequest {
				r := validReq
				r.ReceiptURL = ""
				r.Receipt = &multipart.FileHeader{Filename: "receipt.png"}

				return r
			}(),
			setupMock: func(f fixture) {
				f.properties.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(existingProperty(), nil)
				f.unlocks.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				f.storage.EXPECT().UploadFile(gomock.Any(), "receipts", gomock.Any(), gomock.Any()).Return("https://cdn.example.com/receipts/new.png", nil)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
				f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "receipt upload error",
			req: func() dto.CreatePaymentRequest {
				r := validReq
				r.ReceiptURL = ""
				r.Receipt = &multipart.FileHeader{Filename: "receipt.png"}

				return r
			}(),
			setupMock: func(f fixture) {
				f.properties.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(existingProperty(), nil)
				f.unlocks.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				f.storage.EXPECT().UploadFile(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("", errors.New("s3 down"))
			},
			wantCode: 500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Create(userContext(tenantID, constant.RoleUser), tt.req)

			if tt.wantCode != 0 {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				if tt.wantMsg != "" {
					assert.EqualError(t, err, tt.wantMsg)
				}

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, model.StatusPending, res.Status)
			assert.NotEmpty(t, res.ReceiptURL)
		})
	}
}

func TestPaymentService_Unlock(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(f fixture)
		wantCode  int
		wantMsg   string
	}{
		{
			name: "no approved payment",
			setupMock: func(f fixture) {
				f.properties.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(existingProperty(), nil)
				f.unlocks.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Payment{}, nil)
			},
			wantCode: 402,
			wantMsg:  "no approved payment found",
		},
		{
			name: "approved amount below unlock fee",
			setupMock: func(f fixture) {
				f.properties.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(existingProperty(), nil)
				f.unlocks.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(approvedPayment(60), nil)
			},
			wantCode: 402,
			wantMsg:  "payment amount is below the required unlock fee",
		},
		{
			name: "property missing",
			setupMock: func(f fixture) {
				f.properties.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(propertyModel.Property{}, nil)
			},
			wantCode: 404,
		},
		{
			name: "already unlocked is a no-op",
			setupMock: func(f fixture) {
				f.properties.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(existingProperty(), nil)
				f.unlocks.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
		},
		{
			name: "consumes payment and records unlock",
			setupMock: func(f fixture) {
				f.properties.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(existingProperty(), nil)
				f.unlocks.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(approvedPayment(100), nil)
				runInTx(f)
				f.repo.EXPECT().UpdateTxAffected(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, _ *sqlx.Tx, fields map[string]any, filter gDto.FilterGroup) (bool, error) {
						_, args := filter.GetWhereClause()
						assert.Equal(t, model.StatusUsed, fields[model.FieldStatus])
						assert.Contains(t, fields, model.FieldUsedAt)
						assert.Equal(t, model.StatusApproved, args["current_status"])

						return true, nil
					})
				f.unlocks.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, _ *sqlx.Tx, u model.Unlock) error {
					assert.Equal(t, paymentID, u.PaymentID)
					assert.Equal(t, tenantID, u.UserID)

					return nil
				})
			},
		},
		{
			name: "payment consumed concurrently",
			setupMock: func(f fixture) {
				f.properties.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(existingProperty(), nil)
				f.unlocks.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(approvedPayment(100), nil)
				runInTx(f)
				f.repo.EXPECT().UpdateTxAffected(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantCode: 409,
		},
		{
			name: "unlock row inserted concurrently",
			setupMock: func(f fixture) {
				f.properties.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(existingProperty(), nil)
				f.unlocks.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(approvedPayment(100), nil)
				runInTx(f)
				f.repo.EXPECT().UpdateTxAffected(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil)
				f.unlocks.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(&pq.Error{Code: "23505"})
			},
			wantCode: 409,
		},
		{
			name: "transaction error",
			setupMock: func(f fixture) {
				f.properties.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(existingProperty(), nil)
				f.unlocks.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(approvedPayment(100), nil)
				f.transactor.EXPECT().WithTransaction(gomock.Any(), gomock.Any()).Return(errors.New("failed to begin transaction"))
			},
			wantCode: 500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Unlock(userContext(tenantID, constant.RoleUser), propertyID)

			if tt.wantCode != 0 {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				if tt.wantMsg != "" {
					assert.EqualError(t, err, tt.wantMsg)
				}

				return
			}

			assert.NoError(t, err)
			assert.True(t, res.Unlocked)
			assert.Equal(t, propertyID, res.PropertyID)
		})
	}
}

func TestPaymentService_Approve(t *testing.T) {
	admin := userContext("admin-1", constant.RoleAdmin)
	pending := model.Payment{ID: paymentID, UserID: tenantID, PropertyID: propertyID, Amount: 100, Status: model.StatusPending}

	t.Run("approval unlocks the property for the payer", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pending, nil)
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
			assert.Equal(t, model.StatusApproved, fields[model.FieldStatus])
			assert.Equal(t, "admin-1", fields[model.FieldReviewedBy])
			assert.Equal(t, "verified", fields[model.FieldAdminNote])

			return nil
		})
		f.properties.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(existingProperty(), nil)
		f.unlocks.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(approvedPayment(100), nil)
		runInTx(f)
		f.repo.EXPECT().UpdateTxAffected(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil)
		f.unlocks.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

		assert.NoError(t, f.svc.Approve(admin, paymentID, dto.ReviewPaymentRequest{Note: "verified"}))
	})

	t.Run("failed unlock reverts approval", func(t *testing.T) {
		f := newFixture(t)
		low := pending
		low.Amount = 60

		gomock.InOrder(
			f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(low, nil),
			f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil),
		)
		f.properties.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(existingProperty(), nil)
		f.unlocks.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(approvedPayment(60), nil)
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, fields map[string]any, filter gDto.FilterGroup) error {
			_, args := filter.GetWhereClause()
			assert.Equal(t, model.StatusPending, fields[model.FieldStatus])
			assert.Nil(t, fields[model.FieldReviewedBy])
			assert.Equal(t, model.StatusApproved, args["current_status"])

			return nil
		})

		err := f.svc.Approve(admin, paymentID, dto.ReviewPaymentRequest{})
		assert.Error(t, err)
		assert.Equal(t, 402, failure.GetCode(err))
	})

	t.Run("already reviewed", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(approvedPayment(100), nil)

		err := f.svc.Approve(admin, paymentID, dto.ReviewPaymentRequest{})
		assert.Error(t, err)
		assert.Equal(t, 409, failure.GetCode(err))
	})

	t.Run("missing payment", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Payment{}, nil)

		err := f.svc.Approve(admin, paymentID, dto.ReviewPaymentRequest{})
		assert.Error(t, err)
		assert.Equal(t, 404, failure.GetCode(err))
	})
}

func TestPaymentService_Reject(t *testing.T) {
	f := newFixture(t)
	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Payment{ID: paymentID, UserID: tenantID, Status: model.StatusPending}, nil)
	f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
		assert.Equal(t, model.StatusRejected, fields[model.FieldStatus])

		return nil
	})
	f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

	assert.NoError(t, f.svc.Reject(userContext("admin-1", constant.RoleAdmin), paymentID, dto.ReviewPaymentRequest{Note: "unreadable receipt"}))
}

func TestPaymentService_GetUnlocked(t *testing.T) {
	f := newFixture(t)
	f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
	f.unlocks.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any(), model.FieldPropertyID).Return([]model.Unlock{
		{PropertyID: propertyID},
		{PropertyID: "another-property"},
	}, nil)

	res, err := f.svc.GetUnlocked(userContext(tenantID, constant.RoleUser))

	assert.NoError(t, err)
	assert.Equal(t, []string{propertyID, "another-property"}, res.PropertyIDs)
}

func TestPaymentService_GetAll(t *testing.T) {
	f := newFixture(t)
	f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
	f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, params gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.Payment, error) {
			_, args := filter.GetWhereClause()
			assert.Equal(t, model.StatusPending, args[model.FieldStatus])
			assert.Equal(t, "payment_requests.created_at", params.SortBy)

			return []model.Payment{{ID: paymentID, Status: model.StatusPending}}, nil
		})

	res, err := f.svc.GetAll(userContext("admin-1", constant.RoleAdmin), gDto.QueryParams{Page: 1, Limit: 10}, model.StatusPending)

	assert.NoError(t, err)
	assert.Equal(t, 1, res.TotalData)
	assert.Len(t, res.Payments, 1)
}
