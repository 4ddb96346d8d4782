package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"

	"gamasa/config"
	"gamasa/infras/otel"
	"gamasa/infras/s3"
	notificationModel "gamasa/internal/domains/notification/model"
	notificationDto "gamasa/internal/domains/notification/model/dto"
	"gamasa/internal/domains/notification/publisher"
	"gamasa/internal/domains/payment/model"
	"gamasa/internal/domains/payment/model/dto"
	"gamasa/internal/domains/payment/repository"
	propertyModel "gamasa/internal/domains/property/model"
	propertyRepo "gamasa/internal/domains/property/repository"
	"gamasa/shared"
	"gamasa/shared/cache"
	"gamasa/shared/constant"
	gDto "gamasa/shared/dto"
	"gamasa/shared/failure"
	gRepo "gamasa/shared/repository"
	"gamasa/shared/timezone"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetUnlocked = "payment:unlocked"

	defaultMinPaymentAmount = 50
	defaultUnlockFee        = 50

	errMinimumAmountFormat = "payment amount must be at least %g"
)

var (
	ErrReceiptRequired   = failure.BadRequestFromString("payment receipt image is required")
	ErrAlreadyUnlocked   = failure.Conflict("property is already unlocked")
	ErrDuplicateRequest  = failure.Conflict("a pending payment request already exists for this property")
	ErrNoApprovedPayment = failure.PaymentRequired("no approved payment found")
	ErrBelowUnlockFee    = failure.PaymentRequired("payment amount is below the required unlock fee")
	ErrPaymentConsumed   = failure.Conflict("payment has already been used")
	ErrPaymentNotPending = failure.Conflict("payment is not pending review")
	ErrPaymentNotFound   = failure.NotFound("payment not found")
	ErrPropertyNotFound  = failure.NotFound("property not found")
)

type Payment interface {
	Create(ctx context.Context, req dto.CreatePaymentRequest) (dto.PaymentResponse, error)
	Unlock(ctx context.Context, propertyID string) (dto.UnlockResponse, error)
	IsUnlocked(ctx context.Context, propertyID string) (dto.UnlockResponse, error)
	GetMine(ctx context.Context, params gDto.QueryParams) (dto.GetPaymentsResponse, error)
	GetUnlocked(ctx context.Context) (dto.UnlockedPropertiesResponse, error)
	GetAll(ctx context.Context, params gDto.QueryParams, status string) (dto.GetPaymentsResponse, error)
	Approve(ctx context.Context, id string, req dto.ReviewPaymentRequest) error
	Reject(ctx context.Context, id string, req dto.ReviewPaymentRequest) error
}

type serviceImpl struct {
	repo         repository.Payment
	unlockRepo   repository.Unlock
	propertyRepo propertyRepo.Property
	transactor   gRepo.Transactor
	storage      s3.S3
	notifier     publisher.Publisher
	cfg          *config.Config
	cache        cache.RedisCache
	otel         otel.Otel
}

func New(
	repo repository.Payment,
	unlockRepo repository.Unlock,
	propertyRepo propertyRepo.Property,
	transactor gRepo.Transactor,
	storage s3.S3,
	notifier publisher.Publisher,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Payment {
	return &serviceImpl{
		repo:         repo,
		unlockRepo:   unlockRepo,
		propertyRepo: propertyRepo,
		transactor:   transactor,
		storage:      storage,
		notifier:     notifier,
		cfg:          cfg,
		cache:        cache,
		otel:         otel,
	}
}

// Create files a pending payment request. Guards run in a fixed order: amount, receipt,
// property, existing unlock, duplicate pending request.
func (s *serviceImpl) Create(ctx context.Context, req dto.CreatePaymentRequest) (res dto.PaymentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(&err)

	userID, _ := shared.UserFromContext(ctx)

	if minimum := s.minPaymentAmount(); req.Amount < minimum {
		return res, failure.BadRequestFromString(fmt.Sprintf(errMinimumAmountFormat, minimum))
	}

	if !req.HasReceipt() {
		return res, ErrReceiptRequired
	}

	property, err := s.getProperty(ctx, req.PropertyID)
	if err != nil {
		return res, err
	}

	unlocked, err := s.isUnlocked(ctx, userID, req.PropertyID)
	if err != nil {
		return res, err
	}

	if unlocked {
		return res, ErrAlreadyUnlocked
	}

	pending, err := s.repo.Exist(ctx, shared.FilterByFields(model.TableName, map[string]any{
		model.FieldUserID:     userID,
		model.FieldPropertyID: req.PropertyID,
		model.FieldStatus:     model.StatusPending,
	}))
	if err != nil {
		log.Error().Err(err).Msg("failed to check pending payment requests")

		return res, fmt.Errorf("failed to check pending payment requests: %w", err)
	}

	if pending {
		return res, ErrDuplicateRequest
	}

	receiptURL := req.ReceiptURL
	if req.Receipt != nil {
		receiptURL, err = s.storage.UploadFile(ctx, s3.DirectoryReceipts, req.ReceiptFile, req.Receipt)
		if err != nil {
			log.Error().Err(err).Msg("failed to upload payment receipt")

			return res, fmt.Errorf("failed to upload payment receipt: %w", err)
		}
	}

	payment := req.ToModel(userID, receiptURL)

	if err = s.repo.Insert(ctx, payment); err != nil {
		if gRepo.IsUniqueViolation(err) {
			return res, ErrDuplicateRequest
		}

		log.Error().Err(err).Msg("failed to create payment request")

		return res, fmt.Errorf("failed to create payment request: %w", err)
	}

	publisher.Notify(ctx, s.notifier, notificationDto.NotificationEvent{
		Role:  constant.RoleAdmin,
		Title: "طلب دفع جديد",
		Body:  fmt.Sprintf("%s - %g", property.Title, payment.Amount),
		Type:  notificationModel.TypePayment,
		Link:  "/admin/payments",
	})

	payment.PropertyTitle = &property.Title
	res.FromModel(payment)

	return res, nil
}

func (s *serviceImpl) Unlock(ctx context.Context, propertyID string) (res dto.UnlockResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Unlock")
	defer scope.End()
	defer scope.TraceIfError(&err)

	userID, _ := shared.UserFromContext(ctx)

	if err = s.unlock(ctx, userID, propertyID); err != nil {
		return res, err
	}

	return dto.UnlockResponse{PropertyID: propertyID, Unlocked: true}, nil
}

func (s *serviceImpl) IsUnlocked(ctx context.Context, propertyID string) (res dto.UnlockResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".IsUnlocked")
	defer scope.End()
	defer scope.TraceIfError(&err)

	userID, _ := shared.UserFromContext(ctx)

	res.PropertyID = propertyID
	res.Unlocked, err = s.isUnlocked(ctx, userID, propertyID)

	return res, err
}

func (s *serviceImpl) GetMine(ctx context.Context, params gDto.QueryParams) (res dto.GetPaymentsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetMine")
	defer scope.End()
	defer scope.TraceIfError(&err)

	userID, _ := shared.UserFromContext(ctx)

	return s.list(ctx, params, shared.FilterByFields(model.TableName, map[string]any{model.FieldUserID: userID}))
}

func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams, status string) (res dto.GetPaymentsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(&err)

	filter := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}
	if status != "" {
		filter = shared.FilterByFields(model.TableName, map[string]any{model.FieldStatus: status})
	}

	return s.list(ctx, params, filter)
}

func (s *serviceImpl) list(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetPaymentsResponse, err error) {
	params.SortBy = model.TableName + "." + constant.FieldCreatedAt
	if params.SortDir == "" {
		params.SortDir = gDto.SortDirDesc
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count payment requests")

		return res, fmt.Errorf("failed to count payment requests: %w", err)
	}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get payment requests")

		return res, fmt.Errorf("failed to get payment requests: %w", err)
	}

	res.FromModels(models, total, params.Limit)

	return res, nil
}

func (s *serviceImpl) GetUnlocked(ctx context.Context) (res dto.UnlockedPropertiesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetUnlocked")
	defer scope.End()
	defer scope.TraceIfError(&err)

	userID, _ := shared.UserFromContext(ctx)
	cacheKey := shared.BuildCacheKey(cacheGetUnlocked, userID)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	models, err := s.unlockRepo.GetAll(ctx, gDto.QueryParams{}, shared.FilterByFields(model.UnlockTableName, map[string]any{
		model.FieldUserID: userID,
	}), model.FieldPropertyID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get unlocked properties")

		return res, fmt.Errorf("failed to get unlocked properties: %w", err)
	}

	res.FromModels(models)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save unlocked properties to cache")
		}
	}()

	return res, nil
}

// Approve accepts a payment and immediately consumes it to unlock the property for the
// payer. When the unlock fails the approval is reverted to pending.
func (s *serviceImpl) Approve(ctx context.Context, id string, req dto.ReviewPaymentRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Approve")
	defer scope.End()
	defer scope.TraceIfError(&err)

	payment, err := s.review(ctx, id, model.StatusApproved, req.Note)
	if err != nil {
		return err
	}

	if err = s.unlock(ctx, payment.UserID, payment.PropertyID); err != nil {
		log.Error().Err(err).Str("payment_id", id).Msg("unlock after approval failed, reverting payment")

		s.revert(ctx, payment)

		return err
	}

	publisher.Notify(ctx, s.notifier, notificationDto.NotificationEvent{
		UserID: payment.UserID,
		Title:  "تم قبول الدفع",
		Body:   "يمكنك الآن رؤية بيانات التواصل مع المالك",
		Type:   notificationModel.TypePayment,
		Link:   "/properties/" + payment.PropertyID,
	})

	return nil
}

func (s *serviceImpl) Reject(ctx context.Context, id string, req dto.ReviewPaymentRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Reject")
	defer scope.End()
	defer scope.TraceIfError(&err)

	payment, err := s.review(ctx, id, model.StatusRejected, req.Note)
	if err != nil {
		return err
	}

	body := "تم رفض طلب الدفع"
	if req.Note != "" {
		body += ": " + req.Note
	}

	publisher.Notify(ctx, s.notifier, notificationDto.NotificationEvent{
		UserID: payment.UserID,
		Title:  "تم رفض الدفع",
		Body:   body,
		Type:   notificationModel.TypePayment,
		Link:   "/payments",
	})

	return nil
}

func (s *serviceImpl) review(ctx context.Context, id, status, note string) (model.Payment, error) {
	adminID, _ := shared.UserFromContext(ctx)

	payment, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get payment request")

		return payment, fmt.Errorf("failed to get payment request: %w", err)
	}

	if payment.ID == constant.Empty {
		return payment, ErrPaymentNotFound
	}

	if payment.Status != model.StatusPending {
		return payment, ErrPaymentNotPending
	}

	fields := shared.TransformFields(struct{}{}, adminID)
	fields[model.FieldStatus] = status
	fields[model.FieldReviewedBy] = adminID
	fields[model.FieldReviewedAt] = timezone.Now()

	if note != "" {
		fields[model.FieldAdminNote] = note
	}

	if err = s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Str("status", status).Msg("failed to review payment request")

		return payment, fmt.Errorf("failed to review payment request: %w", err)
	}

	payment.Status = status

	return payment, nil
}

func (s *serviceImpl) revert(ctx context.Context, payment model.Payment) {
	adminID, _ := shared.UserFromContext(ctx)

	fields := shared.TransformFields(struct{}{}, adminID)
	fields[model.FieldStatus] = model.StatusPending
	fields[model.FieldReviewedBy] = nil
	fields[model.FieldReviewedAt] = nil

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldID, Operator: gDto.FilterOperatorEq, Value: payment.ID, Table: model.TableName},
			gDto.Filter{ArgName: "current_status", Field: model.FieldStatus, Operator: gDto.FilterOperatorEq, Value: model.StatusApproved, Table: model.TableName},
		},
	}

	if err := s.repo.Update(context.WithoutCancel(ctx), fields, filter); err != nil {
		log.Error().Err(err).Str("payment_id", payment.ID).Msg("failed to revert payment approval")
	}
}

// unlock consumes the user's approved payment for the property and records the unlock in
// one transaction. The status guard on the update makes a concurrent consumer lose.
func (s *serviceImpl) unlock(ctx context.Context, userID, propertyID string) error {
	if _, err := s.getProperty(ctx, propertyID); err != nil {
		return err
	}

	unlocked, err := s.isUnlocked(ctx, userID, propertyID)
	if err != nil {
		return err
	}

	if unlocked {
		return nil
	}

	payment, err := s.repo.Get(ctx, shared.FilterByFields(model.TableName, map[string]any{
		model.FieldUserID:     userID,
		model.FieldPropertyID: propertyID,
		model.FieldStatus:     model.StatusApproved,
	}))
	if err != nil {
		log.Error().Err(err).Msg("failed to get approved payment")

		return fmt.Errorf("failed to get approved payment: %w", err)
	}

	if payment.ID == constant.Empty {
		return ErrNoApprovedPayment
	}

	if payment.Amount < s.unlockFee() {
		return ErrBelowUnlockFee
	}

	err = s.transactor.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		now := timezone.Now()

		fields := shared.TransformFields(struct{}{}, userID)
		fields[model.FieldStatus] = model.StatusUsed
		fields[model.FieldUsedAt] = now

		consumed, err := s.repo.UpdateTxAffected(ctx, tx, fields, gDto.FilterGroup{
			Operator: gDto.FilterGroupOperatorAnd,
			Filters: []any{
				gDto.Filter{Field: model.FieldID, Operator: gDto.FilterOperatorEq, Value: payment.ID, Table: model.TableName},
				gDto.Filter{ArgName: "current_status", Field: model.FieldStatus, Operator: gDto.FilterOperatorEq, Value: model.StatusApproved, Table: model.TableName},
			},
		})
		if err != nil {
			return fmt.Errorf("failed to consume payment: %w", err)
		}

		if !consumed {
			return ErrPaymentConsumed
		}

		unlock := model.Unlock{
			ID:         uuid.NewString(),
			UserID:     userID,
			PropertyID: propertyID,
			PaymentID:  payment.ID,
		}
		unlock.CreatedAt, unlock.ModifiedAt = now, now
		unlock.CreatedBy, unlock.ModifiedBy = userID, userID

		if err := s.unlockRepo.InsertTx(ctx, tx, unlock); err != nil {
			if gRepo.IsUniqueViolation(err) {
				return ErrAlreadyUnlocked
			}

			return fmt.Errorf("failed to record unlock: %w", err)
		}

		return nil
	})
	if err != nil {
		var f *failure.Failure
		if errors.As(err, &f) {
			return err
		}

		log.Error().Err(err).Msg("failed to unlock property")

		return fmt.Errorf("failed to unlock property: %w", err)
	}

	go func() {
		shared.InvalidateCaches(context.WithoutCancel(ctx), s.cache, shared.BuildCacheKey(cacheGetUnlocked, userID))
	}()

	return nil
}

func (s *serviceImpl) isUnlocked(ctx context.Context, userID, propertyID string) (bool, error) {
	unlocked, err := s.unlockRepo.Exist(ctx, shared.FilterByFields(model.UnlockTableName, map[string]any{
		model.FieldUserID:     userID,
		model.FieldPropertyID: propertyID,
	}))
	if err != nil {
		log.Error().Err(err).Msg("failed to check unlock")

		return false, fmt.Errorf("failed to check unlock: %w", err)
	}

	return unlocked, nil
}

func (s *serviceImpl) getProperty(ctx context.Context, id string) (propertyModel.Property, error) {
	property, err := s.propertyRepo.Get(ctx, shared.FilterByID(id, propertyModel.FieldID, propertyModel.TableName),
		propertyModel.FieldID, propertyModel.FieldTitle, propertyModel.FieldOwnerID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get property")

		return property, fmt.Errorf("failed to get property: %w", err)
	}

	if property.ID == constant.Empty {
		return property, ErrPropertyNotFound
	}

	return property, nil
}

func (s *serviceImpl) minPaymentAmount() float64 {
	if s.cfg.Marketplace.MinPaymentAmount > 0 {
		return s.cfg.Marketplace.MinPaymentAmount
	}

	return defaultMinPaymentAmount
}

func (s *serviceImpl) unlockFee() float64 {
	if s.cfg.Marketplace.UnlockFee > 0 {
		return s.cfg.Marketplace.UnlockFee
	}

	return defaultUnlockFee
}
