package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"

	"gamasa/config"
	"gamasa/infras/otel"
	"gamasa/infras/s3"
	notificationModel "gamasa/internal/domains/notification/model"
	notificationDto "gamasa/internal/domains/notification/model/dto"
	"gamasa/internal/domains/notification/publisher"
	paymentModel "gamasa/internal/domains/payment/model"
	paymentRepo "gamasa/internal/domains/payment/repository"
	"gamasa/internal/domains/property/model"
	"gamasa/internal/domains/property/model/dto"
	"gamasa/internal/domains/property/repository"
	"gamasa/shared"
	"gamasa/shared/cache"
	"gamasa/shared/constant"
	gDto "gamasa/shared/dto"
	"gamasa/shared/failure"
	"gamasa/shared/geo"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetProperty     = "property:get"
	cacheGetAllProperty  = "property:gets"
	cacheCountProperties = "property:count"
)

var (
	ErrUnlockRequired     = failure.PaymentRequired("unlock required to view the owner contact")
	ErrNotPending         = failure.Conflict("property is not pending review")
	ErrCoordinatesPairing = failure.BadRequestFromString("latitude and longitude must be provided together")
)

type Property interface {
	Create(ctx context.Context, req dto.CreatePropertyRequest) (dto.PropertyResponse, error)
	Search(ctx context.Context, params gDto.QueryParams, req dto.SearchRequest) (dto.GetPropertiesResponse, error)
	Get(ctx context.Context, id string) (dto.PropertyResponse, error)
	GetMine(ctx context.Context, params gDto.QueryParams) (dto.GetPropertiesResponse, error)
	Update(ctx context.Context, id string, req dto.UpdatePropertyRequest) error
	Delete(ctx context.Context, id string) error
	UploadImage(ctx context.Context, req dto.UploadImageRequest) (dto.UploadResponse, error)
	GetContact(ctx context.Context, id string) (dto.ContactResponse, error)
	GetPending(ctx context.Context, params gDto.QueryParams) (dto.GetPropertiesResponse, error)
	Approve(ctx context.Context, id string) error
	Reject(ctx context.Context, id string, req dto.RejectRequest) error
}

type serviceImpl struct {
	repo       repository.Property
	unlockRepo paymentRepo.Unlock
	storage    s3.S3
	notifier   publisher.Publisher
	cfg        *config.Config
	cache      cache.RedisCache
	otel       otel.Otel
}

func New(
	repo repository.Property,
	unlockRepo paymentRepo.Unlock,
	storage s3.S3,
	notifier publisher.Publisher,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Property {
	return &serviceImpl{
		repo:       repo,
		unlockRepo: unlockRepo,
		storage:    storage,
		notifier:   notifier,
		cfg:        cfg,
		cache:      cache,
		otel:       otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreatePropertyRequest) (res dto.PropertyResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if !req.CoordinatesPaired() {
		return res, ErrCoordinatesPairing
	}

	userID, _ := shared.UserFromContext(ctx)
	property := req.ToModel(userID)

	if err = s.repo.Insert(ctx, property); err != nil {
		log.Error().Err(err).Msg("failed to create property")

		return res, fmt.Errorf("failed to create property: %w", err)
	}

	s.invalidate(ctx, property.ID)

	publisher.Notify(ctx, s.notifier, notificationDto.NotificationEvent{
		Role:  constant.RoleAdmin,
		Title: "عقار جديد بانتظار المراجعة",
		Body:  property.Title,
		Type:  notificationModel.TypeProperty,
		Link:  "/admin/properties/pending",
	})

	res.FromModel(property)

	return res, nil
}

func (s *serviceImpl) Search(ctx context.Context, params gDto.QueryParams, req dto.SearchRequest) (res dto.GetPropertiesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Search")
	defer scope.End()
	defer scope.TraceIfError(&err)

	req.Status = model.StatusAvailable
	req.OwnerID = constant.Empty

	return s.list(ctx, params, req)
}

func (s *serviceImpl) GetMine(ctx context.Context, params gDto.QueryParams) (res dto.GetPropertiesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetMine")
	defer scope.End()
	defer scope.TraceIfError(&err)

	userID, _ := shared.UserFromContext(ctx)

	return s.list(ctx, params, dto.SearchRequest{OwnerID: userID})
}

func (s *serviceImpl) GetPending(ctx context.Context, params gDto.QueryParams) (res dto.GetPropertiesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetPending")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if params.SortDir == "" {
		params.SortDir = gDto.SortDirAsc
	}

	return s.list(ctx, params, dto.SearchRequest{Status: model.StatusPending})
}

func (s *serviceImpl) list(ctx context.Context, params gDto.QueryParams, req dto.SearchRequest) (res dto.GetPropertiesResponse, err error) {
	filter, err := req.ToFilter()
	if err != nil {
		return res, err
	}

	dto.ApplySort(&params)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllProperty, params, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for properties")

		return res, nil
	}

	total, err := s.count(ctx, filter)
	if err != nil {
		return res, err
	}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get properties")

		return res, fmt.Errorf("failed to get properties: %w", err)
	}

	res.FromModels(models, total, params.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save properties to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) count(ctx context.Context, filter gDto.FilterGroup) (res int, err error) {
	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountProperties, gDto.QueryParams{}, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count properties")

		return res, fmt.Errorf("failed to count properties: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save property count to cache")
		}
	}()

	return res, nil
}

// Get returns available properties to anyone. Other statuses are only visible to the owner
// and to admins. Every successful read counts as a view.
func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.PropertyResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(&err)

	cacheKey := shared.BuildCacheKey(cacheGetProperty, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err != nil {
		property, err := s.get(ctx, id)
		if err != nil {
			return res, err
		}

		res.FromModel(property)

		go func() {
			c := context.WithoutCancel(ctx)

			if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
				log.Error().Err(err).Msg("failed to save property to cache")
			}
		}()
	}

	userID, role := shared.UserFromContext(ctx)

	if res.Status != model.StatusAvailable && res.Status != model.StatusRented && res.OwnerID != userID && !shared.IsAdmin(role) {
		return dto.PropertyResponse{}, failure.NotFound("property not found")
	}

	if res.OwnerID != userID {
		go func() {
			if err := s.repo.IncrementViews(context.WithoutCancel(ctx), id); err != nil {
				log.Warn().Err(err).Str("property_id", id).Msg("failed to increment property views")
			}
		}()
	}

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, id string, req dto.UpdatePropertyRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if !req.CoordinatesPaired() {
		return ErrCoordinatesPairing
	}

	userID, _ := shared.UserFromContext(ctx)

	property, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	if !property.IsOwner(userID) {
		return failure.ResourceRestrictedError
	}

	if req.Status != "" && property.Status != model.StatusAvailable && property.Status != model.StatusRented {
		return failure.Conflict("only approved properties can be marked available or rented")
	}

	fields := shared.TransformFields(req, userID)
	fields[model.FieldSearchText] = req.SearchText(property)

	if req.Latitude != nil && req.Longitude != nil {
		fields[model.FieldGeohash] = geo.Encode(*req.Latitude, *req.Longitude)
	}

	if property.Status == model.StatusRejected && req.ChangesContent() {
		fields[model.FieldStatus] = model.StatusPending
		fields[model.FieldRejectionReason] = nil
	}

	if err = s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update property")

		return fmt.Errorf("failed to update property: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(&err)

	userID, role := shared.UserFromContext(ctx)

	property, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	if !property.IsOwner(userID) && !shared.IsAdmin(role) {
		return failure.ResourceRestrictedError
	}

	if err = s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete property")

		return fmt.Errorf("failed to delete property: %w", err)
	}

	s.invalidate(ctx, id)

	if len(property.Images) > 0 {
		go s.deleteImages(context.WithoutCancel(ctx), property.Images)
	}

	return nil
}

func (s *serviceImpl) UploadImage(ctx context.Context, req dto.UploadImageRequest) (res dto.UploadResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UploadImage")
	defer scope.End()
	defer scope.TraceIfError(&err)

	res.URL, err = s.storage.UploadFile(ctx, s3.DirectoryProperties, req.ImageFile, req.Image)
	if err != nil {
		log.Error().Err(err).Msg("failed to upload property image")

		return res, fmt.Errorf("failed to upload property image: %w", err)
	}

	return res, nil
}

// GetContact reveals the owner's name and phone to the owner, admins and users who
// unlocked the property.
func (s *serviceImpl) GetContact(ctx context.Context, id string) (res dto.ContactResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetContact")
	defer scope.End()
	defer scope.TraceIfError(&err)

	userID, role := shared.UserFromContext(ctx)

	property, err := s.get(ctx, id)
	if err != nil {
		return res, err
	}

	if !property.IsOwner(userID) && !shared.IsAdmin(role) {
		unlocked, err := s.unlockRepo.Exist(ctx, shared.FilterByFields(paymentModel.UnlockTableName, map[string]any{
			paymentModel.FieldUserID:     userID,
			paymentModel.FieldPropertyID: id,
		}))
		if err != nil {
			log.Error().Err(err).Msg("failed to check unlock")

			return res, fmt.Errorf("failed to check unlock: %w", err)
		}

		if !unlocked {
			return res, ErrUnlockRequired
		}
	}

	res.FromModel(property)

	return res, nil
}

func (s *serviceImpl) Approve(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Approve")
	defer scope.End()
	defer scope.TraceIfError(&err)

	property, err := s.moderate(ctx, id, model.StatusAvailable, nil)
	if err != nil {
		return err
	}

	publisher.Notify(ctx, s.notifier, notificationDto.NotificationEvent{
		UserID: property.OwnerID,
		Title:  "تمت الموافقة على عقارك",
		Body:   property.Title,
		Type:   notificationModel.TypeProperty,
		Link:   "/properties/" + property.ID,
	})

	return nil
}

func (s *serviceImpl) Reject(ctx context.Context, id string, req dto.RejectRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Reject")
	defer scope.End()
	defer scope.TraceIfError(&err)

	property, err := s.moderate(ctx, id, model.StatusRejected, &req.Reason)
	if err != nil {
		return err
	}

	publisher.Notify(ctx, s.notifier, notificationDto.NotificationEvent{
		UserID: property.OwnerID,
		Title:  "تم رفض عقارك",
		Body:   property.Title + ": " + req.Reason,
		Type:   notificationModel.TypeProperty,
		Link:   "/properties/" + property.ID,
	})

	return nil
}

func (s *serviceImpl) moderate(ctx context.Context, id, status string, reason *string) (model.Property, error) {
	userID, _ := shared.UserFromContext(ctx)

	property, err := s.get(ctx, id)
	if err != nil {
		return property, err
	}

	if property.Status != model.StatusPending {
		return property, ErrNotPending
	}

	fields := shared.TransformFields(struct{}{}, userID)
	fields[model.FieldStatus] = status
	fields[model.FieldRejectionReason] = reason

	if err = s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Str("status", status).Msg("failed to moderate property")

		return property, fmt.Errorf("failed to moderate property: %w", err)
	}

	s.invalidate(ctx, id)

	return property, nil
}

func (s *serviceImpl) get(ctx context.Context, id string) (model.Property, error) {
	property, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get property")

		return property, fmt.Errorf("failed to get property: %w", err)
	}

	if property.ID == constant.Empty {
		return property, failure.NotFound("property not found")
	}

	return property, nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, shared.BuildCacheKey(cacheGetProperty, id))
		shared.InvalidateCaches(c, s.cache, cacheGetAllProperty)
		shared.InvalidateCaches(c, s.cache, cacheCountProperties)
	}()
}

func (s *serviceImpl) deleteImages(ctx context.Context, urls []string) {
	for _, url := range urls {
		key := s.storage.ObjectKeyFromURL(url)
		if key == constant.Empty {
			continue
		}

		if err := s.storage.DeleteFile(ctx, key); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("failed to delete property image")
		}
	}
}
