package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"strings"

	"gamasa/config"
	"gamasa/infras/otel"
	notificationModel "gamasa/internal/domains/notification/model"
	notificationDto "gamasa/internal/domains/notification/model/dto"
	"gamasa/internal/domains/notification/publisher"
	propertyModel "gamasa/internal/domains/property/model"
	propertyRepo "gamasa/internal/domains/property/repository"
	"gamasa/internal/domains/review/model"
	"gamasa/internal/domains/review/model/dto"
	"gamasa/internal/domains/review/repository"
	"gamasa/shared"
	"gamasa/shared/cache"
	"gamasa/shared/constant"
	gDto "gamasa/shared/dto"
	"gamasa/shared/failure"
	gRepo "gamasa/shared/repository"

	"github.com/rs/zerolog/log"
)

const cacheGetAllReview = "review:gets"

var (
	ErrAlreadyReviewed = failure.Conflict("you have already reviewed this property")
	ErrOwnerReview     = failure.BadRequestFromString("owners cannot review their own property")
)

type Review interface {
	Create(ctx context.Context, propertyID string, req dto.CreateReviewRequest) (dto.ReviewResponse, error)
	GetByProperty(ctx context.Context, propertyID string, params gDto.QueryParams) (dto.GetReviewsResponse, error)
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo         repository.Review
	propertyRepo propertyRepo.Property
	notifier     publisher.Publisher
	cfg          *config.Config
	cache        cache.RedisCache
	otel         otel.Otel
}

func New(
	repo repository.Review,
	propertyRepo propertyRepo.Property,
	notifier publisher.Publisher,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Review {
	return &serviceImpl{
		repo:         repo,
		propertyRepo: propertyRepo,
		notifier:     notifier,
		cfg:          cfg,
		cache:        cache,
		otel:         otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, propertyID string, req dto.CreateReviewRequest) (res dto.ReviewResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(&err)

	userID, _ := shared.UserFromContext(ctx)

	property, err := s.propertyRepo.Get(ctx, shared.FilterByID(propertyID, propertyModel.FieldID, propertyModel.TableName),
		propertyModel.FieldID, propertyModel.FieldOwnerID, propertyModel.FieldTitle)
	if err != nil {
		log.Error().Err(err).Msg("failed to get property")

		return res, fmt.Errorf("failed to get property: %w", err)
	}

	if property.ID == constant.Empty {
		return res, failure.NotFound("property not found")
	}

	if property.IsOwner(userID) {
		return res, ErrOwnerReview
	}

	exist, err := s.repo.Exist(ctx, shared.FilterByFields(model.TableName, map[string]any{
		model.FieldPropertyID: propertyID,
		model.FieldUserID:     userID,
	}))
	if err != nil {
		log.Error().Err(err).Msg("failed to check existing review")

		return res, fmt.Errorf("failed to check existing review: %w", err)
	}

	if exist {
		return res, ErrAlreadyReviewed
	}

	review := req.ToModel(userID, propertyID)

	if err = s.repo.Insert(ctx, review); err != nil {
		if gRepo.IsUniqueViolation(err) {
			return res, ErrAlreadyReviewed
		}

		log.Error().Err(err).Msg("failed to create review")

		return res, fmt.Errorf("failed to create review: %w", err)
	}

	s.invalidate(ctx, propertyID)

	publisher.Notify(ctx, s.notifier, notificationDto.NotificationEvent{
		UserID: property.OwnerID,
		Title:  "تقييم جديد لعقارك",
		Body:   property.Title + " " + strings.Repeat("★", review.Rating),
		Type:   notificationModel.TypeReview,
		Link:   "/properties/" + propertyID,
	})

	res.FromModel(review)

	return res, nil
}

func (s *serviceImpl) GetByProperty(ctx context.Context, propertyID string, params gDto.QueryParams) (res dto.GetReviewsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetByProperty")
	defer scope.End()
	defer scope.TraceIfError(&err)

	filter := shared.FilterByFields(model.TableName, map[string]any{model.FieldPropertyID: propertyID})

	params.SortBy = model.TableName + "." + constant.FieldCreatedAt
	params.SortDir = gDto.SortDirDesc

	cacheKey := shared.BuildCacheKeyWithQuery(shared.BuildCacheKey(cacheGetAllReview, propertyID), params, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for reviews")

		return res, nil
	}

	summary, err := s.repo.Summary(ctx, propertyID)
	if err != nil {
		log.Error().Err(err).Msg("failed to summarize reviews")

		return res, fmt.Errorf("failed to summarize reviews: %w", err)
	}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get reviews")

		return res, fmt.Errorf("failed to get reviews: %w", err)
	}

	res.FromModels(models, summary, params.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save reviews to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(&err)

	userID, role := shared.UserFromContext(ctx)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	review, err := s.repo.Get(ctx, filter, model.FieldID, model.FieldUserID, model.FieldPropertyID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get review")

		return fmt.Errorf("failed to get review: %w", err)
	}

	if review.ID == constant.Empty {
		return failure.NotFound("review not found")
	}

	if review.UserID != userID && !shared.IsAdmin(role) {
		return failure.ResourceRestrictedError
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete review")

		return fmt.Errorf("failed to delete review: %w", err)
	}

	s.invalidate(ctx, review.PropertyID)

	return nil
}

func (s *serviceImpl) invalidate(ctx context.Context, propertyID string) {
	go shared.InvalidateCaches(context.WithoutCancel(ctx), s.cache, shared.BuildCacheKey(cacheGetAllReview, propertyID))
}
