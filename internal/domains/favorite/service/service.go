package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"

	"gamasa/config"
	"gamasa/infras/otel"
	"gamasa/internal/domains/favorite/model"
	"gamasa/internal/domains/favorite/model/dto"
	"gamasa/internal/domains/favorite/repository"
	propertyModel "gamasa/internal/domains/property/model"
	propertyRepo "gamasa/internal/domains/property/repository"
	"gamasa/shared"
	"gamasa/shared/cache"
	"gamasa/shared/constant"
	gDto "gamasa/shared/dto"
	"gamasa/shared/failure"
	gRepo "gamasa/shared/repository"

	"github.com/rs/zerolog/log"
)

const cacheGetAllFavorite = "favorite:gets"

var (
	ErrAlreadyFavorite = failure.Conflict("property is already in favorites")
	ErrNotFavorite     = failure.NotFound("property is not in favorites")
)

type Favorite interface {
	Add(ctx context.Context, propertyID string) error
	Remove(ctx context.Context, propertyID string) error
	GetMine(ctx context.Context, params gDto.QueryParams) (dto.GetFavoritesResponse, error)
	IsFavorite(ctx context.Context, propertyID string) (dto.FavoriteStatusResponse, error)
}

type serviceImpl struct {
	repo         repository.Favorite
	propertyRepo propertyRepo.Property
	cfg          *config.Config
	cache        cache.RedisCache
	otel         otel.Otel
}

func New(repo repository.Favorite, propertyRepo propertyRepo.Property, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Favorite {
	return &serviceImpl{
		repo:         repo,
		propertyRepo: propertyRepo,
		cfg:          cfg,
		cache:        cache,
		otel:         otel,
	}
}

func (s *serviceImpl) Add(ctx context.Context, propertyID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Add")
	defer scope.End()
	defer scope.TraceIfError(&err)

	userID, _ := shared.UserFromContext(ctx)

	exist, err := s.propertyRepo.Exist(ctx, shared.FilterByID(propertyID, propertyModel.FieldID, propertyModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if property exists")

		return fmt.Errorf("failed to check if property exists: %w", err)
	}

	if !exist {
		return failure.NotFound("property not found")
	}

	favorite, err := s.isFavorite(ctx, userID, propertyID)
	if err != nil {
		return err
	}

	if favorite {
		return ErrAlreadyFavorite
	}

	if err = s.repo.Insert(ctx, dto.NewFavorite(userID, propertyID)); err != nil {
		if gRepo.IsUniqueViolation(err) {
			return ErrAlreadyFavorite
		}

		log.Error().Err(err).Msg("failed to add favorite")

		return fmt.Errorf("failed to add favorite: %w", err)
	}

	s.invalidate(ctx, userID)

	return nil
}

func (s *serviceImpl) Remove(ctx context.Context, propertyID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Remove")
	defer scope.End()
	defer scope.TraceIfError(&err)

	userID, _ := shared.UserFromContext(ctx)

	favorite, err := s.isFavorite(ctx, userID, propertyID)
	if err != nil {
		return err
	}

	if !favorite {
		return ErrNotFavorite
	}

	if err = s.repo.Delete(ctx, s.filter(userID, propertyID)); err != nil {
		log.Error().Err(err).Msg("failed to remove favorite")

		return fmt.Errorf("failed to remove favorite: %w", err)
	}

	s.invalidate(ctx, userID)

	return nil
}

func (s *serviceImpl) GetMine(ctx context.Context, params gDto.QueryParams) (res dto.GetFavoritesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetMine")
	defer scope.End()
	defer scope.TraceIfError(&err)

	userID, _ := shared.UserFromContext(ctx)
	filter := shared.FilterByFields(model.TableName, map[string]any{model.FieldUserID: userID})

	params.SortBy = model.TableName + "." + constant.FieldCreatedAt
	params.SortDir = gDto.SortDirDesc

	cacheKey := shared.BuildCacheKeyWithQuery(shared.BuildCacheKey(cacheGetAllFavorite, userID), params, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count favorites")

		return res, fmt.Errorf("failed to count favorites: %w", err)
	}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get favorites")

		return res, fmt.Errorf("failed to get favorites: %w", err)
	}

	res.FromModels(models, total, params.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save favorites to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) IsFavorite(ctx context.Context, propertyID string) (res dto.FavoriteStatusResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".IsFavorite")
	defer scope.End()
	defer scope.TraceIfError(&err)

	userID, _ := shared.UserFromContext(ctx)

	res.PropertyID = propertyID
	res.Favorite, err = s.isFavorite(ctx, userID, propertyID)

	return res, err
}

func (s *serviceImpl) isFavorite(ctx context.Context, userID, propertyID string) (bool, error) {
	exist, err := s.repo.Exist(ctx, s.filter(userID, propertyID))
	if err != nil {
		log.Error().Err(err).Msg("failed to check favorite")

		return false, fmt.Errorf("failed to check favorite: %w", err)
	}

	return exist, nil
}

func (s *serviceImpl) filter(userID, propertyID string) gDto.FilterGroup {
	return shared.FilterByFields(model.TableName, map[string]any{
		model.FieldUserID:     userID,
		model.FieldPropertyID: propertyID,
	})
}

func (s *serviceImpl) invalidate(ctx context.Context, userID string) {
	go shared.InvalidateCaches(context.WithoutCancel(ctx), s.cache, shared.BuildCacheKey(cacheGetAllFavorite, userID))
}
