package service

import (
	"context"
	"fmt"
	"mime/multipart"

	"gamasa/config"
	"gamasa/infras/otel"
	"gamasa/infras/s3"
	"gamasa/internal/domains/profile/model"
	"gamasa/internal/domains/profile/model/dto"
	"gamasa/internal/domains/profile/repository"
	"gamasa/shared"
	"gamasa/shared/cache"
	"gamasa/shared/constant"
	gDto "gamasa/shared/dto"
	"gamasa/shared/failure"
	"gamasa/shared/realtime"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetProfile     = "profile:get"
	cacheGetAllProfiles = "profile:gets"
)

type Profile interface {
	GetMe(ctx context.Context) (dto.ProfileResponse, error)
	UpdateMe(ctx context.Context, req dto.UpdateProfileRequest) error
	UploadAvatar(ctx context.Context, req dto.UploadAvatarRequest) (dto.UploadResponse, error)
	SetDeviceToken(ctx context.Context, req dto.DeviceTokenRequest) error
	GetPublic(ctx context.Context, id string) (dto.PublicProfileResponse, error)
	GetPresence(ctx context.Context, id string) (realtime.PresenceStatus, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (dto.GetProfilesResponse, error)
	UpdateRole(ctx context.Context, id string, req dto.UpdateRoleRequest) error
	SetActive(ctx context.Context, id string, req dto.SetActiveRequest) error
}

type serviceImpl struct {
	repo     repository.Profile
	storage  s3.S3
	presence realtime.Presence
	cfg      *config.Config
	cache    cache.RedisCache
	otel     otel.Otel
}

func New(repo repository.Profile, storage s3.S3, presence realtime.Presence, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Profile {
	return &serviceImpl{
		repo:     repo,
		storage:  storage,
		presence: presence,
		cfg:      cfg,
		cache:    cache,
		otel:     otel,
	}
}

func (s *serviceImpl) GetMe(ctx context.Context) (res dto.ProfileResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetMe")
	defer scope.End()
	defer scope.TraceIfError(&err)

	userID, _ := shared.UserFromContext(ctx)

	profile, err := s.get(ctx, userID)
	if err != nil {
		return res, err
	}

	res.FromModel(profile)

	return res, nil
}

func (s *serviceImpl) UpdateMe(ctx context.Context, req dto.UpdateProfileRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateMe")
	defer scope.End()
	defer scope.TraceIfError(&err)

	userID, _ := shared.UserFromContext(ctx)

	return s.update(ctx, userID, shared.TransformFields(req, userID))
}

func (s *serviceImpl) UploadAvatar(ctx context.Context, req dto.UploadAvatarRequest) (res dto.UploadResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UploadAvatar")
	defer scope.End()
	defer scope.TraceIfError(&err)

	userID, _ := shared.UserFromContext(ctx)

	profile, err := s.get(ctx, userID)
	if err != nil {
		return res, err
	}

	url, err := s.upload(ctx, req.ImageFile, req.Image)
	if err != nil {
		return res, err
	}

	if err = s.update(ctx, userID, shared.TransformFields(dto.UpdateProfileRequest{AvatarURL: url}, userID)); err != nil {
		return res, err
	}

	if profile.AvatarURL != nil {
		go s.deleteObject(context.WithoutCancel(ctx), *profile.AvatarURL)
	}

	res.URL = url

	return res, nil
}

func (s *serviceImpl) SetDeviceToken(ctx context.Context, req dto.DeviceTokenRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".SetDeviceToken")
	defer scope.End()
	defer scope.TraceIfError(&err)

	userID, _ := shared.UserFromContext(ctx)

	return s.update(ctx, userID, shared.TransformFields(req, userID))
}

func (s *serviceImpl) GetPublic(ctx context.Context, id string) (res dto.PublicProfileResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetPublic")
	defer scope.End()
	defer scope.TraceIfError(&err)

	cacheKey := shared.BuildCacheKey(cacheGetProfile, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for profile")

		return res, nil
	}

	profile, err := s.get(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(profile)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save profile to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) GetPresence(ctx context.Context, id string) (res realtime.PresenceStatus, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetPresence")
	defer scope.End()
	defer scope.TraceIfError(&err)

	exists, err := s.repo.Exist(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check profile")

		return res, fmt.Errorf("failed to check profile: %w", err)
	}

	if !exists {
		return res, failure.NotFound("profile not found")
	}

	res, err = s.presence.Status(ctx, id)
	if err != nil {
		log.Error().Err(err).Msg("failed to get presence")

		return res, fmt.Errorf("failed to get presence: %w", err)
	}

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetProfilesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(&err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllProfiles, params, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for profiles")

		return res, nil
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count profiles")

		return res, fmt.Errorf("failed to count profiles: %w", err)
	}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get profiles")

		return res, fmt.Errorf("failed to get profiles: %w", err)
	}

	res.FromModels(models, total, params.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save profiles to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) UpdateRole(ctx context.Context, id string, req dto.UpdateRoleRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateRole")
	defer scope.End()
	defer scope.TraceIfError(&err)

	userID, role := shared.UserFromContext(ctx)

	if req.Role == constant.RoleSuperAdmin && role != constant.RoleSuperAdmin {
		return failure.Forbidden("only a superadmin can grant the superadmin role")
	}

	if id == userID {
		return failure.BadRequestFromString("you cannot change your own role")
	}

	if _, err = s.get(ctx, id); err != nil {
		return err
	}

	return s.update(ctx, id, shared.TransformFields(req, userID))
}

func (s *serviceImpl) SetActive(ctx context.Context, id string, req dto.SetActiveRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".SetActive")
	defer scope.End()
	defer scope.TraceIfError(&err)

	userID, _ := shared.UserFromContext(ctx)

	if id == userID {
		return failure.BadRequestFromString("you cannot deactivate your own account")
	}

	if _, err = s.get(ctx, id); err != nil {
		return err
	}

	// active=false is a zero value that TransformFields would drop.
	fields := shared.TransformFields(struct{}{}, userID)
	fields[model.FieldActive] = *req.Active

	return s.update(ctx, id, fields)
}

func (s *serviceImpl) get(ctx context.Context, id string) (model.Profile, error) {
	profile, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get profile")

		return profile, fmt.Errorf("failed to get profile: %w", err)
	}

	if profile.ID == constant.Empty {
		return profile, failure.NotFound("profile not found")
	}

	return profile, nil
}

func (s *serviceImpl) update(ctx context.Context, id string, fields map[string]any) error {
	if err := s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update profile")

		return fmt.Errorf("failed to update profile: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, shared.BuildCacheKey(cacheGetProfile, id))
		shared.InvalidateCaches(c, s.cache, cacheGetAllProfiles)
	}()

	return nil
}

func (s *serviceImpl) upload(ctx context.Context, file multipart.File, header *multipart.FileHeader) (string, error) {
	url, err := s.storage.UploadFile(ctx, s3.DirectoryAvatars, file, header)
	if err != nil {
		log.Error().Err(err).Msg("failed to upload avatar")

		return constant.Empty, fmt.Errorf("failed to upload avatar: %w", err)
	}

	return url, nil
}

func (s *serviceImpl) deleteObject(ctx context.Context, url string) {
	key := s.storage.ObjectKeyFromURL(url)
	if key == constant.Empty {
		return
	}

	if err := s.storage.DeleteFile(ctx, key); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("failed to delete previous avatar")
	}
}
