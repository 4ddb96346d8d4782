package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"

	"gamasa/config"
	"gamasa/infras/firebase"
	"gamasa/infras/otel"
	"gamasa/internal/domains/notification/model"
	"gamasa/internal/domains/notification/model/dto"
	"gamasa/internal/domains/notification/repository"
	profileModel "gamasa/internal/domains/profile/model"
	profileRepo "gamasa/internal/domains/profile/repository"
	"gamasa/shared"
	"gamasa/shared/cache"
	"gamasa/shared/constant"
	gDto "gamasa/shared/dto"
	"gamasa/shared/failure"
	"gamasa/shared/realtime"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetAllNotifications = "notification:gets"
	cacheUnreadCount         = "notification:unread"

	pushDataType = "type"
	pushDataLink = "link"
	pushDataID   = "notification_id"
)

type Notification interface {
	Dispatch(ctx context.Context, event dto.NotificationEvent) error
	Create(ctx context.Context, userID string, event dto.NotificationEvent) (dto.NotificationResponse, error)
	GetMine(ctx context.Context, params gDto.QueryParams, unreadOnly bool) (dto.GetNotificationsResponse, error)
	UnreadCount(ctx context.Context) (dto.UnreadCountResponse, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context) error
}

type serviceImpl struct {
	repo        repository.Notification
	profileRepo profileRepo.Profile
	realtime    realtime.Publisher
	messaging   firebase.Messaging
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
}

func New(
	repo repository.Notification,
	profileRepo profileRepo.Profile,
	realtime realtime.Publisher,
	messaging firebase.Messaging,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Notification {
	return &serviceImpl{
		repo:        repo,
		profileRepo: profileRepo,
		realtime:    realtime,
		messaging:   messaging,
		cfg:         cfg,
		cache:       cache,
		otel:        otel,
	}
}

// Dispatch resolves the recipients of event and creates one notification per recipient.
// A failing recipient does not stop the others; the first error is returned.
func (s *serviceImpl) Dispatch(ctx context.Context, event dto.NotificationEvent) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Dispatch")
	defer scope.End()
	defer scope.TraceIfError(&err)

	recipients := []string{event.UserID}

	if event.UserID == constant.Empty {
		roles := []string{event.Role}
		if event.Role == constant.RoleAdmin {
			roles = append(roles, constant.RoleSuperAdmin)
		}

		recipients, err = s.profileRepo.IDsByRoles(ctx, roles...)
		if err != nil {
			log.Error().Err(err).Str("role", event.Role).Msg("failed to resolve notification recipients")

			return fmt.Errorf("failed to resolve notification recipients: %w", err)
		}
	}

	var firstErr error

	for _, userID := range recipients {
		if _, err := s.Create(ctx, userID, event); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}

func (s *serviceImpl) Create(ctx context.Context, userID string, event dto.NotificationEvent) (res dto.NotificationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(&err)

	notification := event.ToModel(constant.ContextSystem, userID)

	if err = s.repo.Insert(ctx, notification); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("failed to create notification")

		return res, fmt.Errorf("failed to create notification: %w", err)
	}

	res.FromModel(notification)

	s.invalidate(ctx, userID)

	if err := s.realtime.Publish(ctx, realtime.Event{Type: realtime.EventNotificationNew, Payload: res}, userID); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("failed to push realtime notification")
	}

	s.push(ctx, userID, notification)

	return res, nil
}

func (s *serviceImpl) GetMine(ctx context.Context, params gDto.QueryParams, unreadOnly bool) (res dto.GetNotificationsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetMine")
	defer scope.End()
	defer scope.TraceIfError(&err)

	userID, _ := shared.UserFromContext(ctx)

	fields := map[string]any{model.FieldUserID: userID}
	if unreadOnly {
		fields[model.FieldIsRead] = false
	}

	filter := shared.FilterByFields(model.TableName, fields)

	params.SortBy = model.TableName + "." + constant.FieldCreatedAt
	params.SortDir = gDto.SortDirDesc

	cacheKey := shared.BuildCacheKeyWithQuery(shared.BuildCacheKey(cacheGetAllNotifications, userID), params, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for notifications")

		return res, nil
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count notifications")

		return res, fmt.Errorf("failed to count notifications: %w", err)
	}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get notifications")

		return res, fmt.Errorf("failed to get notifications: %w", err)
	}

	res.FromModels(models, total, params.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save notifications to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) UnreadCount(ctx context.Context) (res dto.UnreadCountResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UnreadCount")
	defer scope.End()
	defer scope.TraceIfError(&err)

	userID, _ := shared.UserFromContext(ctx)
	cacheKey := shared.BuildCacheKey(cacheUnreadCount, userID)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	res.Count, err = s.repo.Count(ctx, shared.FilterByFields(model.TableName, map[string]any{
		model.FieldUserID: userID,
		model.FieldIsRead: false,
	}))
	if err != nil {
		log.Error().Err(err).Msg("failed to count unread notifications")

		return res, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save unread count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) MarkRead(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".MarkRead")
	defer scope.End()
	defer scope.TraceIfError(&err)

	userID, _ := shared.UserFromContext(ctx)

	filter := shared.FilterByFields(model.TableName, map[string]any{
		model.FieldID:     id,
		model.FieldUserID: userID,
	})

	exists, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check notification")

		return fmt.Errorf("failed to check notification: %w", err)
	}

	if !exists {
		return failure.NotFound("notification not found")
	}

	if err = s.repo.Update(ctx, shared.TransformFields(dto.MarkReadRequest{IsRead: true}, userID), filter); err != nil {
		log.Error().Err(err).Msg("failed to mark notification as read")

		return fmt.Errorf("failed to mark notification as read: %w", err)
	}

	s.invalidate(ctx, userID)

	return nil
}

func (s *serviceImpl) MarkAllRead(ctx context.Context) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".MarkAllRead")
	defer scope.End()
	defer scope.TraceIfError(&err)

	userID, _ := shared.UserFromContext(ctx)

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldUserID, Operator: gDto.FilterOperatorEq, Value: userID, Table: model.TableName},
			gDto.Filter{ArgName: "current_is_read", Field: model.FieldIsRead, Operator: gDto.FilterOperatorEq, Value: false, Table: model.TableName},
		},
	}

	if err = s.repo.Update(ctx, shared.TransformFields(dto.MarkReadRequest{IsRead: true}, userID), filter); err != nil {
		log.Error().Err(err).Msg("failed to mark notifications as read")

		return fmt.Errorf("failed to mark notifications as read: %w", err)
	}

	s.invalidate(ctx, userID)

	return nil
}

func (s *serviceImpl) push(ctx context.Context, userID string, notification model.Notification) {
	if !s.messaging.Enabled() {
		return
	}

	profile, err := s.profileRepo.Get(ctx, shared.FilterByID(userID, profileModel.FieldID, profileModel.TableName), profileModel.FieldID, profileModel.FieldFCMToken)
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("failed to load device token")

		return
	}

	if profile.DeviceToken() == constant.Empty {
		return
	}

	data := map[string]string{
		pushDataType: notification.Type,
		pushDataID:   notification.ID,
	}
	if notification.Link != nil {
		data[pushDataLink] = *notification.Link
	}

	err = s.messaging.Send(ctx, firebase.Push{
		Token: profile.DeviceToken(),
		Title: notification.Title,
		Body:  notification.Body,
		Data:  data,
	})
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("failed to send push notification")
	}
}

func (s *serviceImpl) invalidate(ctx context.Context, userID string) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, shared.BuildCacheKey(cacheGetAllNotifications, userID))
		shared.InvalidateCaches(c, s.cache, shared.BuildCacheKey(cacheUnreadCount, userID))
	}()
}
