//go:build wireinject
// +build wireinject

package di

import (
	"gamasa/config"
	"gamasa/infras/firebase"
	"gamasa/infras/jwt"
	"gamasa/infras/kafka"
	"gamasa/infras/otel"
	"gamasa/infras/postgres"
	"gamasa/infras/redis"
	"gamasa/infras/s3"
	"gamasa/permissions"
	"gamasa/shared/cache"
	"gamasa/shared/realtime"
	gRepo "gamasa/shared/repository"
	"gamasa/transport/event"
	"gamasa/transport/http"
	"gamasa/transport/http/middleware"
	"gamasa/transport/http/router"
	"gamasa/transport/ws"

	adminRepository "gamasa/internal/domains/admin/repository"
	adminService "gamasa/internal/domains/admin/service"
	authService "gamasa/internal/domains/auth/service"
	bookingRepository "gamasa/internal/domains/booking/repository"
	bookingService "gamasa/internal/domains/booking/service"
	chatRepository "gamasa/internal/domains/chat/repository"
	chatService "gamasa/internal/domains/chat/service"
	favoriteRepository "gamasa/internal/domains/favorite/repository"
	favoriteService "gamasa/internal/domains/favorite/service"
	notificationPublisher "gamasa/internal/domains/notification/publisher"
	notificationRepository "gamasa/internal/domains/notification/repository"
	notificationService "gamasa/internal/domains/notification/service"
	paymentRepository "gamasa/internal/domains/payment/repository"
	paymentService "gamasa/internal/domains/payment/service"
	profileRepository "gamasa/internal/domains/profile/repository"
	profileService "gamasa/internal/domains/profile/service"
	propertyRepository "gamasa/internal/domains/property/repository"
	propertyService "gamasa/internal/domains/property/service"
	reviewRepository "gamasa/internal/domains/review/repository"
	reviewService "gamasa/internal/domains/review/service"

	adminHandler "gamasa/internal/handlers/admin"
	authHandler "gamasa/internal/handlers/auth"
	bookingHandler "gamasa/internal/handlers/booking"
	chatHandler "gamasa/internal/handlers/chat"
	favoriteHandler "gamasa/internal/handlers/favorite"
	notificationHandler "gamasa/internal/handlers/notification"
	paymentHandler "gamasa/internal/handlers/payment"
	profileHandler "gamasa/internal/handlers/profile"
	propertyHandler "gamasa/internal/handlers/property"
	reviewHandler "gamasa/internal/handlers/review"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	wire.Bind(new(gRepo.Transactor), new(*postgres.Connection)),
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
	firebase.New,
	s3.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
	realtime.NewPresence,
	realtime.NewRedisBus,
	wire.Bind(new(realtime.Publisher), new(*realtime.RedisBus)),
	wire.Bind(new(realtime.Subscriber), new(*realtime.RedisBus)),
)

var profileDomain = wire.NewSet(
	profileRepository.New,
	profileService.New,
)

var authDomain = wire.NewSet(
	authService.New,
)

var notificationDomain = wire.NewSet(
	notificationRepository.New,
	notificationService.New,
	notificationPublisher.New,
)

var propertyDomain = wire.NewSet(
	propertyRepository.New,
	propertyService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
)

var paymentDomain = wire.NewSet(
	paymentRepository.NewPayment,
	paymentRepository.NewUnlock,
	paymentService.New,
)

var reviewDomain = wire.NewSet(
	reviewRepository.New,
	reviewService.New,
)

var favoriteDomain = wire.NewSet(
	favoriteRepository.New,
	favoriteService.New,
)

var chatDomain = wire.NewSet(
	chatRepository.NewConversation,
	chatRepository.NewMessage,
	chatService.New,
)

var adminDomain = wire.NewSet(
	adminRepository.New,
	adminService.New,
)

var domains = wire.NewSet(
	profileDomain,
	authDomain,
	notificationDomain,
	propertyDomain,
	bookingDomain,
	paymentDomain,
	reviewDomain,
	favoriteDomain,
	chatDomain,
	adminDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	profileHandler.New,
	propertyHandler.New,
	bookingHandler.New,
	paymentHandler.New,
	reviewHandler.New,
	favoriteHandler.New,
	notificationHandler.New,
	chatHandler.New,
	adminHandler.New,
	ws.NewHub,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}

func InitializeWorker() *event.Event {
	wire.Build(
		configurations,
		infrastructures,
		sharedHelpers,
		profileDomain,
		notificationRepository.New,
		notificationService.New,
		event.New,
	)

	return &event.Event{}
}
