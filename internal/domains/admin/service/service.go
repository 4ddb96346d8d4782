package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"

	"gamasa/config"
	"gamasa/infras/otel"
	"gamasa/internal/domains/admin/model/dto"
	"gamasa/internal/domains/admin/repository"
	bookingModel "gamasa/internal/domains/booking/model"
	paymentModel "gamasa/internal/domains/payment/model"
	profileModel "gamasa/internal/domains/profile/model"
	propertyModel "gamasa/internal/domains/property/model"
	"gamasa/shared/cache"
	"gamasa/shared/constant"
	"gamasa/shared/timezone"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	cacheGetStats = "admin:stats"
	statsCacheTTL = 60
)

type Admin interface {
	Stats(ctx context.Context) (dto.StatsResponse, error)
}

type serviceImpl struct {
	repo  repository.Stats
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Stats, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Admin {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

// Stats summarizes the marketplace for the dashboard. The figures are cached for a minute.
func (s *serviceImpl) Stats(ctx context.Context) (res dto.StatsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Stats")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if err = s.cache.Get(ctx, cacheGetStats, &res); err == nil {
		return res, nil
	}

	var profiles, properties, bookings, payments map[string]int

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() (err error) {
		profiles, err = s.repo.GroupCount(groupCtx, profileModel.TableName, profileModel.FieldRole)

		return err
	})

	group.Go(func() (err error) {
		properties, err = s.repo.GroupCount(groupCtx, propertyModel.TableName, propertyModel.FieldStatus)

		return err
	})

	group.Go(func() (err error) {
		bookings, err = s.repo.GroupCount(groupCtx, bookingModel.TableName, bookingModel.FieldStatus)

		return err
	})

	group.Go(func() (err error) {
		payments, err = s.repo.GroupCount(groupCtx, paymentModel.TableName, paymentModel.FieldStatus)

		return err
	})

	if err = group.Wait(); err != nil {
		log.Error().Err(err).Msg("failed to collect stats")

		return res, fmt.Errorf("failed to collect stats: %w", err)
	}

	res = dto.StatsResponse{
		Profiles:        dto.NewBreakdown(profiles),
		Properties:      dto.NewBreakdown(properties),
		Bookings:        dto.NewBreakdown(bookings),
		Payments:        dto.NewBreakdown(payments),
		PendingPayments: payments[paymentModel.StatusPending],
		GeneratedAt:     timezone.Format(timezone.Now(), constant.DateFormat),
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheGetStats, res, statsCacheTTL); err != nil {
			log.Error().Err(err).Msg("failed to save stats to cache")
		}
	}()

	return res, nil
}
