package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"gamasa/config"
	"gamasa/infras/otel"
	"gamasa/internal/domains/booking/model"
	"gamasa/internal/domains/booking/model/dto"
	"gamasa/internal/domains/booking/repository"
	notificationModel "gamasa/internal/domains/notification/model"
	notificationDto "gamasa/internal/domains/notification/model/dto"
	"gamasa/internal/domains/notification/publisher"
	propertyModel "gamasa/internal/domains/property/model"
	propertyRepo "gamasa/internal/domains/property/repository"
	"gamasa/shared"
	"gamasa/shared/cache"
	"gamasa/shared/constant"
	gDto "gamasa/shared/dto"
	"gamasa/shared/failure"
	"gamasa/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetBooking    = "booking:get"
	cacheGetAllBooking = "booking:gets"
	cacheCountBooking  = "booking:count"
)

var (
	ErrBookingNotFound   = failure.NotFound("booking not found")
	ErrDatesOverlap      = failure.Conflict("the property is already booked for these dates")
	ErrInvalidStay       = failure.BadRequestFromString("check_out must be after check_in")
	ErrCheckInPast       = failure.BadRequestFromString("check_in cannot be in the past")
	ErrOwnProperty       = failure.BadRequestFromString("you cannot book your own property")
	ErrNotBookable       = failure.Conflict("property is not available for booking")
	ErrTooManyGuests     = failure.BadRequestFromString("guests exceed the property capacity")
	ErrInvalidTransition = failure.Conflict("booking status cannot be changed this way")
)

var statusTitles = map[string]string{
	model.StatusPending:   "طلب حجز جديد",
	model.StatusConfirmed: "تم تأكيد الحجز",
	model.StatusRejected:  "تم رفض الحجز",
	model.StatusCancelled: "تم إلغاء الحجز",
	model.StatusCompleted: "اكتمل الحجز",
}

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	GetMine(ctx context.Context, params gDto.QueryParams, status string) (dto.GetBookingsResponse, error)
	GetForOwner(ctx context.Context, params gDto.QueryParams, status string) (dto.GetBookingsResponse, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	UpdateStatus(ctx context.Context, id string, req dto.UpdateStatusRequest) error
}

type serviceImpl struct {
	repo         repository.Booking
	propertyRepo propertyRepo.Property
	notifier     publisher.Publisher
	cfg          *config.Config
	cache        cache.RedisCache
	otel         otel.Otel
}

func New(
	repo repository.Booking,
	propertyRepo propertyRepo.Property,
	notifier publisher.Publisher,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:         repo,
		propertyRepo: propertyRepo,
		notifier:     notifier,
		cfg:          cfg,
		cache:        cache,
		otel:         otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(&err)

	userID, _ := shared.UserFromContext(ctx)

	checkIn, checkOut, err := req.Dates()
	if err != nil {
		return res, failure.BadRequest(err)
	}

	if !checkOut.After(checkIn) {
		return res, ErrInvalidStay
	}

	today := timezone.StartOfDay(timezone.Now())

	if checkIn.Before(today) {
		return res, ErrCheckInPast
	}

	property, err := s.propertyRepo.Get(ctx, shared.FilterByID(req.PropertyID, propertyModel.FieldID, propertyModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get property")

		return res, fmt.Errorf("failed to get property: %w", err)
	}

	if property.ID == constant.Empty {
		return res, failure.NotFound("property not found")
	}

	if property.IsOwner(userID) {
		return res, ErrOwnProperty
	}

	if property.Status != propertyModel.StatusAvailable {
		return res, ErrNotBookable
	}

	if property.MaxGuests != nil && req.Guests > *property.MaxGuests {
		return res, ErrTooManyGuests
	}

	if err = s.checkOverlap(ctx, req.PropertyID, checkIn, checkOut); err != nil {
		return res, err
	}

	total := model.TotalPrice(property.Price, property.PricePeriod, model.Nights(checkIn, checkOut))
	booking := req.ToModel(userID, property.OwnerID, checkIn, checkOut, total)

	if err = s.repo.Insert(ctx, booking); err != nil {
		log.Error().Err(err).Msg("failed to create booking")

		return res, fmt.Errorf("failed to create booking: %w", err)
	}

	s.invalidate(ctx, booking.ID)

	booking.PropertyTitle = &property.Title
	s.notify(ctx, booking, property.OwnerID)

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) GetMine(ctx context.Context, params gDto.QueryParams, status string) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetMine")
	defer scope.End()
	defer scope.TraceIfError(&err)

	userID, _ := shared.UserFromContext(ctx)

	return s.list(ctx, params, model.FieldTenantID, userID, status)
}

func (s *serviceImpl) GetForOwner(ctx context.Context, params gDto.QueryParams, status string) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetForOwner")
	defer scope.End()
	defer scope.TraceIfError(&err)

	userID, _ := shared.UserFromContext(ctx)

	return s.list(ctx, params, model.FieldOwnerID, userID, status)
}

func (s *serviceImpl) list(ctx context.Context, params gDto.QueryParams, partyField, userID, status string) (res dto.GetBookingsResponse, err error) {
	fields := map[string]any{partyField: userID}
	if status != "" {
		fields[model.FieldStatus] = status
	}

	filter := shared.FilterByFields(model.TableName, fields)

	params.SortBy = model.TableName + "." + model.FieldCheckIn
	if params.SortDir == "" {
		params.SortDir = gDto.SortDirDesc
	}

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, params, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.count(ctx, filter)
	if err != nil {
		return res, err
	}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, params.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) count(ctx context.Context, filter gDto.FilterGroup) (res int, err error) {
	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountBooking, gDto.QueryParams{}, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking count to cache")
		}
	}()

	return res, nil
}

// Get returns a booking to its tenant, its owner or an admin.
func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(&err)

	userID, role := shared.UserFromContext(ctx)
	cacheKey := shared.BuildCacheKey(cacheGetBooking, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err != nil {
		booking, err := s.get(ctx, id)
		if err != nil {
			return res, err
		}

		res.FromModel(booking)

		go func() {
			c := context.WithoutCancel(ctx)

			if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
				log.Error().Err(err).Msg("failed to save booking to cache")
			}
		}()
	}

	if res.TenantID != userID && res.OwnerID != userID && !shared.IsAdmin(role) {
		return dto.BookingResponse{}, ErrBookingNotFound
	}

	return res, nil
}

// UpdateStatus moves a booking along the transitions its caller's party may perform and
// tells the other party. Confirming re-checks the calendar against other confirmed stays.
func (s *serviceImpl) UpdateStatus(ctx context.Context, id string, req dto.UpdateStatusRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateStatus")
	defer scope.End()
	defer scope.TraceIfError(&err)

	userID, _ := shared.UserFromContext(ctx)

	booking, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	actor := booking.Actor(userID)
	if actor == "" {
		return ErrBookingNotFound
	}

	if !booking.CanTransition(actor, req.Status) {
		return ErrInvalidTransition
	}

	if req.Status == model.StatusConfirmed {
		if err = s.checkOverlap(ctx, booking.PropertyID, booking.CheckIn, booking.CheckOut); err != nil {
			return err
		}
	}

	fields := shared.TransformFields(struct{}{}, userID)
	fields[model.FieldStatus] = req.Status

	if err = s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update booking status")

		return fmt.Errorf("failed to update booking status: %w", err)
	}

	s.invalidate(ctx, id)

	booking.Status = req.Status

	recipient := booking.TenantID
	if actor == model.ActorTenant {
		recipient = booking.OwnerID
	}

	s.notify(ctx, booking, recipient)

	return nil
}

func (s *serviceImpl) checkOverlap(ctx context.Context, propertyID string, checkIn, checkOut time.Time) error {
	overlap, err := s.repo.Exist(ctx, repository.OverlapFilter(propertyID, checkIn, checkOut))
	if err != nil {
		log.Error().Err(err).Msg("failed to check booking overlap")

		return fmt.Errorf("failed to check booking overlap: %w", err)
	}

	if overlap {
		return ErrDatesOverlap
	}

	return nil
}

func (s *serviceImpl) get(ctx context.Context, id string) (model.Booking, error) {
	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, ErrBookingNotFound
	}

	return booking, nil
}

func (s *serviceImpl) notify(ctx context.Context, booking model.Booking, recipient string) {
	body := timezone.Format(booking.CheckIn, constant.DateOnlyFormat) + " - " + timezone.Format(booking.CheckOut, constant.DateOnlyFormat)
	if booking.PropertyTitle != nil {
		body = *booking.PropertyTitle + ": " + body
	}

	publisher.Notify(ctx, s.notifier, notificationDto.NotificationEvent{
		UserID: recipient,
		Title:  statusTitles[booking.Status],
		Body:   body,
		Type:   notificationModel.TypeBooking,
		Link:   "/bookings/" + booking.ID,
	})
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, shared.BuildCacheKey(cacheGetBooking, id))
		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
	}()
}
