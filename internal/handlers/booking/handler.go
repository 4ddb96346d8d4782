package booking

import (
	"context"
	"net/http"

	"gamasa/infras/otel"
	"gamasa/internal/domains/booking/model"
	"gamasa/internal/domains/booking/model/dto"
	"gamasa/internal/domains/booking/service"
	"gamasa/shared"
	"gamasa/shared/constant"
	gDto "gamasa/shared/dto"
	"gamasa/shared/validator"
	"gamasa/transport/http/response"

	"github.com/go-chi/chi/v5"
)

const statusRule = "omitempty,oneof=pending confirmed rejected cancelled completed"

type Handler struct {
	service service.Booking
	otel    otel.Otel
}

func New(service service.Booking, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/bookings", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateBooking)
		routerGroup.Get("/mine", handler.GetMyBookings)
		routerGroup.Get("/owner", handler.GetOwnerBookings)
		routerGroup.Get("/{id}", handler.GetBookingByID)
		routerGroup.Patch("/{id}/status", handler.UpdateBookingStatus)
	})
}

// CreateBooking handles the creation of a new booking.
// @Summary Create a new booking
// @Description Request a stay. The price is computed from the listing and the owner is notified.
// @Tags Booking
// @Accept json
// @Produce json
// @Param request body dto.CreateBookingRequest true "Create Booking Request"
// @Success 201 {object} response.Data[dto.BookingResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings [post]
// @Security BearerAuth
func (handler *Handler) CreateBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateBooking")
	defer scope.End()

	req := dto.CreateBookingRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		response.WithTracedError(writer, scope, err, "failed to validate request body")

		return
	}

	booking, err := handler.service.Create(ctx, req)
	if err != nil {
		response.WithTracedError(writer, scope, err, "failed to create booking")

		return
	}

	scope.AddEvent("Booking created successfully by user " + booking.TenantID)

	response.WithJSON(writer, http.StatusCreated, booking)
}

// GetMyBookings lists the bookings the caller made as a tenant.
// @Summary Get my bookings
// @Tags Booking
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "Filter by status"
// @Success 200 {object} response.Data[dto.GetBookingsResponse]
// @Failure 400 {object} response.Error
// @Router /v1/bookings/mine [get]
// @Security BearerAuth
func (handler *Handler) GetMyBookings(writer http.ResponseWriter, request *http.Request) {
	handler.list(writer, request, "GetMyBookings", handler.service.GetMine)
}

// GetOwnerBookings lists the bookings made on the caller's properties.
// @Summary Get bookings on my properties
// @Tags Booking
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "Filter by status"
// @Success 200 {object} response.Data[dto.GetBookingsResponse]
// @Failure 400 {object} response.Error
// @Router /v1/bookings/owner [get]
// @Security BearerAuth
func (handler *Handler) GetOwnerBookings(writer http.ResponseWriter, request *http.Request) {
	handler.list(writer, request, "GetOwnerBookings", handler.service.GetForOwner)
}

// GetBookingByID retrieves a booking by its ID.
// @Summary Get a booking by ID
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Data[dto.BookingResponse]
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/bookings/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetBookingByID(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookingByID")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	if err := validator.ValidateID(id); err != nil {
		response.WithError(writer, err)

		return
	}

	booking, err := handler.service.Get(ctx, id)
	if err != nil {
		response.WithTracedError(writer, scope, err, "failed to get booking by ID")

		return
	}

	response.WithJSON(writer, http.StatusOK, booking)
}

// UpdateBookingStatus moves a booking through its lifecycle.
// @Summary Update booking status
// @Description Owners confirm, reject or complete. Tenants cancel.
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.UpdateStatusRequest true "Update Status Request"
// @Success 200 {object} response.Message "Booking status updated successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/bookings/{id}/status [patch]
// @Security BearerAuth
func (handler *Handler) UpdateBookingStatus(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateBookingStatus")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	if err := validator.ValidateID(id); err != nil {
		response.WithError(writer, err)

		return
	}

	req := dto.UpdateStatusRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		response.WithTracedError(writer, scope, err, "failed to validate request body")

		return
	}

	if err := handler.service.UpdateStatus(ctx, id, req); err != nil {
		response.WithTracedError(writer, scope, err, "failed to update booking status")

		return
	}

	user, _ := shared.UserFromContext(ctx)
	scope.AddEvent("Booking " + id + " moved to " + req.Status + " by user " + user)

	response.WithMessage(writer, http.StatusOK, "Booking status updated successfully")
}

type listFunc func(ctx context.Context, params gDto.QueryParams, status string) (dto.GetBookingsResponse, error)

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request, name string, fetch listFunc) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+"."+name)
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(request, true)

	status := request.URL.Query().Get(model.FieldStatus)

	if err := validator.ValidateVar(status, statusRule); err != nil {
		response.WithError(writer, err)

		return
	}

	bookings, err := fetch(ctx, queryParams, status)
	if err != nil {
		response.WithTracedError(writer, scope, err, "failed to get bookings")

		return
	}

	response.WithJSON(writer, http.StatusOK, bookings)
}
