package admin

import (
	"context"
	"net/http"

	"gamasa/infras/otel"
	adminService "gamasa/internal/domains/admin/service"
	paymentModel "gamasa/internal/domains/payment/model"
	paymentDto "gamasa/internal/domains/payment/model/dto"
	paymentService "gamasa/internal/domains/payment/service"
	profileDto "gamasa/internal/domains/profile/model/dto"
	profileService "gamasa/internal/domains/profile/service"
	propertyDto "gamasa/internal/domains/property/model/dto"
	propertyService "gamasa/internal/domains/property/service"
	"gamasa/shared"
	"gamasa/shared/constant"
	gDto "gamasa/shared/dto"
	"gamasa/shared/validator"
	"gamasa/transport/http/response"

	"github.com/go-chi/chi/v5"
)

const paymentStatusRule = "omitempty,oneof=pending approved rejected"

type Handler struct {
	admin    adminService.Admin
	profile  profileService.Profile
	property propertyService.Property
	payment  paymentService.Payment
	otel     otel.Otel
}

func New(
	admin adminService.Admin,
	profile profileService.Profile,
	property propertyService.Property,
	payment paymentService.Payment,
	otel otel.Otel,
) Handler {
	return Handler{
		admin:    admin,
		profile:  profile,
		property: property,
		payment:  payment,
		otel:     otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/admin", func(routerGroup chi.Router) {
		routerGroup.Get("/stats", handler.GetStats)

		routerGroup.Get("/profiles", handler.GetProfiles)
		routerGroup.Patch("/profiles/{id}/role", handler.UpdateRole)
		routerGroup.Patch("/profiles/{id}/active", handler.SetActive)

		routerGroup.Get("/properties/pending", handler.GetPendingProperties)
		routerGroup.Patch("/properties/{id}/approve", handler.ApproveProperty)
		routerGroup.Patch("/properties/{id}/reject", handler.RejectProperty)

		routerGroup.Get("/payments", handler.GetPayments)
		routerGroup.Patch("/payments/{id}/approve", handler.ApprovePayment)
		routerGroup.Patch("/payments/{id}/reject", handler.RejectPayment)
	})
}

// GetStats returns platform wide counters.
// @Summary Get platform statistics
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Data[dto.StatsResponse]
// @Failure 403 {object} response.Error
// @Router /v1/admin/stats [get]
// @Security BearerAuth
func (handler *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetStats")
	defer scope.End()

	stats, err := handler.admin.Stats(ctx)
	if err != nil {
		response.WithTracedError(w, scope, err, "failed to get stats")

		return
	}

	response.WithJSON(w, http.StatusOK, stats)
}

// GetProfiles lists profiles with optional role, activity and text filters.
// @Summary List profiles
// @Tags Admin
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param role query string false "Role"
// @Param active query boolean false "Active"
// @Param q query string false "Name, email or phone"
// @Success 200 {object} response.Data[profileDto.GetProfilesResponse]
// @Failure 400 {object} response.Error
// @Router /v1/admin/profiles [get]
// @Security BearerAuth
func (handler *Handler) GetProfiles(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetProfiles")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filter := profileDto.ProfileFilter{}
	filter.FromRequest(r)

	if err := validator.ValidateStruct(&filter); err != nil {
		response.WithError(w, err)

		return
	}

	profiles, err := handler.profile.GetAll(ctx, queryParams, filter.ToFilter())
	if err != nil {
		response.WithTracedError(w, scope, err, "failed to get profiles")

		return
	}

	response.WithJSON(w, http.StatusOK, profiles)
}

// UpdateRole changes the role of a profile.
// @Summary Update role
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Profile ID"
// @Param request body profileDto.UpdateRoleRequest true "Update Role Request"
// @Success 200 {object} response.Message "Role updated successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/admin/profiles/{id}/role [patch]
// @Security BearerAuth
func (handler *Handler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateRole")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := validator.ValidateID(id); err != nil {
		response.WithError(w, err)

		return
	}

	req := profileDto.UpdateRoleRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		response.WithTracedError(w, scope, err, "failed to validate request body")

		return
	}

	if err := handler.profile.UpdateRole(ctx, id, req); err != nil {
		response.WithTracedError(w, scope, err, "failed to update role")

		return
	}

	user, _ := shared.UserFromContext(ctx)
	scope.AddEvent("Profile " + id + " set to role " + req.Role + " by " + user)

	response.WithMessage(w, http.StatusOK, "Role updated successfully")
}

// SetActive activates or suspends a profile.
// @Summary Set profile active flag
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Profile ID"
// @Param request body profileDto.SetActiveRequest true "Set Active Request"
// @Success 200 {object} response.Message "Profile updated successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/admin/profiles/{id}/active [patch]
// @Security BearerAuth
func (handler *Handler) SetActive(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".SetActive")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := validator.ValidateID(id); err != nil {
		response.WithError(w, err)

		return
	}

	req := profileDto.SetActiveRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		response.WithTracedError(w, scope, err, "failed to validate request body")

		return
	}

	if err := handler.profile.SetActive(ctx, id, req); err != nil {
		response.WithTracedError(w, scope, err, "failed to set profile active flag")

		return
	}

	response.WithMessage(w, http.StatusOK, "Profile updated successfully")
}

// GetPendingProperties lists listings waiting for moderation, oldest first.
// @Summary List pending properties
// @Tags Admin
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[propertyDto.GetPropertiesResponse]
// @Router /v1/admin/properties/pending [get]
// @Security BearerAuth
func (handler *Handler) GetPendingProperties(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPendingProperties")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	properties, err := handler.property.GetPending(ctx, queryParams)
	if err != nil {
		response.WithTracedError(w, scope, err, "failed to get pending properties")

		return
	}

	response.WithJSON(w, http.StatusOK, properties)
}

// ApproveProperty publishes a pending listing.
// @Summary Approve a property
// @Tags Admin
// @Produce json
// @Param id path string true "Property ID"
// @Success 200 {object} response.Message "Property approved"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/admin/properties/{id}/approve [patch]
// @Security BearerAuth
func (handler *Handler) ApproveProperty(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ApproveProperty")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := validator.ValidateID(id); err != nil {
		response.WithError(w, err)

		return
	}

	if err := handler.property.Approve(ctx, id); err != nil {
		response.WithTracedError(w, scope, err, "failed to approve property")

		return
	}

	scope.AddEvent("Property approved " + id)

	response.WithMessage(w, http.StatusOK, "Property approved")
}

// RejectProperty rejects a pending listing with a reason shown to the owner.
// @Summary Reject a property
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Property ID"
// @Param request body propertyDto.RejectRequest true "Reject Request"
// @Success 200 {object} response.Message "Property rejected"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/admin/properties/{id}/reject [patch]
// @Security BearerAuth
func (handler *Handler) RejectProperty(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".RejectProperty")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := validator.ValidateID(id); err != nil {
		response.WithError(w, err)

		return
	}

	req := propertyDto.RejectRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		response.WithTracedError(w, scope, err, "failed to validate request body")

		return
	}

	if err := handler.property.Reject(ctx, id, req); err != nil {
		response.WithTracedError(w, scope, err, "failed to reject property")

		return
	}

	scope.AddEvent("Property rejected " + id)

	response.WithMessage(w, http.StatusOK, "Property rejected")
}

// GetPayments lists payment requests, optionally by status.
// @Summary List payments
// @Tags Admin
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "pending, approved or rejected"
// @Success 200 {object} response.Data[paymentDto.GetPaymentsResponse]
// @Failure 400 {object} response.Error
// @Router /v1/admin/payments [get]
// @Security BearerAuth
func (handler *Handler) GetPayments(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPayments")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	status := r.URL.Query().Get(paymentModel.FieldStatus)

	if err := validator.ValidateVar(status, paymentStatusRule); err != nil {
		response.WithError(w, err)

		return
	}

	payments, err := handler.payment.GetAll(ctx, queryParams, status)
	if err != nil {
		response.WithTracedError(w, scope, err, "failed to get payments")

		return
	}

	response.WithJSON(w, http.StatusOK, payments)
}

// ApprovePayment approves a pending payment request.
// @Summary Approve a payment
// @Description Approving a payment made for a property unlocks it for the payer.
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Payment ID"
// @Param request body paymentDto.ReviewPaymentRequest false "Review note"
// @Success 200 {object} response.Message "Payment approved"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/admin/payments/{id}/approve [patch]
// @Security BearerAuth
func (handler *Handler) ApprovePayment(w http.ResponseWriter, r *http.Request) {
	handler.reviewPayment(w, r, "ApprovePayment", handler.payment.Approve, "Payment approved")
}

// RejectPayment rejects a pending payment request.
// @Summary Reject a payment
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Payment ID"
// @Param request body paymentDto.ReviewPaymentRequest false "Review note"
// @Success 200 {object} response.Message "Payment rejected"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/admin/payments/{id}/reject [patch]
// @Security BearerAuth
func (handler *Handler) RejectPayment(w http.ResponseWriter, r *http.Request) {
	handler.reviewPayment(w, r, "RejectPayment", handler.payment.Reject, "Payment rejected")
}

type reviewFunc func(ctx context.Context, id string, req paymentDto.ReviewPaymentRequest) error

func (handler *Handler) reviewPayment(w http.ResponseWriter, r *http.Request, name string, review reviewFunc, message string) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+"."+name)
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := validator.ValidateID(id); err != nil {
		response.WithError(w, err)

		return
	}

	req := paymentDto.ReviewPaymentRequest{}

	// the note is optional, an empty body is accepted
	if r.ContentLength != 0 {
		if err := validator.Validate(r.Body, &req); err != nil {
			response.WithTracedError(w, scope, err, "failed to validate request body")

			return
		}
	}

	if err := review(ctx, id, req); err != nil {
		response.WithTracedError(w, scope, err, "failed to review payment")

		return
	}

	scope.AddEvent(message + " " + id)

	response.WithMessage(w, http.StatusOK, message)
}
