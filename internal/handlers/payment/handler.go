package payment

import (
	"net/http"
	"strings"

	"gamasa/infras/otel"
	"gamasa/internal/domains/payment/model/dto"
	"gamasa/internal/domains/payment/service"
	"gamasa/shared"
	"gamasa/shared/constant"
	gDto "gamasa/shared/dto"
	"gamasa/shared/failure"
	"gamasa/shared/validator"
	"gamasa/transport/http/response"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service service.Payment
	otel    otel.Otel
}

func New(service service.Payment, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/payments", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreatePayment)
		routerGroup.Get("/mine", handler.GetMyPayments)
	})

	router.Get("/unlocks/mine", handler.GetUnlocked)
	router.Post("/properties/{id}/unlock", handler.Unlock)
	router.Get("/properties/{id}/unlock", handler.IsUnlocked)
}

// CreatePayment submits a payment receipt for admin review.
// @Summary Submit a payment
// @Description Accepts a multipart form with a receipt image or a JSON body with a receipt_url.
// @Tags Payment
// @Accept multipart/form-data
// @Accept json
// @Produce json
// @Param property_id formData string true "Property ID"
// @Param amount formData number true "Amount paid"
// @Param payment_method formData string true "vodafone_cash, instapay, bank_transfer or other"
// @Param sender_phone formData string false "Sender phone"
// @Param receipt formData file false "Receipt image"
// @Success 201 {object} response.Data[dto.PaymentResponse]
// @Failure 400 {object} response.Error
// @Failure 402 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/payments [post]
// @Security BearerAuth
func (handler *Handler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreatePayment")
	defer scope.End()

	req := dto.CreatePaymentRequest{}

	if strings.HasPrefix(r.Header.Get(constant.RequestHeaderContentType), constant.ContentTypeMultipartFormData) {
		if err := r.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
			response.WithTracedError(w, scope, failure.BadRequest(err), "failed to parse multipart form")

			return
		}

		req.PropertyID = r.FormValue("property_id")
		req.PaymentMethod = r.FormValue("payment_method")
		req.SenderPhone = r.FormValue("sender_phone")
		req.ReceiptURL = r.FormValue("receipt_url")

		if amount := shared.ConvertStringToFloat(r.FormValue("amount")); amount != nil {
			req.Amount = *amount
		}

		file, fileHeader, err := r.FormFile("receipt")
		if err == nil {
			req.Receipt = fileHeader
			req.ReceiptFile = file

			defer file.Close()
		}

		if err := validator.ValidateStruct(&req); err != nil {
			response.WithTracedError(w, scope, err, "failed to validate request")

			return
		}
	} else if err := validator.Validate(r.Body, &req); err != nil {
		response.WithTracedError(w, scope, err, "failed to validate request body")

		return
	}

	payment, err := handler.service.Create(ctx, req)
	if err != nil {
		response.WithTracedError(w, scope, err, "failed to create payment")

		return
	}

	scope.AddEvent("Payment submitted by user " + payment.UserID)

	response.WithJSON(w, http.StatusCreated, payment)
}

// GetMyPayments lists the caller's payment requests.
// @Summary Get my payments
// @Tags Payment
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetPaymentsResponse]
// @Router /v1/payments/mine [get]
// @Security BearerAuth
func (handler *Handler) GetMyPayments(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMyPayments")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	payments, err := handler.service.GetMine(ctx, queryParams)
	if err != nil {
		response.WithTracedError(w, scope, err, "failed to get own payments")

		return
	}

	response.WithJSON(w, http.StatusOK, payments)
}

// GetUnlocked lists the properties the caller has unlocked.
// @Summary Get unlocked properties
// @Tags Payment
// @Produce json
// @Success 200 {object} response.Data[dto.UnlockedPropertiesResponse]
// @Router /v1/unlocks/mine [get]
// @Security BearerAuth
func (handler *Handler) GetUnlocked(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetUnlocked")
	defer scope.End()

	unlocked, err := handler.service.GetUnlocked(ctx)
	if err != nil {
		response.WithTracedError(w, scope, err, "failed to get unlocked properties")

		return
	}

	response.WithJSON(w, http.StatusOK, unlocked)
}

// Unlock spends an approved payment to reveal the owner's contact details.
// @Summary Unlock a property
// @Tags Payment
// @Produce json
// @Param id path string true "Property ID"
// @Success 200 {object} response.Data[dto.UnlockResponse]
// @Failure 400 {object} response.Error
// @Failure 402 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/properties/{id}/unlock [post]
// @Security BearerAuth
func (handler *Handler) Unlock(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Unlock")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := validator.ValidateID(id); err != nil {
		response.WithError(w, err)

		return
	}

	res, err := handler.service.Unlock(ctx, id)
	if err != nil {
		response.WithTracedError(w, scope, err, "failed to unlock property")

		return
	}

	scope.AddEvent("Property unlocked " + id)

	response.WithJSON(w, http.StatusOK, res)
}

// IsUnlocked tells whether the caller has unlocked the property.
// @Summary Check unlock
// @Tags Payment
// @Produce json
// @Param id path string true "Property ID"
// @Success 200 {object} response.Data[dto.UnlockResponse]
// @Failure 400 {object} response.Error
// @Router /v1/properties/{id}/unlock [get]
// @Security BearerAuth
func (handler *Handler) IsUnlocked(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".IsUnlocked")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := validator.ValidateID(id); err != nil {
		response.WithError(w, err)

		return
	}

	res, err := handler.service.IsUnlocked(ctx, id)
	if err != nil {
		response.WithTracedError(w, scope, err, "failed to check unlock")

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}
