package review

import (
	"net/http"

	"gamasa/infras/otel"
	"gamasa/internal/domains/review/model/dto"
	"gamasa/internal/domains/review/service"
	"gamasa/shared/constant"
	gDto "gamasa/shared/dto"
	"gamasa/shared/validator"
	"gamasa/transport/http/response"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service service.Review
	otel    otel.Otel
}

func New(service service.Review, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/properties/{id}/reviews", handler.GetPropertyReviews)
	router.Post("/properties/{id}/reviews", handler.CreateReview)
	router.Delete("/reviews/{id}", handler.DeleteReview)
}

// CreateReview rates a property.
// @Summary Review a property
// @Description One review per user per property. Owners cannot review their own listings.
// @Tags Review
// @Accept json
// @Produce json
// @Param id path string true "Property ID"
// @Param request body dto.CreateReviewRequest true "Create Review Request"
// @Success 201 {object} response.Data[dto.ReviewResponse]
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/properties/{id}/reviews [post]
// @Security BearerAuth
func (handler *Handler) CreateReview(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateReview")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := validator.ValidateID(id); err != nil {
		response.WithError(w, err)

		return
	}

	req := dto.CreateReviewRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		response.WithTracedError(w, scope, err, "failed to validate request body")

		return
	}

	review, err := handler.service.Create(ctx, id, req)
	if err != nil {
		response.WithTracedError(w, scope, err, "failed to create review")

		return
	}

	response.WithJSON(w, http.StatusCreated, review)
}

// GetPropertyReviews lists the reviews of a property with its rating summary.
// @Summary Get property reviews
// @Tags Review
// @Produce json
// @Param id path string true "Property ID"
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetReviewsResponse]
// @Failure 400 {object} response.Error
// @Router /v1/properties/{id}/reviews [get]
func (handler *Handler) GetPropertyReviews(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPropertyReviews")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := validator.ValidateID(id); err != nil {
		response.WithError(w, err)

		return
	}

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	reviews, err := handler.service.GetByProperty(ctx, id, queryParams)
	if err != nil {
		response.WithTracedError(w, scope, err, "failed to get reviews")

		return
	}

	response.WithJSON(w, http.StatusOK, reviews)
}

// DeleteReview removes a review written by the caller.
// @Summary Delete a review
// @Tags Review
// @Produce json
// @Param id path string true "Review ID"
// @Success 200 {object} response.Message "Review deleted successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/reviews/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteReview")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := validator.ValidateID(id); err != nil {
		response.WithError(w, err)

		return
	}

	if err := handler.service.Delete(ctx, id); err != nil {
		response.WithTracedError(w, scope, err, "failed to delete review")

		return
	}

	scope.AddEvent("Review deleted successfully")

	response.WithMessage(w, http.StatusOK, "Review deleted successfully")
}
