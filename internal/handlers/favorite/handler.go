package favorite

import (
	"net/http"

	"gamasa/infras/otel"
	"gamasa/internal/domains/favorite/service"
	"gamasa/shared/constant"
	gDto "gamasa/shared/dto"
	"gamasa/shared/validator"
	"gamasa/transport/http/response"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service service.Favorite
	otel    otel.Otel
}

func New(service service.Favorite, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/favorites", handler.GetMyFavorites)
	router.Get("/properties/{id}/favorite", handler.IsFavorite)
	router.Post("/properties/{id}/favorite", handler.AddFavorite)
	router.Delete("/properties/{id}/favorite", handler.RemoveFavorite)
}

// AddFavorite saves a property to the caller's favorites.
// @Summary Add favorite
// @Tags Favorite
// @Produce json
// @Param id path string true "Property ID"
// @Success 201 {object} response.Message "Added to favorites"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/properties/{id}/favorite [post]
// @Security BearerAuth
func (handler *Handler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".AddFavorite")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := validator.ValidateID(id); err != nil {
		response.WithError(w, err)

		return
	}

	if err := handler.service.Add(ctx, id); err != nil {
		response.WithTracedError(w, scope, err, "failed to add favorite")

		return
	}

	response.WithMessage(w, http.StatusCreated, "Added to favorites")
}

// RemoveFavorite drops a property from the caller's favorites.
// @Summary Remove favorite
// @Tags Favorite
// @Produce json
// @Param id path string true "Property ID"
// @Success 200 {object} response.Message "Removed from favorites"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/properties/{id}/favorite [delete]
// @Security BearerAuth
func (handler *Handler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".RemoveFavorite")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := validator.ValidateID(id); err != nil {
		response.WithError(w, err)

		return
	}

	if err := handler.service.Remove(ctx, id); err != nil {
		response.WithTracedError(w, scope, err, "failed to remove favorite")

		return
	}

	response.WithMessage(w, http.StatusOK, "Removed from favorites")
}

// IsFavorite tells whether the caller saved the property.
// @Summary Check favorite
// @Tags Favorite
// @Produce json
// @Param id path string true "Property ID"
// @Success 200 {object} response.Data[dto.FavoriteStatusResponse]
// @Failure 400 {object} response.Error
// @Router /v1/properties/{id}/favorite [get]
// @Security BearerAuth
func (handler *Handler) IsFavorite(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".IsFavorite")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := validator.ValidateID(id); err != nil {
		response.WithError(w, err)

		return
	}

	status, err := handler.service.IsFavorite(ctx, id)
	if err != nil {
		response.WithTracedError(w, scope, err, "failed to check favorite")

		return
	}

	response.WithJSON(w, http.StatusOK, status)
}

// GetMyFavorites lists the caller's saved properties.
// @Summary Get my favorites
// @Tags Favorite
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetFavoritesResponse]
// @Router /v1/favorites [get]
// @Security BearerAuth
func (handler *Handler) GetMyFavorites(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMyFavorites")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	favorites, err := handler.service.GetMine(ctx, queryParams)
	if err != nil {
		response.WithTracedError(w, scope, err, "failed to get favorites")

		return
	}

	response.WithJSON(w, http.StatusOK, favorites)
}
