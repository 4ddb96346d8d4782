package property

import (
	"net/http"

	"gamasa/infras/otel"
	"gamasa/internal/domains/property/model/dto"
	"gamasa/internal/domains/property/service"
	"gamasa/shared/constant"
	gDto "gamasa/shared/dto"
	"gamasa/shared/failure"
	"gamasa/shared/validator"
	"gamasa/transport/http/response"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service service.Property
	otel    otel.Otel
}

func New(service service.Property, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/properties", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.SearchProperties)
		routerGroup.Post("/", handler.CreateProperty)
		routerGroup.Get("/mine", handler.GetMyProperties)
		routerGroup.Post("/upload", handler.UploadImage)
		routerGroup.Get("/{id}", handler.GetPropertyByID)
		routerGroup.Patch("/{id}", handler.UpdateProperty)
		routerGroup.Delete("/{id}", handler.DeleteProperty)
		routerGroup.Get("/{id}/contact", handler.GetContact)
	})
}

// CreateProperty submits a listing for moderation.
// @Summary Create a property
// @Description Submit a new listing. It stays pending until an admin approves it.
// @Tags Property
// @Accept json
// @Produce json
// @Param request body dto.CreatePropertyRequest true "Create Property Request"
// @Success 201 {object} response.Data[dto.PropertyResponse]
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/properties [post]
// @Security BearerAuth
func (handler *Handler) CreateProperty(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateProperty")
	defer scope.End()

	req := dto.CreatePropertyRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		response.WithTracedError(w, scope, err, "failed to validate request body")

		return
	}

	property, err := handler.service.Create(ctx, req)
	if err != nil {
		response.WithTracedError(w, scope, err, "failed to create property")

		return
	}

	scope.AddEvent("Property created successfully by user " + property.OwnerID)

	response.WithJSON(w, http.StatusCreated, property)
}

// SearchProperties lists available properties.
// @Summary Search properties
// @Description Search available listings by text, location, price, rooms and geohash proximity.
// @Tags Property
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param q query string false "Free text"
// @Param city query string false "City"
// @Param area query string false "Area"
// @Param property_type query string false "Property type"
// @Param price_period query string false "Price period"
// @Param min_price query number false "Minimum price"
// @Param max_price query number false "Maximum price"
// @Param bedrooms query integer false "Minimum bedrooms"
// @Param furnished query boolean false "Furnished"
// @Param near query string false "lat,lng"
// @Success 200 {object} response.Data[dto.GetPropertiesResponse]
// @Failure 400 {object} response.Error
// @Router /v1/properties [get]
func (handler *Handler) SearchProperties(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".SearchProperties")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	req := dto.SearchRequest{}
	req.FromRequest(r)

	if err := validator.ValidateStruct(&req); err != nil {
		response.WithTracedError(w, scope, err, "failed to validate search request")

		return
	}

	properties, err := handler.service.Search(ctx, queryParams, req)
	if err != nil {
		response.WithTracedError(w, scope, err, "failed to search properties")

		return
	}

	response.WithJSON(w, http.StatusOK, properties)
}

// GetMyProperties lists the caller's own listings in every status.
// @Summary Get my properties
// @Tags Property
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetPropertiesResponse]
// @Router /v1/properties/mine [get]
// @Security BearerAuth
func (handler *Handler) GetMyProperties(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMyProperties")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	properties, err := handler.service.GetMine(ctx, queryParams)
	if err != nil {
		response.WithTracedError(w, scope, err, "failed to get own properties")

		return
	}

	response.WithJSON(w, http.StatusOK, properties)
}

// UploadImage stores a listing image and returns its public URL.
// @Summary Upload a property image
// @Tags Property
// @Accept multipart/form-data
// @Produce json
// @Param image formData file true "Property image"
// @Success 201 {object} response.Data[dto.UploadResponse]
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/properties/upload [post]
// @Security BearerAuth
func (handler *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UploadImage")
	defer scope.End()

	if err := r.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		response.WithTracedError(w, scope, failure.BadRequest(err), "failed to parse multipart form")

		return
	}

	req := dto.UploadImageRequest{}

	file, fileHeader, err := r.FormFile("image")
	if err == nil {
		req.Image = fileHeader
		req.ImageFile = file

		defer file.Close()
	}

	if err := validator.ValidateStruct(&req); err != nil {
		response.WithTracedError(w, scope, err, "failed to validate request")

		return
	}

	res, err := handler.service.UploadImage(ctx, req)
	if err != nil {
		response.WithTracedError(w, scope, err, "failed to upload property image")

		return
	}

	response.WithJSON(w, http.StatusCreated, res)
}

// GetPropertyByID returns one listing.
// @Summary Get a property by ID
// @Description Public listings are visible to everyone, other statuses only to the owner and admins.
// @Tags Property
// @Produce json
// @Param id path string true "Property ID"
// @Success 200 {object} response.Data[dto.PropertyResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/properties/{id} [get]
func (handler *Handler) GetPropertyByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPropertyByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := validator.ValidateID(id); err != nil {
		response.WithError(w, err)

		return
	}

	property, err := handler.service.Get(ctx, id)
	if err != nil {
		response.WithTracedError(w, scope, err, "failed to get property by ID")

		return
	}

	response.WithJSON(w, http.StatusOK, property)
}

// UpdateProperty edits a listing owned by the caller.
// @Summary Update a property
// @Tags Property
// @Accept json
// @Produce json
// @Param id path string true "Property ID"
// @Param request body dto.UpdatePropertyRequest true "Update Property Request"
// @Success 200 {object} response.Message "Property updated successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/properties/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateProperty(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateProperty")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := validator.ValidateID(id); err != nil {
		response.WithError(w, err)

		return
	}

	req := dto.UpdatePropertyRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		response.WithTracedError(w, scope, err, "failed to validate request body")

		return
	}

	if err := handler.service.Update(ctx, id, req); err != nil {
		response.WithTracedError(w, scope, err, "failed to update property")

		return
	}

	scope.AddEvent("Property updated successfully")

	response.WithMessage(w, http.StatusOK, "Property updated successfully")
}

// DeleteProperty removes a listing and its images.
// @Summary Delete a property
// @Tags Property
// @Produce json
// @Param id path string true "Property ID"
// @Success 200 {object} response.Message "Property deleted successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/properties/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteProperty(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteProperty")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := validator.ValidateID(id); err != nil {
		response.WithError(w, err)

		return
	}

	if err := handler.service.Delete(ctx, id); err != nil {
		response.WithTracedError(w, scope, err, "failed to delete property")

		return
	}

	scope.AddEvent("Property deleted successfully")

	response.WithMessage(w, http.StatusOK, "Property deleted successfully")
}

// GetContact reveals the owner's contact details once the caller has unlocked the listing.
// @Summary Get owner contact
// @Tags Property
// @Produce json
// @Param id path string true "Property ID"
// @Success 200 {object} response.Data[dto.ContactResponse]
// @Failure 400 {object} response.Error
// @Failure 402 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/properties/{id}/contact [get]
// @Security BearerAuth
func (handler *Handler) GetContact(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetContact")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := validator.ValidateID(id); err != nil {
		response.WithError(w, err)

		return
	}

	contact, err := handler.service.GetContact(ctx, id)
	if err != nil {
		response.WithTracedError(w, scope, err, "failed to get property contact")

		return
	}

	response.WithJSON(w, http.StatusOK, contact)
}
