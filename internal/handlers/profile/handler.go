package profile

import (
	"net/http"

	"gamasa/infras/otel"
	"gamasa/internal/domains/profile/model/dto"
	"gamasa/internal/domains/profile/service"
	"gamasa/shared/constant"
	"gamasa/shared/failure"
	"gamasa/shared/validator"
	"gamasa/transport/http/response"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service service.Profile
	otel    otel.Otel
}

func New(service service.Profile, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/profiles", func(routerGroup chi.Router) {
		routerGroup.Get("/me", handler.GetMe)
		routerGroup.Patch("/me", handler.UpdateMe)
		routerGroup.Post("/me/avatar", handler.UploadAvatar)
		routerGroup.Put("/me/device-token", handler.SetDeviceToken)
		routerGroup.Get("/{id}", handler.GetPublic)
		routerGroup.Get("/{id}/presence", handler.GetPresence)
	})
}

// GetMe returns the profile of the signed in user.
// @Summary Get my profile
// @Tags Profile
// @Produce json
// @Success 200 {object} response.Data[dto.ProfileResponse]
// @Failure 401 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/profiles/me [get]
// @Security BearerAuth
func (handler *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMe")
	defer scope.End()

	profile, err := handler.service.GetMe(ctx)
	if err != nil {
		response.WithTracedError(w, scope, err, "failed to get profile")

		return
	}

	response.WithJSON(w, http.StatusOK, profile)
}

// UpdateMe updates the name, phone or avatar of the signed in user.
// @Summary Update my profile
// @Tags Profile
// @Accept json
// @Produce json
// @Param request body dto.UpdateProfileRequest true "Update Profile Request"
// @Success 200 {object} response.Message "Profile updated successfully"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/profiles/me [patch]
// @Security BearerAuth
func (handler *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateMe")
	defer scope.End()

	req := dto.UpdateProfileRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		response.WithTracedError(w, scope, err, "failed to validate request body")

		return
	}

	if err := handler.service.UpdateMe(ctx, req); err != nil {
		response.WithTracedError(w, scope, err, "failed to update profile")

		return
	}

	scope.AddEvent("Profile updated successfully")

	response.WithMessage(w, http.StatusOK, "Profile updated successfully")
}

// UploadAvatar stores a new avatar image.
// @Summary Upload avatar
// @Tags Profile
// @Accept multipart/form-data
// @Produce json
// @Param image formData file true "Avatar image"
// @Success 201 {object} response.Data[dto.UploadResponse]
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/profiles/me/avatar [post]
// @Security BearerAuth
func (handler *Handler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UploadAvatar")
	defer scope.End()

	if err := r.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		response.WithTracedError(w, scope, failure.BadRequest(err), "failed to parse multipart form")

		return
	}

	req := dto.UploadAvatarRequest{}

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

	res, err := handler.service.UploadAvatar(ctx, req)
	if err != nil {
		response.WithTracedError(w, scope, err, "failed to upload avatar")

		return
	}

	response.WithJSON(w, http.StatusCreated, res)
}

// SetDeviceToken registers the FCM token of the caller's device.
// @Summary Set device token
// @Tags Profile
// @Accept json
// @Produce json
// @Param request body dto.DeviceTokenRequest true "Device Token Request"
// @Success 200 {object} response.Message "Device token saved"
// @Failure 400 {object} response.Error
// @Router /v1/profiles/me/device-token [put]
// @Security BearerAuth
func (handler *Handler) SetDeviceToken(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".SetDeviceToken")
	defer scope.End()

	req := dto.DeviceTokenRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		response.WithTracedError(w, scope, err, "failed to validate request body")

		return
	}

	if err := handler.service.SetDeviceToken(ctx, req); err != nil {
		response.WithTracedError(w, scope, err, "failed to save device token")

		return
	}

	response.WithMessage(w, http.StatusOK, "Device token saved")
}

// GetPublic returns the public part of a profile.
// @Summary Get a public profile
// @Tags Profile
// @Produce json
// @Param id path string true "Profile ID"
// @Success 200 {object} response.Data[dto.PublicProfileResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/profiles/{id} [get]
func (handler *Handler) GetPublic(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPublic")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := validator.ValidateID(id); err != nil {
		response.WithError(w, err)

		return
	}

	profile, err := handler.service.GetPublic(ctx, id)
	if err != nil {
		response.WithTracedError(w, scope, err, "failed to get public profile")

		return
	}

	response.WithJSON(w, http.StatusOK, profile)
}

// GetPresence tells whether a user is online and when they were last seen.
// @Summary Get presence
// @Tags Profile
// @Produce json
// @Param id path string true "Profile ID"
// @Success 200 {object} response.Data[realtime.PresenceStatus]
// @Failure 400 {object} response.Error
// @Router /v1/profiles/{id}/presence [get]
// @Security BearerAuth
func (handler *Handler) GetPresence(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPresence")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := validator.ValidateID(id); err != nil {
		response.WithError(w, err)

		return
	}

	presence, err := handler.service.GetPresence(ctx, id)
	if err != nil {
		response.WithTracedError(w, scope, err, "failed to get presence")

		return
	}

	response.WithJSON(w, http.StatusOK, presence)
}
