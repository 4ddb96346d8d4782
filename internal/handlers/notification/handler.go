package notification

import (
	"net/http"

	"gamasa/infras/otel"
	"gamasa/internal/domains/notification/service"
	"gamasa/shared"
	"gamasa/shared/constant"
	gDto "gamasa/shared/dto"
	"gamasa/shared/validator"
	"gamasa/transport/http/response"

	"github.com/go-chi/chi/v5"
)

const paramUnreadOnly = "unread_only"

type Handler struct {
	service service.Notification
	otel    otel.Otel
}

func New(service service.Notification, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/notifications", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetMyNotifications)
		routerGroup.Get("/unread-count", handler.GetUnreadCount)
		routerGroup.Patch("/read-all", handler.MarkAllRead)
		routerGroup.Patch("/{id}/read", handler.MarkRead)
	})
}

// GetMyNotifications lists the caller's notifications, newest first.
// @Summary Get my notifications
// @Tags Notification
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param unread_only query boolean false "Only unread"
// @Success 200 {object} response.Data[dto.GetNotificationsResponse]
// @Router /v1/notifications [get]
// @Security BearerAuth
func (handler *Handler) GetMyNotifications(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMyNotifications")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	unreadOnly := false
	if value := shared.ConvertStringToBool(r.URL.Query().Get(paramUnreadOnly)); value != nil {
		unreadOnly = *value
	}

	notifications, err := handler.service.GetMine(ctx, queryParams, unreadOnly)
	if err != nil {
		response.WithTracedError(w, scope, err, "failed to get notifications")

		return
	}

	response.WithJSON(w, http.StatusOK, notifications)
}

// GetUnreadCount returns the number of unread notifications.
// @Summary Get unread count
// @Tags Notification
// @Produce json
// @Success 200 {object} response.Data[dto.UnreadCountResponse]
// @Router /v1/notifications/unread-count [get]
// @Security BearerAuth
func (handler *Handler) GetUnreadCount(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetUnreadCount")
	defer scope.End()

	count, err := handler.service.UnreadCount(ctx)
	if err != nil {
		response.WithTracedError(w, scope, err, "failed to count unread notifications")

		return
	}

	response.WithJSON(w, http.StatusOK, count)
}

// MarkRead marks one notification as read.
// @Summary Mark notification read
// @Tags Notification
// @Produce json
// @Param id path string true "Notification ID"
// @Success 200 {object} response.Message "Notification marked as read"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/notifications/{id}/read [patch]
// @Security BearerAuth
func (handler *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".MarkRead")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := validator.ValidateID(id); err != nil {
		response.WithError(w, err)

		return
	}

	if err := handler.service.MarkRead(ctx, id); err != nil {
		response.WithTracedError(w, scope, err, "failed to mark notification read")

		return
	}

	response.WithMessage(w, http.StatusOK, "Notification marked as read")
}

// MarkAllRead marks every notification of the caller as read.
// @Summary Mark all notifications read
// @Tags Notification
// @Produce json
// @Success 200 {object} response.Message "All notifications marked as read"
// @Router /v1/notifications/read-all [patch]
// @Security BearerAuth
func (handler *Handler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".MarkAllRead")
	defer scope.End()

	if err := handler.service.MarkAllRead(ctx); err != nil {
		response.WithTracedError(w, scope, err, "failed to mark all notifications read")

		return
	}

	response.WithMessage(w, http.StatusOK, "All notifications marked as read")
}
