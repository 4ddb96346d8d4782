package chat

import (
	"net/http"

	"gamasa/infras/otel"
	"gamasa/internal/domains/chat/model/dto"
	"gamasa/internal/domains/chat/service"
	"gamasa/shared/constant"
	gDto "gamasa/shared/dto"
	"gamasa/shared/failure"
	"gamasa/shared/validator"
	"gamasa/transport/http/response"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service service.Chat
	otel    otel.Otel
}

func New(service service.Chat, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/conversations", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetConversations)
		routerGroup.Post("/", handler.StartConversation)
		routerGroup.Get("/{id}", handler.GetConversationByID)
		routerGroup.Get("/{id}/messages", handler.GetMessages)
		routerGroup.Post("/{id}/messages", handler.SendMessage)
		routerGroup.Post("/{id}/media", handler.UploadMedia)
		routerGroup.Patch("/{id}/read", handler.MarkRead)
		routerGroup.Patch("/{id}/media-permission", handler.SetMediaPermission)
	})
}

// StartConversation opens, or returns the existing, conversation with a property's owner.
// @Summary Start a conversation
// @Tags Chat
// @Accept json
// @Produce json
// @Param request body dto.StartConversationRequest true "Start Conversation Request"
// @Success 200 {object} response.Data[dto.ConversationResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/conversations [post]
// @Security BearerAuth
func (handler *Handler) StartConversation(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".StartConversation")
	defer scope.End()

	req := dto.StartConversationRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		response.WithTracedError(w, scope, err, "failed to validate request body")

		return
	}

	conversation, err := handler.service.StartConversation(ctx, req)
	if err != nil {
		response.WithTracedError(w, scope, err, "failed to start conversation")

		return
	}

	response.WithJSON(w, http.StatusOK, conversation)
}

// GetConversations lists the caller's conversations, most recently active first.
// @Summary Get my conversations
// @Tags Chat
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetConversationsResponse]
// @Router /v1/conversations [get]
// @Security BearerAuth
func (handler *Handler) GetConversations(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetConversations")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	conversations, err := handler.service.ListConversations(ctx, queryParams)
	if err != nil {
		response.WithTracedError(w, scope, err, "failed to get conversations")

		return
	}

	response.WithJSON(w, http.StatusOK, conversations)
}

// GetConversationByID returns one conversation.
// @Summary Get a conversation
// @Tags Chat
// @Produce json
// @Param id path string true "Conversation ID"
// @Success 200 {object} response.Data[dto.ConversationResponse]
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/conversations/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetConversationByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetConversationByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := validator.ValidateID(id); err != nil {
		response.WithError(w, err)

		return
	}

	conversation, err := handler.service.GetConversation(ctx, id)
	if err != nil {
		response.WithTracedError(w, scope, err, "failed to get conversation")

		return
	}

	response.WithJSON(w, http.StatusOK, conversation)
}

// GetMessages lists the messages of a conversation, newest first.
// @Summary Get messages
// @Tags Chat
// @Produce json
// @Param id path string true "Conversation ID"
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetMessagesResponse]
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/conversations/{id}/messages [get]
// @Security BearerAuth
func (handler *Handler) GetMessages(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMessages")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := validator.ValidateID(id); err != nil {
		response.WithError(w, err)

		return
	}

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	messages, err := handler.service.ListMessages(ctx, id, queryParams)
	if err != nil {
		response.WithTracedError(w, scope, err, "failed to get messages")

		return
	}

	response.WithJSON(w, http.StatusOK, messages)
}

// SendMessage posts a text, image or voice message.
// @Summary Send a message
// @Tags Chat
// @Accept json
// @Produce json
// @Param id path string true "Conversation ID"
// @Param request body dto.SendMessageRequest true "Send Message Request"
// @Success 201 {object} response.Data[dto.MessageResponse]
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/conversations/{id}/messages [post]
// @Security BearerAuth
func (handler *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".SendMessage")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := validator.ValidateID(id); err != nil {
		response.WithError(w, err)

		return
	}

	req := dto.SendMessageRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		response.WithTracedError(w, scope, err, "failed to validate request body")

		return
	}

	message, err := handler.service.SendMessage(ctx, id, req)
	if err != nil {
		response.WithTracedError(w, scope, err, "failed to send message")

		return
	}

	response.WithJSON(w, http.StatusCreated, message)
}

// UploadMedia stores an image or voice note for a conversation.
// @Summary Upload chat media
// @Tags Chat
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Conversation ID"
// @Param file formData file true "Image or audio file"
// @Success 201 {object} response.Data[dto.UploadMediaResponse]
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/conversations/{id}/media [post]
// @Security BearerAuth
func (handler *Handler) UploadMedia(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UploadMedia")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := validator.ValidateID(id); err != nil {
		response.WithError(w, err)

		return
	}

	if err := r.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		response.WithTracedError(w, scope, failure.BadRequest(err), "failed to parse multipart form")

		return
	}

	req := dto.UploadMediaRequest{}

	file, fileHeader, err := r.FormFile("file")
	if err == nil {
		req.File = fileHeader
		req.FileData = file

		defer file.Close()
	}

	if err := validator.ValidateStruct(&req); err != nil {
		response.WithTracedError(w, scope, err, "failed to validate request")

		return
	}

	res, err := handler.service.UploadMedia(ctx, id, req)
	if err != nil {
		response.WithTracedError(w, scope, err, "failed to upload chat media")

		return
	}

	response.WithJSON(w, http.StatusCreated, res)
}

// MarkRead marks the counterpart's messages in a conversation as read.
// @Summary Mark conversation read
// @Tags Chat
// @Produce json
// @Param id path string true "Conversation ID"
// @Success 200 {object} response.Message "Messages marked as read"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/conversations/{id}/read [patch]
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
		response.WithTracedError(w, scope, err, "failed to mark messages read")

		return
	}

	response.WithMessage(w, http.StatusOK, "Messages marked as read")
}

// SetMediaPermission lets the owner allow or forbid media in a conversation.
// @Summary Set media permission
// @Tags Chat
// @Accept json
// @Produce json
// @Param id path string true "Conversation ID"
// @Param request body dto.MediaPermissionRequest true "Media Permission Request"
// @Success 200 {object} response.Data[dto.ConversationResponse]
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/conversations/{id}/media-permission [patch]
// @Security BearerAuth
func (handler *Handler) SetMediaPermission(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".SetMediaPermission")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := validator.ValidateID(id); err != nil {
		response.WithError(w, err)

		return
	}

	req := dto.MediaPermissionRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		response.WithTracedError(w, scope, err, "failed to validate request body")

		return
	}

	conversation, err := handler.service.SetMediaPermission(ctx, id, req)
	if err != nil {
		response.WithTracedError(w, scope, err, "failed to set media permission")

		return
	}

	response.WithJSON(w, http.StatusOK, conversation)
}
