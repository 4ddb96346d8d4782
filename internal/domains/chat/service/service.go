package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"path"
	"strings"
	"unicode/utf8"

	"gamasa/config"
	"gamasa/infras/otel"
	"gamasa/infras/s3"
	"gamasa/internal/domains/chat/model"
	"gamasa/internal/domains/chat/model/dto"
	"gamasa/internal/domains/chat/repository"
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
	"gamasa/shared/realtime"
	gRepo "gamasa/shared/repository"
	"gamasa/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetParticipants = "chat:participants"
	cacheGetContacts     = "chat:contacts"

	contactsLimit = 500

	errMessageTooLongFormat = "message content must not exceed %d characters"
)

var (
	ErrConversationNotFound = failure.NotFound("conversation not found")
	ErrPropertyNotFound     = failure.NotFound("property not found")
	ErrNotParticipant       = failure.Forbidden("you are not a participant of this conversation")
	ErrOwnProperty          = failure.BadRequestFromString("you cannot start a conversation about your own property")
	ErrMediaNotPermitted    = failure.Forbidden("media sharing is not permitted in this conversation")
	ErrMediaURLRequired     = failure.BadRequestFromString("media_url is required for image and voice messages")
	ErrEmptyMessage         = failure.BadRequestFromString("message content is required")
	ErrPermissionDenied     = failure.Forbidden("only the property owner can change media permission")
)

type Chat interface {
	StartConversation(ctx context.Context, req dto.StartConversationRequest) (dto.ConversationResponse, error)
	ListConversations(ctx context.Context, params gDto.QueryParams) (dto.GetConversationsResponse, error)
	GetConversation(ctx context.Context, id string) (dto.ConversationResponse, error)
	SendMessage(ctx context.Context, conversationID string, req dto.SendMessageRequest) (dto.MessageResponse, error)
	UploadMedia(ctx context.Context, conversationID string, req dto.UploadMediaRequest) (dto.UploadMediaResponse, error)
	ListMessages(ctx context.Context, conversationID string, params gDto.QueryParams) (dto.GetMessagesResponse, error)
	MarkRead(ctx context.Context, conversationID string) error
	SetMediaPermission(ctx context.Context, conversationID string, req dto.MediaPermissionRequest) (dto.ConversationResponse, error)
	Participants(ctx context.Context, conversationID, userID string) ([]string, error)
	Contacts(ctx context.Context, userID string) ([]string, error)
}

type serviceImpl struct {
	conversationRepo repository.Conversation
	messageRepo      repository.Message
	propertyRepo     propertyRepo.Property
	storage          s3.S3
	realtime         realtime.Publisher
	notifier         publisher.Publisher
	cfg              *config.Config
	cache            cache.RedisCache
	otel             otel.Otel
}

func New(
	conversationRepo repository.Conversation,
	messageRepo repository.Message,
	propertyRepo propertyRepo.Property,
	storage s3.S3,
	realtime realtime.Publisher,
	notifier publisher.Publisher,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Chat {
	return &serviceImpl{
		conversationRepo: conversationRepo,
		messageRepo:      messageRepo,
		propertyRepo:     propertyRepo,
		storage:          storage,
		realtime:         realtime,
		notifier:         notifier,
		cfg:              cfg,
		cache:            cache,
		otel:             otel,
	}
}

// StartConversation returns the tenant's conversation about the property, creating it on first contact.
func (s *serviceImpl) StartConversation(ctx context.Context, req dto.StartConversationRequest) (res dto.ConversationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".StartConversation")
	defer scope.End()
	defer scope.TraceIfError(&err)

	userID, _ := shared.UserFromContext(ctx)

	property, err := s.propertyRepo.Get(ctx, shared.FilterByID(req.PropertyID, propertyModel.FieldID, propertyModel.TableName),
		propertyModel.FieldID, propertyModel.FieldOwnerID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get property")

		return res, fmt.Errorf("failed to get property: %w", err)
	}

	if property.ID == constant.Empty {
		return res, ErrPropertyNotFound
	}

	if property.OwnerID == userID {
		return res, ErrOwnProperty
	}

	filter := shared.FilterByFields(model.ConversationTableName, map[string]any{
		model.FieldPropertyID: req.PropertyID,
		model.FieldTenantID:   userID,
		model.FieldOwnerID:    property.OwnerID,
	})

	conversation, err := s.conversationRepo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get conversation")

		return res, fmt.Errorf("failed to get conversation: %w", err)
	}

	if conversation.ID != constant.Empty {
		res.FromModel(conversation)

		return res, nil
	}

	conversation = dto.NewConversation(userID, req.PropertyID, property.OwnerID)

	if err = s.conversationRepo.Insert(ctx, conversation); err != nil {
		if !gRepo.IsUniqueViolation(err) {
			log.Error().Err(err).Msg("failed to create conversation")

			return res, fmt.Errorf("failed to create conversation: %w", err)
		}

		// a concurrent request created it first
		if conversation, err = s.conversationRepo.Get(ctx, filter); err != nil {
			return res, fmt.Errorf("failed to get conversation: %w", err)
		}
	} else {
		go func() {
			c := context.WithoutCancel(ctx)

			shared.InvalidateCaches(c, s.cache, shared.BuildCacheKey(cacheGetContacts, userID))
			shared.InvalidateCaches(c, s.cache, shared.BuildCacheKey(cacheGetContacts, property.OwnerID))
		}()
	}

	res.FromModel(conversation)

	return res, nil
}

func (s *serviceImpl) ListConversations(ctx context.Context, params gDto.QueryParams) (res dto.GetConversationsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ListConversations")
	defer scope.End()
	defer scope.TraceIfError(&err)

	userID, _ := shared.UserFromContext(ctx)
	filter := repository.ParticipantFilter(userID)

	params.SortBy = model.ConversationTableName + "." + constant.FieldModifiedAt
	params.SortDir = gDto.SortDirDesc

	total, err := s.conversationRepo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count conversations")

		return res, fmt.Errorf("failed to count conversations: %w", err)
	}

	conversations, err := s.conversationRepo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get conversations")

		return res, fmt.Errorf("failed to get conversations: %w", err)
	}

	res.FromModels(conversations, total, params.Limit)

	return res, nil
}

func (s *serviceImpl) GetConversation(ctx context.Context, id string) (res dto.ConversationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetConversation")
	defer scope.End()
	defer scope.TraceIfError(&err)

	conversation, err := s.readable(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(conversation)

	return res, nil
}

func (s *serviceImpl) SendMessage(ctx context.Context, conversationID string, req dto.SendMessageRequest) (res dto.MessageResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".SendMessage")
	defer scope.End()
	defer scope.TraceIfError(&err)

	userID, _ := shared.UserFromContext(ctx)

	conversation, err := s.participantOnly(ctx, conversationID, userID)
	if err != nil {
		return res, err
	}

	if err = s.checkContent(conversation, req); err != nil {
		return res, err
	}

	message := req.ToModel(userID, conversationID)

	if err = s.messageRepo.Insert(ctx, message); err != nil {
		log.Error().Err(err).Msg("failed to send message")

		return res, fmt.Errorf("failed to send message: %w", err)
	}

	preview := message.Preview()
	now := timezone.Now()

	update := map[string]any{
		model.FieldLastMessage:   preview,
		model.FieldLastMessageAt: now,
		constant.FieldModifiedAt: now,
		constant.FieldModifiedBy: userID,
	}

	if err := s.conversationRepo.Update(ctx, update, shared.FilterByID(conversationID, model.FieldID, model.ConversationTableName)); err != nil {
		log.Error().Err(err).Str("conversation_id", conversationID).Msg("failed to update last message")
	}

	res.FromModel(message)

	s.push(ctx, realtime.Event{Type: realtime.EventMessageNew, Payload: res}, conversation.TenantID, conversation.OwnerID)

	publisher.Notify(ctx, s.notifier, notificationDto.NotificationEvent{
		UserID: conversation.Counterpart(userID),
		Title:  "رسالة جديدة",
		Body:   preview,
		Type:   notificationModel.TypeMessage,
		Link:   "/chat/" + conversationID,
	})

	return res, nil
}

func (s *serviceImpl) UploadMedia(ctx context.Context, conversationID string, req dto.UploadMediaRequest) (res dto.UploadMediaResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UploadMedia")
	defer scope.End()
	defer scope.TraceIfError(&err)

	userID, _ := shared.UserFromContext(ctx)

	conversation, err := s.participantOnly(ctx, conversationID, userID)
	if err != nil {
		return res, err
	}

	if !conversation.MediaPermission {
		return res, ErrMediaNotPermitted
	}

	res.URL, err = s.storage.UploadFile(ctx, path.Join(s3.DirectoryChat, conversationID), req.FileData, req.File)
	if err != nil {
		log.Error().Err(err).Msg("failed to upload chat media")

		return res, fmt.Errorf("failed to upload chat media: %w", err)
	}

	res.MessageType = req.MessageType()

	return res, nil
}

func (s *serviceImpl) ListMessages(ctx context.Context, conversationID string, params gDto.QueryParams) (res dto.GetMessagesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ListMessages")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if _, err = s.readable(ctx, conversationID); err != nil {
		return res, err
	}

	filter := shared.FilterByFields(model.MessageTableName, map[string]any{model.FieldConversationID: conversationID})

	params.SortBy = model.MessageTableName + "." + constant.FieldCreatedAt
	params.SortDir = gDto.SortDirDesc

	total, err := s.messageRepo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count messages")

		return res, fmt.Errorf("failed to count messages: %w", err)
	}

	messages, err := s.messageRepo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get messages")

		return res, fmt.Errorf("failed to get messages: %w", err)
	}

	res.FromModels(messages, total, params.Limit)

	return res, nil
}

// MarkRead marks what the counterpart sent as read and tells the counterpart about it.
func (s *serviceImpl) MarkRead(ctx context.Context, conversationID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".MarkRead")
	defer scope.End()
	defer scope.TraceIfError(&err)

	userID, _ := shared.UserFromContext(ctx)

	conversation, err := s.participantOnly(ctx, conversationID, userID)
	if err != nil {
		return err
	}

	now := timezone.Now()

	update := map[string]any{
		model.FieldIsRead:        true,
		constant.FieldModifiedAt: now,
		constant.FieldModifiedBy: userID,
	}

	if err = s.messageRepo.Update(ctx, update, repository.UnreadFilter(conversationID, userID)); err != nil {
		log.Error().Err(err).Msg("failed to mark messages as read")

		return fmt.Errorf("failed to mark messages as read: %w", err)
	}

	s.push(ctx, realtime.Event{
		Type: realtime.EventMessageRead,
		Payload: dto.ReadReceipt{
			ConversationID: conversationID,
			ReaderID:       userID,
			ReadAt:         timezone.Format(now, constant.DateFormat),
		},
	}, conversation.Counterpart(userID))

	return nil
}

func (s *serviceImpl) SetMediaPermission(ctx context.Context, conversationID string, req dto.MediaPermissionRequest) (res dto.ConversationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".SetMediaPermission")
	defer scope.End()
	defer scope.TraceIfError(&err)

	userID, role := shared.UserFromContext(ctx)

	conversation, err := s.get(ctx, conversationID)
	if err != nil {
		return res, err
	}

	if conversation.OwnerID != userID && !shared.IsAdmin(role) {
		return res, ErrPermissionDenied
	}

	granted := req.Granted != nil && *req.Granted

	update := map[string]any{
		model.FieldMediaPermission: granted,
		constant.FieldModifiedAt:   timezone.Now(),
		constant.FieldModifiedBy:   userID,
	}

	if err = s.conversationRepo.Update(ctx, update, shared.FilterByID(conversationID, model.FieldID, model.ConversationTableName)); err != nil {
		log.Error().Err(err).Msg("failed to update media permission")

		return res, fmt.Errorf("failed to update media permission: %w", err)
	}

	conversation.MediaPermission = granted

	s.push(ctx, realtime.Event{
		Type: realtime.EventMediaPermission,
		Payload: dto.MediaPermissionEvent{
			ConversationID:  conversationID,
			MediaPermission: granted,
		},
	}, conversation.TenantID, conversation.OwnerID)

	res.FromModel(conversation)

	return res, nil
}

// Participants returns both participants when userID is one of them. The pair never
// changes, so it is cached for the realtime hub which asks on every typing event.
func (s *serviceImpl) Participants(ctx context.Context, conversationID, userID string) (res []string, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Participants")
	defer scope.End()
	defer scope.TraceIfError(&err)

	cacheKey := shared.BuildCacheKey(cacheGetParticipants, conversationID)

	if cacheErr := s.cache.Get(ctx, cacheKey, &res); cacheErr != nil || len(res) != 2 {
		var conversation model.Conversation

		conversation, err = s.get(ctx, conversationID)
		if err != nil {
			return nil, err
		}

		res = []string{conversation.TenantID, conversation.OwnerID}

		go func() {
			c := context.WithoutCancel(ctx)

			if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
				log.Error().Err(err).Msg("failed to save participants to cache")
			}
		}()
	}

	if userID != res[0] && userID != res[1] {
		return nil, ErrNotParticipant
	}

	return res, nil
}

// Contacts returns the distinct counterparts of every conversation userID takes part in.
func (s *serviceImpl) Contacts(ctx context.Context, userID string) (res []string, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Contacts")
	defer scope.End()
	defer scope.TraceIfError(&err)

	cacheKey := shared.BuildCacheKey(cacheGetContacts, userID)

	if cacheErr := s.cache.Get(ctx, cacheKey, &res); cacheErr == nil {
		return res, nil
	}

	params := gDto.QueryParams{Page: 1, Limit: contactsLimit}

	conversations, err := s.conversationRepo.GetAll(ctx, params, repository.ParticipantFilter(userID))
	if err != nil {
		log.Error().Err(err).Msg("failed to get conversations for contacts")

		return nil, fmt.Errorf("failed to get contacts: %w", err)
	}

	seen := make(map[string]struct{}, len(conversations))
	res = make([]string, 0, len(conversations))

	for _, conversation := range conversations {
		counterpart := conversation.Counterpart(userID)
		if counterpart == constant.Empty {
			continue
		}

		if _, ok := seen[counterpart]; ok {
			continue
		}

		seen[counterpart] = struct{}{}
		res = append(res, counterpart)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save contacts to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) checkContent(conversation model.Conversation, req dto.SendMessageRequest) error {
	if !model.IsMedia(req.MessageType) {
		content := strings.TrimSpace(req.Content)
		if content == constant.Empty {
			return ErrEmptyMessage
		}

		if utf8.RuneCountInString(content) > s.maxMessageLength() {
			return failure.BadRequestFromString(fmt.Sprintf(errMessageTooLongFormat, s.maxMessageLength()))
		}

		return nil
	}

	if !conversation.MediaPermission {
		return ErrMediaNotPermitted
	}

	if req.MediaURL == constant.Empty {
		return ErrMediaURLRequired
	}

	return nil
}

func (s *serviceImpl) maxMessageLength() int {
	if s.cfg.Chat.MaxMessageLength > 0 {
		return s.cfg.Chat.MaxMessageLength
	}

	return constant.DefaultMaxMessageLength
}

func (s *serviceImpl) get(ctx context.Context, id string) (model.Conversation, error) {
	conversation, err := s.conversationRepo.Get(ctx, shared.FilterByID(id, model.FieldID, model.ConversationTableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get conversation")

		return conversation, fmt.Errorf("failed to get conversation: %w", err)
	}

	if conversation.ID == constant.Empty {
		return conversation, ErrConversationNotFound
	}

	return conversation, nil
}

func (s *serviceImpl) participantOnly(ctx context.Context, id, userID string) (model.Conversation, error) {
	conversation, err := s.get(ctx, id)
	if err != nil {
		return conversation, err
	}

	if !conversation.IsParticipant(userID) {
		return conversation, ErrNotParticipant
	}

	return conversation, nil
}

// readable lets admins read any conversation.
func (s *serviceImpl) readable(ctx context.Context, id string) (model.Conversation, error) {
	userID, role := shared.UserFromContext(ctx)

	conversation, err := s.get(ctx, id)
	if err != nil {
		return conversation, err
	}

	if !conversation.IsParticipant(userID) && !shared.IsAdmin(role) {
		return conversation, ErrNotParticipant
	}

	return conversation, nil
}

func (s *serviceImpl) push(ctx context.Context, event realtime.Event, userIDs ...string) {
	if err := s.realtime.Publish(context.WithoutCancel(ctx), event, userIDs...); err != nil {
		log.Error().Err(err).Str("type", event.Type).Msg("failed to push realtime event")
	}
}
