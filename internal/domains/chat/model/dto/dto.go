package dto

import (
	"mime/multipart"
	"strings"

	"gamasa/internal/domains/chat/model"
	"gamasa/shared"
	"gamasa/shared/constant"
	gDto "gamasa/shared/dto"
	gModel "gamasa/shared/model"
	"gamasa/shared/timezone"

	"github.com/google/uuid"
)

type StartConversationRequest struct {
	PropertyID string `json:"property_id" validate:"required,uuid4"`
}

func NewConversation(user, propertyID, ownerID string) model.Conversation {
	return model.Conversation{
		ID:         uuid.NewString(),
		PropertyID: propertyID,
		TenantID:   user,
		OwnerID:    ownerID,
		Metadata:   gModel.NewMetadata(user),
	}
}

type SendMessageRequest struct {
	MessageType string `json:"message_type" validate:"required,oneof=text image voice"`
	Content     string `json:"content"`
	MediaURL    string `json:"media_url"    validate:"omitempty,url,max=1000"`
}

func (s *SendMessageRequest) ToModel(user, conversationID string) model.Message {
	message := model.Message{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		SenderID:       user,
		MessageType:    s.MessageType,
		Metadata:       gModel.NewMetadata(user),
	}

	if content := strings.TrimSpace(s.Content); content != "" {
		message.Content = &content
	}

	if s.MediaURL != "" {
		message.MediaURL = &s.MediaURL
	}

	return message
}

type UploadMediaRequest struct {
	File     *multipart.FileHeader `json:"file" validate:"required,mimetypes=image/png image/jpg image/jpeg image/webp audio/webm audio/ogg audio/mpeg audio/mp4,maxfilesize=10"`
	FileData multipart.File        `json:"-"`
}

// MessageType derives the message type the uploaded file is meant for.
func (u *UploadMediaRequest) MessageType() string {
	if u.File != nil && strings.HasPrefix(u.File.Header.Get(constant.RequestHeaderContentType), "audio/") {
		return model.MessageTypeVoice
	}

	return model.MessageTypeImage
}

type UploadMediaResponse struct {
	URL         string `json:"url"`
	MessageType string `json:"message_type"`
}

type MediaPermissionRequest struct {
	Granted *bool `json:"granted" validate:"required"`
}

type ConversationResponse struct {
	ID              string  `json:"id"`
	PropertyID      string  `json:"property_id"`
	PropertyTitle   *string `json:"property_title,omitempty"`
	TenantID        string  `json:"tenant_id"`
	OwnerID         string  `json:"owner_id"`
	MediaPermission bool    `json:"media_permission"`
	LastMessage     *string `json:"last_message,omitempty"`
	LastMessageAt   *string `json:"last_message_at,omitempty"`
	gDto.Timestamps
}

func (r *ConversationResponse) FromModel(conversation model.Conversation) {
	r.ID = conversation.ID
	r.PropertyID = conversation.PropertyID
	r.PropertyTitle = conversation.PropertyTitle
	r.TenantID = conversation.TenantID
	r.OwnerID = conversation.OwnerID
	r.MediaPermission = conversation.MediaPermission
	r.LastMessage = conversation.LastMessage
	r.Timestamps.FromModel(conversation.Metadata)

	if conversation.LastMessageAt != nil {
		at := timezone.Format(*conversation.LastMessageAt, constant.DateFormat)
		r.LastMessageAt = &at
	}
}

type GetConversationsResponse struct {
	Conversations []ConversationResponse `json:"conversations"`
	TotalPage     int                    `json:"total_page"`
	TotalData     int                    `json:"total_data"`
}

func (r *GetConversationsResponse) FromModels(models []model.Conversation, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Conversations = make([]ConversationResponse, len(models))
	for i, mod := range models {
		r.Conversations[i].FromModel(mod)
	}
}

type MessageResponse struct {
	ID             string  `json:"id"`
	ConversationID string  `json:"conversation_id"`
	SenderID       string  `json:"sender_id"`
	MessageType    string  `json:"message_type"`
	Content        *string `json:"content,omitempty"`
	MediaURL       *string `json:"media_url,omitempty"`
	IsRead         bool    `json:"is_read"`
	gDto.Timestamps
}

func (r *MessageResponse) FromModel(message model.Message) {
	r.ID = message.ID
	r.ConversationID = message.ConversationID
	r.SenderID = message.SenderID
	r.MessageType = message.MessageType
	r.Content = message.Content
	r.MediaURL = message.MediaURL
	r.IsRead = message.IsRead
	r.Timestamps.FromModel(message.Metadata)
}

type GetMessagesResponse struct {
	Messages  []MessageResponse `json:"messages"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetMessagesResponse) FromModels(models []model.Message, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Messages = make([]MessageResponse, len(models))
	for i, mod := range models {
		r.Messages[i].FromModel(mod)
	}
}

// ReadReceipt is pushed to the sender when the counterpart reads the conversation.
type ReadReceipt struct {
	ConversationID string `json:"conversation_id"`
	ReaderID       string `json:"reader_id"`
	ReadAt         string `json:"read_at"`
}

type MediaPermissionEvent struct {
	ConversationID  string `json:"conversation_id"`
	MediaPermission bool   `json:"media_permission"`
}
