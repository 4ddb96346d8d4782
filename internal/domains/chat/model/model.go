package model

import (
	"time"

	"gamasa/shared/model"
)

const (
	ConversationTableName  = "conversations"
	ConversationEntityName = "conversation"

	FieldID              = "id"
	FieldPropertyID      = "property_id"
	FieldTenantID        = "tenant_id"
	FieldOwnerID         = "owner_id"
	FieldMediaPermission = "media_permission"
	FieldLastMessage     = "last_message"
	FieldLastMessageAt   = "last_message_at"

	MessageTableName  = "messages"
	MessageEntityName = "message"

	FieldConversationID = "conversation_id"
	FieldSenderID       = "sender_id"
	FieldMessageType    = "message_type"
	FieldContent        = "content"
	FieldMediaURL       = "media_url"
	FieldIsRead         = "is_read"
)

const (
	MessageTypeText  = "text"
	MessageTypeImage = "image"
	MessageTypeVoice = "voice"
)

// Previews stored as the last message of media conversations.
const (
	PreviewImage = "📷 صورة"
	PreviewVoice = "🎤 رسالة صوتية"
)

const previewMaxRunes = 100

type Conversation struct {
	ID              string     `db:"id"`
	PropertyID      string     `db:"property_id"`
	TenantID        string     `db:"tenant_id"`
	OwnerID         string     `db:"owner_id"`
	MediaPermission bool       `db:"media_permission"`
	LastMessage     *string    `db:"last_message"`
	LastMessageAt   *time.Time `db:"last_message_at"`
	PropertyTitle   *string    `db:"property_title" table:"properties" column:"title"`
	model.Metadata
}

func (Conversation) GetJoinQuery() string {
	return "LEFT JOIN properties ON properties.id = " + ConversationTableName + "." + FieldPropertyID
}

func (c Conversation) IsParticipant(userID string) bool {
	return userID != "" && (userID == c.TenantID || userID == c.OwnerID)
}

// Counterpart returns the other participant, or empty when userID is not a participant.
func (c Conversation) Counterpart(userID string) string {
	switch userID {
	case c.TenantID:
		return c.OwnerID
	case c.OwnerID:
		return c.TenantID
	default:
		return ""
	}
}

type Message struct {
	ID             string  `db:"id"`
	ConversationID string  `db:"conversation_id"`
	SenderID       string  `db:"sender_id"`
	MessageType    string  `db:"message_type"`
	Content        *string `db:"content"`
	MediaURL       *string `db:"media_url"`
	IsRead         bool    `db:"is_read"`
	model.Metadata
}

func IsMedia(messageType string) bool {
	return messageType == MessageTypeImage || messageType == MessageTypeVoice
}

// Preview is the text kept on the conversation for its latest message.
func (m Message) Preview() string {
	switch m.MessageType {
	case MessageTypeImage:
		return PreviewImage
	case MessageTypeVoice:
		return PreviewVoice
	}

	if m.Content == nil {
		return ""
	}

	runes := []rune(*m.Content)
	if len(runes) > previewMaxRunes {
		return string(runes[:previewMaxRunes])
	}

	return *m.Content
}
