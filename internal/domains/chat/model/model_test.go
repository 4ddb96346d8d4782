package model_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"gamasa/internal/domains/chat/model"
)

func TestConversation_Counterpart(t *testing.T) {
	conversation := model.Conversation{TenantID: "tenant-1", OwnerID: "owner-1"}

	assert.Equal(t, "owner-1", conversation.Counterpart("tenant-1"))
	assert.Equal(t, "tenant-1", conversation.Counterpart("owner-1"))
	assert.Empty(t, conversation.Counterpart("user-9"))

	assert.True(t, conversation.IsParticipant("owner-1"))
	assert.False(t, conversation.IsParticipant("user-9"))
	assert.False(t, model.Conversation{}.IsParticipant(""))
}

func TestMessage_Preview(t *testing.T) {
	long := strings.Repeat("ش", 150)
	short := "أهلا"

	tests := []struct {
		name    string
		message model.Message
		want    string
	}{
		{name: "image", message: model.Message{MessageType: model.MessageTypeImage}, want: model.PreviewImage},
		{name: "voice", message: model.Message{MessageType: model.MessageTypeVoice}, want: model.PreviewVoice},
		{name: "text", message: model.Message{MessageType: model.MessageTypeText, Content: &short}, want: short},
		{name: "long text is cut by runes", message: model.Message{MessageType: model.MessageTypeText, Content: &long}, want: strings.Repeat("ش", 100)},
		{name: "empty", message: model.Message{MessageType: model.MessageTypeText}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.message.Preview())
		})
	}
}
