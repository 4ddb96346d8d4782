package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"gamasa/infras/otel"
	"gamasa/infras/postgres"
	"gamasa/internal/domains/chat/model"
	gDto "gamasa/shared/dto"
	gRepo "gamasa/shared/repository"
)

type Conversation interface {
	Insert(ctx context.Context, model model.Conversation) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Conversation, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Conversation, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
}

type Message interface {
	Insert(ctx context.Context, model model.Message) error
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Message, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
}

type conversationRepositoryImpl struct {
	gRepo.Repository[model.Conversation]
}

func NewConversation(db *postgres.Connection, otel otel.Otel) Conversation {
	return &conversationRepositoryImpl{
		Repository: gRepo.NewRepository[model.Conversation](model.ConversationEntityName, model.ConversationTableName, model.FieldID, db, otel),
	}
}

type messageRepositoryImpl struct {
	gRepo.Repository[model.Message]
}

func NewMessage(db *postgres.Connection, otel otel.Otel) Message {
	return &messageRepositoryImpl{
		Repository: gRepo.NewRepository[model.Message](model.MessageEntityName, model.MessageTableName, model.FieldID, db, otel),
	}
}

// ParticipantFilter matches the conversations where userID is the tenant or the owner.
func ParticipantFilter(userID string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorOr,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldTenantID,
				Value:    userID,
				Operator: gDto.FilterOperatorEq,
				Table:    model.ConversationTableName,
			},
			gDto.Filter{
				Field:    model.FieldOwnerID,
				Value:    userID,
				Operator: gDto.FilterOperatorEq,
				Table:    model.ConversationTableName,
			},
		},
	}
}

// UnreadFilter matches the unread messages of a conversation sent by someone other than readerID.
func UnreadFilter(conversationID, readerID string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldConversationID,
				Value:    conversationID,
				Operator: gDto.FilterOperatorEq,
				Table:    model.MessageTableName,
			},
			gDto.Filter{
				Field:    model.FieldSenderID,
				Value:    readerID,
				Operator: gDto.FilterOperatorNotEq,
				Table:    model.MessageTableName,
			},
			gDto.Filter{
				Field:    model.FieldIsRead,
				Value:    false,
				Operator: gDto.FilterOperatorEq,
				Table:    model.MessageTableName,
			},
		},
	}
}
