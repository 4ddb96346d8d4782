package model

import "gamasa/shared/model"

const (
	TableName  = "notifications"
	EntityName = "notification"

	FieldID     = "id"
	FieldUserID = "user_id"
	FieldTitle  = "title"
	FieldBody   = "body"
	FieldType   = "type"
	FieldLink   = "link"
	FieldIsRead = "is_read"
)

// Notification types.
const (
	TypeBooking  = "booking"
	TypePayment  = "payment"
	TypeProperty = "property"
	TypeMessage  = "message"
	TypeReview   = "review"
	TypeSystem   = "system"
)

type Notification struct {
	ID     string  `db:"id"`
	UserID string  `db:"user_id"`
	Title  string  `db:"title"`
	Body   string  `db:"body"`
	Type   string  `db:"type"`
	Link   *string `db:"link"`
	IsRead bool    `db:"is_read"`
	model.Metadata
}
