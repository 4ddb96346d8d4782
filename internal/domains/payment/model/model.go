package model

import (
	"time"

	"gamasa/shared/model"
)

const (
	TableName  = "payment_requests"
	EntityName = "payment_request"

	FieldID            = "id"
	FieldUserID        = "user_id"
	FieldPropertyID    = "property_id"
	FieldAmount        = "amount"
	FieldReceiptURL    = "receipt_url"
	FieldPaymentMethod = "payment_method"
	FieldSenderPhone   = "sender_phone"
	FieldStatus        = "status"
	FieldAdminNote     = "admin_note"
	FieldReviewedBy    = "reviewed_by"
	FieldReviewedAt    = "reviewed_at"
	FieldUsedAt        = "used_at"

	UnlockTableName  = "unlocked_properties"
	UnlockEntityName = "unlocked_property"
	FieldPaymentID   = "payment_id"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
	StatusUsed     = "used"
)

const (
	MethodVodafoneCash = "vodafone_cash"
	MethodInstaPay     = "instapay"
	MethodBankTransfer = "bank_transfer"
	MethodOther        = "other"
)

type Payment struct {
	ID            string     `db:"id"`
	UserID        string     `db:"user_id"`
	PropertyID    string     `db:"property_id"`
	Amount        float64    `db:"amount"`
	ReceiptURL    string     `db:"receipt_url"`
	PaymentMethod string     `db:"payment_method"`
	SenderPhone   *string    `db:"sender_phone"`
	Status        string     `db:"status"`
	AdminNote     *string    `db:"admin_note"`
	ReviewedBy    *string    `db:"reviewed_by"`
	ReviewedAt    *time.Time `db:"reviewed_at"`
	UsedAt        *time.Time `db:"used_at"`
	PropertyTitle *string    `db:"property_title" table:"properties" column:"title"`
	model.Metadata
}

func (Payment) GetJoinQuery() string {
	return "LEFT JOIN properties ON properties.id = " + TableName + "." + FieldPropertyID
}

// Unlock records that a user paid to see the contact details of a property.
type Unlock struct {
	ID         string `db:"id"`
	UserID     string `db:"user_id"`
	PropertyID string `db:"property_id"`
	PaymentID  string `db:"payment_id"`
	model.Metadata
}
