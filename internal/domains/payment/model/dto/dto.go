package dto

import (
	"mime/multipart"

	"gamasa/internal/domains/payment/model"
	"gamasa/shared"
	"gamasa/shared/constant"
	gDto "gamasa/shared/dto"
	gModel "gamasa/shared/model"
	"gamasa/shared/timezone"

	"github.com/google/uuid"
)

// CreatePaymentRequest carries a transfer receipt for a property unlock. The receipt is
// either uploaded with the request or referenced by a URL returned from an earlier upload.
type CreatePaymentRequest struct {
	PropertyID    string                `json:"property_id"    validate:"required,uuid4"`
	Amount        float64               `json:"amount"         validate:"gte=0"`
	PaymentMethod string                `json:"payment_method" validate:"required,oneof=vodafone_cash instapay bank_transfer other"`
	SenderPhone   string                `json:"sender_phone"   validate:"omitempty,numeric,min=8,max=15"`
	ReceiptURL    string                `json:"receipt_url"    validate:"omitempty,url"`
	Receipt       *multipart.FileHeader `json:"-"              validate:"omitempty,mimetypes=image/png image/jpg image/jpeg image/webp,maxfilesize=5"`
	ReceiptFile   multipart.File        `json:"-"`
}

func (c *CreatePaymentRequest) HasReceipt() bool {
	return c.Receipt != nil || c.ReceiptURL != ""
}

func (c *CreatePaymentRequest) ToModel(user, receiptURL string) model.Payment {
	payment := model.Payment{
		ID:            uuid.NewString(),
		UserID:        user,
		PropertyID:    c.PropertyID,
		Amount:        c.Amount,
		ReceiptURL:    receiptURL,
		PaymentMethod: c.PaymentMethod,
		Status:        model.StatusPending,
		Metadata:      gModel.NewMetadata(user),
	}

	if c.SenderPhone != "" {
		payment.SenderPhone = &c.SenderPhone
	}

	return payment
}

type ReviewPaymentRequest struct {
	Note string `json:"note" validate:"omitempty,max=500"`
}

type PaymentResponse struct {
	ID            string  `json:"id"`
	UserID        string  `json:"user_id"`
	PropertyID    string  `json:"property_id"`
	PropertyTitle *string `json:"property_title,omitempty"`
	Amount        float64 `json:"amount"`
	ReceiptURL    string  `json:"receipt_url"`
	PaymentMethod string  `json:"payment_method"`
	SenderPhone   *string `json:"sender_phone,omitempty"`
	Status        string  `json:"status"`
	AdminNote     *string `json:"admin_note,omitempty"`
	ReviewedBy    *string `json:"reviewed_by,omitempty"`
	ReviewedAt    *string `json:"reviewed_at,omitempty"`
	UsedAt        *string `json:"used_at,omitempty"`
	gDto.Timestamps
}

func (p *PaymentResponse) FromModel(model model.Payment) {
	p.ID = model.ID
	p.UserID = model.UserID
	p.PropertyID = model.PropertyID
	p.PropertyTitle = model.PropertyTitle
	p.Amount = model.Amount
	p.ReceiptURL = model.ReceiptURL
	p.PaymentMethod = model.PaymentMethod
	p.SenderPhone = model.SenderPhone
	p.Status = model.Status
	p.AdminNote = model.AdminNote
	p.ReviewedBy = model.ReviewedBy

	if model.ReviewedAt != nil {
		reviewedAt := timezone.Format(*model.ReviewedAt, constant.DateFormat)
		p.ReviewedAt = &reviewedAt
	}

	if model.UsedAt != nil {
		usedAt := timezone.Format(*model.UsedAt, constant.DateFormat)
		p.UsedAt = &usedAt
	}

	p.Timestamps.FromModel(model.Metadata)
}

type GetPaymentsResponse struct {
	Payments  []PaymentResponse `json:"payments"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetPaymentsResponse) FromModels(models []model.Payment, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Payments = make([]PaymentResponse, len(models))
	for i, mod := range models {
		r.Payments[i].FromModel(mod)
	}
}

type UnlockResponse struct {
	PropertyID string `json:"property_id"`
	Unlocked   bool   `json:"unlocked"`
}

type UnlockedPropertiesResponse struct {
	PropertyIDs []string `json:"property_ids"`
}

func (u *UnlockedPropertiesResponse) FromModels(models []model.Unlock) {
	u.PropertyIDs = make([]string, len(models))
	for i, mod := range models {
		u.PropertyIDs[i] = mod.PropertyID
	}
}
