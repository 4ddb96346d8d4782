package dto

import (
	"gamasa/internal/domains/notification/model"
	"gamasa/shared"
	gDto "gamasa/shared/dto"
	gModel "gamasa/shared/model"

	"github.com/google/uuid"
)

// NotificationEvent is produced by the domains and delivered through the notification topic.
// Role addresses every active profile holding it when UserID is empty.
type NotificationEvent struct {
	UserID string `json:"user_id,omitempty" validate:"required_without=Role"`
	Role   string `json:"role,omitempty"    validate:"required_without=UserID"`
	Title  string `json:"title"             validate:"required,max=200"`
	Body   string `json:"body"              validate:"required,max=1000"`
	Type   string `json:"type"              validate:"required,oneof=booking payment property message review system"`
	Link   string `json:"link,omitempty"    validate:"omitempty,max=500"`
}

func (e *NotificationEvent) ToModel(user, userID string) model.Notification {
	notification := model.Notification{
		ID:       uuid.NewString(),
		UserID:   userID,
		Title:    e.Title,
		Body:     e.Body,
		Type:     e.Type,
		IsRead:   false,
		Metadata: gModel.NewMetadata(user),
	}

	if e.Link != "" {
		link := e.Link
		notification.Link = &link
	}

	return notification
}

type NotificationResponse struct {
	ID     string  `json:"id"`
	Title  string  `json:"title"`
	Body   string  `json:"body"`
	Type   string  `json:"type"`
	Link   *string `json:"link,omitempty"`
	IsRead bool    `json:"is_read"`
	gDto.Timestamps
}

func (n *NotificationResponse) FromModel(model model.Notification) {
	n.ID = model.ID
	n.Title = model.Title
	n.Body = model.Body
	n.Type = model.Type
	n.Link = model.Link
	n.IsRead = model.IsRead
	n.Timestamps.FromModel(model.Metadata)
}

type GetNotificationsResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	TotalPage     int                    `json:"total_page"`
	TotalData     int                    `json:"total_data"`
}

func (r *GetNotificationsResponse) FromModels(models []model.Notification, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Notifications = make([]NotificationResponse, len(models))
	for i, mod := range models {
		r.Notifications[i].FromModel(mod)
	}
}

type UnreadCountResponse struct {
	Count int `json:"count"`
}

type MarkReadRequest struct {
	IsRead bool `db:"is_read"`
}
