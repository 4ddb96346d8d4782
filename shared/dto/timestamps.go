package dto

import (
	"time"

	"gamasa/shared/constant"
	"gamasa/shared/model"
	"gamasa/shared/timezone"
)

// Timestamps is the audit part of a response, in local time. The actor columns stay
// server side.
type Timestamps struct {
	CreatedAt  string `json:"created_at"`
	ModifiedAt string `json:"modified_at,omitempty"`
}

func (t *Timestamps) FromModel(metadata model.Metadata) {
	t.CreatedAt = formatTime(metadata.CreatedAt)
	t.ModifiedAt = formatTime(metadata.ModifiedAt)
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return constant.Empty
	}

	return timezone.Format(value, constant.DateFormat)
}
