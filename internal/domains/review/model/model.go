package model

import (
	"gamasa/shared/model"
)

const (
	TableName  = "reviews"
	EntityName = "review"

	FieldID         = "id"
	FieldPropertyID = "property_id"
	FieldUserID     = "user_id"
	FieldRating     = "rating"
	FieldComment    = "comment"
)

type Review struct {
	ID           string  `db:"id"`
	PropertyID   string  `db:"property_id"`
	UserID       string  `db:"user_id"`
	Rating       int     `db:"rating"`
	Comment      *string `db:"comment"`
	ReviewerName *string `db:"reviewer_name" table:"profiles" column:"full_name"`
	model.Metadata
}

func (Review) GetJoinQuery() string {
	return "LEFT JOIN profiles ON profiles.id = " + TableName + "." + FieldUserID
}

// Summary aggregates the ratings of one property.
type Summary struct {
	Count   int     `db:"count"`
	Average float64 `db:"average"`
}
