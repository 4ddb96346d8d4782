package model

import (
	"gamasa/shared/model"

	"github.com/lib/pq"
)

const (
	TableName  = "favorites"
	EntityName = "favorite"

	FieldID         = "id"
	FieldUserID     = "user_id"
	FieldPropertyID = "property_id"
)

// Favorite carries a summary of the saved property through the join.
type Favorite struct {
	ID             string         `db:"id"`
	UserID         string         `db:"user_id"`
	PropertyID     string         `db:"property_id"`
	PropertyTitle  *string        `db:"property_title"  table:"properties" column:"title"`
	PropertyCity   *string        `db:"property_city"   table:"properties" column:"city"`
	PropertyArea   *string        `db:"property_area"   table:"properties" column:"area"`
	PropertyPrice  *float64       `db:"property_price"  table:"properties" column:"price"`
	PropertyPeriod *string        `db:"property_period" table:"properties" column:"price_period"`
	PropertyStatus *string        `db:"property_status" table:"properties" column:"status"`
	PropertyImages pq.StringArray `db:"property_images" table:"properties" column:"images"`
	model.Metadata
}

func (Favorite) GetJoinQuery() string {
	return "LEFT JOIN properties ON properties.id = " + TableName + "." + FieldPropertyID
}
