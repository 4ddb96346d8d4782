package model

import (
	"gamasa/shared/model"

	"github.com/lib/pq"
)

const (
	TableName  = "properties"
	EntityName = "property"

	FieldID              = "id"
	FieldOwnerID         = "owner_id"
	FieldTitle           = "title"
	FieldDescription     = "description"
	FieldPropertyType    = "property_type"
	FieldCity            = "city"
	FieldArea            = "area"
	FieldAddress         = "address"
	FieldPrice           = "price"
	FieldPricePeriod     = "price_period"
	FieldBedrooms        = "bedrooms"
	FieldBathrooms       = "bathrooms"
	FieldMaxGuests       = "max_guests"
	FieldFurnished       = "furnished"
	FieldAmenities       = "amenities"
	FieldImages          = "images"
	FieldLatitude        = "latitude"
	FieldLongitude       = "longitude"
	FieldGeohash         = "geohash"
	FieldSearchText      = "search_text"
	FieldStatus          = "status"
	FieldRejectionReason = "rejection_reason"
	FieldViews           = "views"

	joinTable = "profiles"
)

const (
	StatusPending   = "pending"
	StatusAvailable = "available"
	StatusRejected  = "rejected"
	StatusRented    = "rented"
)

const (
	PeriodDaily   = "daily"
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
)

type Property struct {
	ID              string         `db:"id"`
	OwnerID         string         `db:"owner_id"`
	Title           string         `db:"title"`
	Description     string         `db:"description"`
	PropertyType    string         `db:"property_type"`
	City            string         `db:"city"`
	Area            string         `db:"area"`
	Address         *string        `db:"address"`
	Price           float64        `db:"price"`
	PricePeriod     string         `db:"price_period"`
	Bedrooms        int            `db:"bedrooms"`
	Bathrooms       int            `db:"bathrooms"`
	MaxGuests       *int           `db:"max_guests"`
	Furnished       bool           `db:"furnished"`
	Amenities       pq.StringArray `db:"amenities"`
	Images          pq.StringArray `db:"images"`
	Latitude        *float64       `db:"latitude"`
	Longitude       *float64       `db:"longitude"`
	Geohash         *string        `db:"geohash"`
	SearchText      string         `db:"search_text"`
	Status          string         `db:"status"`
	RejectionReason *string        `db:"rejection_reason"`
	Views           int            `db:"views"`
	OwnerName       *string        `db:"owner_name"  table:"profiles" column:"full_name"`
	OwnerPhone      *string        `db:"owner_phone" table:"profiles" column:"phone"`
	model.Metadata
}

func (Property) GetJoinQuery() string {
	return "LEFT JOIN " + joinTable + " ON " + joinTable + ".id = " + TableName + "." + FieldOwnerID
}

func (p Property) IsOwner(userID string) bool {
	return userID != "" && p.OwnerID == userID
}
