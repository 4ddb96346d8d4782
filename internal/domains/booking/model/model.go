package model

import (
	"math"
	"slices"
	"time"

	propertyModel "gamasa/internal/domains/property/model"
	"gamasa/shared/model"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID         = "id"
	FieldPropertyID = "property_id"
	FieldTenantID   = "tenant_id"
	FieldOwnerID    = "owner_id"
	FieldCheckIn    = "check_in"
	FieldCheckOut   = "check_out"
	FieldGuests     = "guests"
	FieldTotalPrice = "total_price"
	FieldStatus     = "status"
	FieldNotes      = "notes"
)

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

// Parties of a booking allowed to move it between statuses.
const (
	ActorOwner  = "owner"
	ActorTenant = "tenant"
)

const (
	daysPerWeek  = 7
	daysPerMonth = 30
)

var transitions = map[string]map[string][]string{
	ActorOwner: {
		StatusPending:   {StatusConfirmed, StatusRejected},
		StatusConfirmed: {StatusCompleted},
	},
	ActorTenant: {
		StatusPending:   {StatusCancelled},
		StatusConfirmed: {StatusCancelled},
	},
}

type Booking struct {
	ID            string    `db:"id"`
	PropertyID    string    `db:"property_id"`
	TenantID      string    `db:"tenant_id"`
	OwnerID       string    `db:"owner_id"`
	CheckIn       time.Time `db:"check_in"`
	CheckOut      time.Time `db:"check_out"`
	Guests        int       `db:"guests"`
	TotalPrice    float64   `db:"total_price"`
	Status        string    `db:"status"`
	Notes         *string   `db:"notes"`
	PropertyTitle *string   `db:"property_title" table:"properties" column:"title"`
	model.Metadata
}

func (Booking) GetJoinQuery() string {
	return "LEFT JOIN " + propertyModel.TableName + " ON " + propertyModel.TableName + ".id = " + TableName + "." + FieldPropertyID
}

// Actor returns which party userID is in this booking, or empty when it is neither.
func (b Booking) Actor(userID string) string {
	switch {
	case userID == "":
		return ""
	case b.OwnerID == userID:
		return ActorOwner
	case b.TenantID == userID:
		return ActorTenant
	default:
		return ""
	}
}

func (b Booking) CanTransition(actor, to string) bool {
	return slices.Contains(transitions[actor][b.Status], to)
}

// Nights counts whole days between check-in and check-out.
func Nights(checkIn, checkOut time.Time) int {
	return int(math.Round(checkOut.Sub(checkIn).Hours() / 24))
}

// TotalPrice charges every started week or month in full for weekly and monthly listings.
func TotalPrice(price float64, period string, nights int) float64 {
	switch period {
	case propertyModel.PeriodWeekly:
		return price * math.Ceil(float64(nights)/daysPerWeek)
	case propertyModel.PeriodMonthly:
		return price * math.Ceil(float64(nights)/daysPerMonth)
	default:
		return price * float64(nights)
	}
}
