package dto

import (
	"time"

	"gamasa/internal/domains/booking/model"
	"gamasa/shared"
	"gamasa/shared/constant"
	gDto "gamasa/shared/dto"
	gModel "gamasa/shared/model"
	"gamasa/shared/timezone"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	PropertyID string `json:"property_id" validate:"required,uuid4"`
	CheckIn    string `json:"check_in"    validate:"required,date_ymd"`
	CheckOut   string `json:"check_out"   validate:"required,date_ymd"`
	Guests     int    `json:"guests"      validate:"required,gte=1,lte=100"`
	Notes      string `json:"notes"       validate:"omitempty,max=1000"`
}

// Dates parses the stay in the application timezone. Both values are already
// checked by the date_ymd rule.
func (c *CreateBookingRequest) Dates() (checkIn, checkOut time.Time, err error) {
	checkIn, err = timezone.Parse(constant.DateOnlyFormat, c.CheckIn)
	if err != nil {
		return checkIn, checkOut, err
	}

	checkOut, err = timezone.Parse(constant.DateOnlyFormat, c.CheckOut)

	return checkIn, checkOut, err
}

func (c *CreateBookingRequest) ToModel(user, ownerID string, checkIn, checkOut time.Time, totalPrice float64) model.Booking {
	booking := model.Booking{
		ID:         uuid.NewString(),
		PropertyID: c.PropertyID,
		TenantID:   user,
		OwnerID:    ownerID,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Guests:     c.Guests,
		TotalPrice: totalPrice,
		Status:     model.StatusPending,
		Metadata:   gModel.NewMetadata(user),
	}

	if c.Notes != "" {
		booking.Notes = &c.Notes
	}

	return booking
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=confirmed rejected cancelled completed"`
}

type BookingResponse struct {
	ID            string  `json:"id"`
	PropertyID    string  `json:"property_id"`
	PropertyTitle *string `json:"property_title,omitempty"`
	TenantID      string  `json:"tenant_id"`
	OwnerID       string  `json:"owner_id"`
	CheckIn       string  `json:"check_in"`
	CheckOut      string  `json:"check_out"`
	Nights        int     `json:"nights"`
	Guests        int     `json:"guests"`
	TotalPrice    float64 `json:"total_price"`
	Status        string  `json:"status"`
	Notes         *string `json:"notes,omitempty"`
	gDto.Timestamps
}

func (r *BookingResponse) FromModel(booking model.Booking) {
	r.ID = booking.ID
	r.PropertyID = booking.PropertyID
	r.PropertyTitle = booking.PropertyTitle
	r.TenantID = booking.TenantID
	r.OwnerID = booking.OwnerID
	r.CheckIn = timezone.Format(booking.CheckIn, constant.DateOnlyFormat)
	r.CheckOut = timezone.Format(booking.CheckOut, constant.DateOnlyFormat)
	r.Nights = model.Nights(booking.CheckIn, booking.CheckOut)
	r.Guests = booking.Guests
	r.TotalPrice = booking.TotalPrice
	r.Status = booking.Status
	r.Notes = booking.Notes
	r.Timestamps.FromModel(booking.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}
