package dto

import (
	"mime/multipart"

	"gamasa/internal/domains/property/model"
	"gamasa/shared"
	"gamasa/shared/arabic"
	gDto "gamasa/shared/dto"
	"gamasa/shared/geo"
	gModel "gamasa/shared/model"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type CreatePropertyRequest struct {
	Title        string   `json:"title"         validate:"required,min=5,max=150"`
	Description  string   `json:"description"   validate:"required,min=10,max=5000"`
	PropertyType string   `json:"property_type" validate:"required,oneof=apartment chalet villa room studio"`
	City         string   `json:"city"          validate:"required,max=100"`
	Area         string   `json:"area"          validate:"required,max=100"`
	Address      string   `json:"address"       validate:"omitempty,max=255"`
	Price        float64  `json:"price"         validate:"required,gt=0"`
	PricePeriod  string   `json:"price_period"  validate:"required,oneof=daily weekly monthly"`
	Bedrooms     int      `json:"bedrooms"      validate:"gte=0,lte=50"`
	Bathrooms    int      `json:"bathrooms"     validate:"gte=0,lte=50"`
	MaxGuests    *int     `json:"max_guests"    validate:"omitempty,gte=1,lte=100"`
	Furnished    bool     `json:"furnished"`
	Amenities    []string `json:"amenities"     validate:"omitempty,max=50,dive,min=1,max=50"`
	Images       []string `json:"images"        validate:"omitempty,max=20,dive,url"`
	Latitude     *float64 `json:"latitude"      validate:"omitempty,gte=-90,lte=90"`
	Longitude    *float64 `json:"longitude"     validate:"omitempty,gte=-180,lte=180"`
}

func (c *CreatePropertyRequest) CoordinatesPaired() bool {
	return (c.Latitude == nil) == (c.Longitude == nil)
}

func (c *CreatePropertyRequest) ToModel(user string) model.Property {
	property := model.Property{
		ID:           uuid.NewString(),
		OwnerID:      user,
		Title:        c.Title,
		Description:  c.Description,
		PropertyType: c.PropertyType,
		City:         c.City,
		Area:         c.Area,
		Price:        c.Price,
		PricePeriod:  c.PricePeriod,
		Bedrooms:     c.Bedrooms,
		Bathrooms:    c.Bathrooms,
		MaxGuests:    c.MaxGuests,
		Furnished:    c.Furnished,
		Amenities:    pq.StringArray(c.Amenities),
		Images:       pq.StringArray(c.Images),
		Latitude:     c.Latitude,
		Longitude:    c.Longitude,
		SearchText:   arabic.SearchText(c.Title, c.Description, c.City, c.Area, c.Address),
		Status:       model.StatusPending,
		Metadata:     gModel.NewMetadata(user),
	}

	if property.Amenities == nil {
		property.Amenities = pq.StringArray{}
	}

	if property.Images == nil {
		property.Images = pq.StringArray{}
	}

	if c.Address != "" {
		property.Address = &c.Address
	}

	if c.Latitude != nil && c.Longitude != nil {
		hash := geo.Encode(*c.Latitude, *c.Longitude)
		property.Geohash = &hash
	}

	return property
}

// UpdatePropertyRequest carries a partial update. Zero values are left untouched.
type UpdatePropertyRequest struct {
	Title        string         `db:"title"         json:"title"         validate:"omitempty,min=5,max=150"`
	Description  string         `db:"description"   json:"description"   validate:"omitempty,min=10,max=5000"`
	PropertyType string         `db:"property_type" json:"property_type" validate:"omitempty,oneof=apartment chalet villa room studio"`
	City         string         `db:"city"          json:"city"          validate:"omitempty,max=100"`
	Area         string         `db:"area"          json:"area"          validate:"omitempty,max=100"`
	Address      string         `db:"address"       json:"address"       validate:"omitempty,max=255"`
	Price        float64        `db:"price"         json:"price"         validate:"omitempty,gt=0"`
	PricePeriod  string         `db:"price_period"  json:"price_period"  validate:"omitempty,oneof=daily weekly monthly"`
	Bedrooms     *int           `db:"bedrooms"      json:"bedrooms"      validate:"omitempty,gte=0,lte=50"`
	Bathrooms    *int           `db:"bathrooms"     json:"bathrooms"     validate:"omitempty,gte=0,lte=50"`
	MaxGuests    *int           `db:"max_guests"    json:"max_guests"    validate:"omitempty,gte=1,lte=100"`
	Furnished    *bool          `db:"furnished"     json:"furnished"`
	Amenities    pq.StringArray `db:"amenities"     json:"amenities"     validate:"omitempty,max=50,dive,min=1,max=50"`
	Images       pq.StringArray `db:"images"        json:"images"        validate:"omitempty,max=20,dive,url"`
	Latitude     *float64       `db:"latitude"      json:"latitude"      validate:"omitempty,gte=-90,lte=90"`
	Longitude    *float64       `db:"longitude"     json:"longitude"     validate:"omitempty,gte=-180,lte=180"`
	Status       string         `db:"status"        json:"status"        validate:"omitempty,oneof=available rented"`
}

func (u *UpdatePropertyRequest) CoordinatesPaired() bool {
	return (u.Latitude == nil) == (u.Longitude == nil)
}

// ChangesContent reports whether the update touches anything a moderator reviewed.
func (u *UpdatePropertyRequest) ChangesContent() bool {
	return u.Title != "" || u.Description != "" || u.PropertyType != "" || u.City != "" ||
		u.Area != "" || u.Address != "" || u.Price != 0 || u.PricePeriod != "" ||
		u.Bedrooms != nil || u.Bathrooms != nil || u.MaxGuests != nil || u.Furnished != nil ||
		u.Amenities != nil || u.Images != nil || u.Latitude != nil
}

// SearchText rebuilds the normalized search column from the update merged over current.
func (u *UpdatePropertyRequest) SearchText(current model.Property) string {
	address := ""
	if current.Address != nil {
		address = *current.Address
	}

	return arabic.SearchText(
		pick(u.Title, current.Title),
		pick(u.Description, current.Description),
		pick(u.City, current.City),
		pick(u.Area, current.Area),
		pick(u.Address, address),
	)
}

func pick(update, current string) string {
	if update != "" {
		return update
	}

	return current
}

type RejectRequest struct {
	Reason string `json:"reason" validate:"required,min=3,max=500"`
}

type UploadImageRequest struct {
	Image     *multipart.FileHeader `json:"image" validate:"required,mimetypes=image/png image/jpg image/jpeg image/webp,maxfilesize=5"`
	ImageFile multipart.File        `json:"-"`
}

type UploadResponse struct {
	URL string `json:"url"`
}

type PropertyResponse struct {
	ID              string   `json:"id"`
	OwnerID         string   `json:"owner_id"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	PropertyType    string   `json:"property_type"`
	City            string   `json:"city"`
	Area            string   `json:"area"`
	Address         *string  `json:"address,omitempty"`
	Price           float64  `json:"price"`
	PricePeriod     string   `json:"price_period"`
	Bedrooms        int      `json:"bedrooms"`
	Bathrooms       int      `json:"bathrooms"`
	MaxGuests       *int     `json:"max_guests,omitempty"`
	Furnished       bool     `json:"furnished"`
	Amenities       []string `json:"amenities"`
	Images          []string `json:"images"`
	Latitude        *float64 `json:"latitude,omitempty"`
	Longitude       *float64 `json:"longitude,omitempty"`
	Status          string   `json:"status"`
	RejectionReason *string  `json:"rejection_reason,omitempty"`
	Views           int      `json:"views"`
	gDto.Timestamps
}

func (p *PropertyResponse) FromModel(model model.Property) {
	p.ID = model.ID
	p.OwnerID = model.OwnerID
	p.Title = model.Title
	p.Description = model.Description
	p.PropertyType = model.PropertyType
	p.City = model.City
	p.Area = model.Area
	p.Address = model.Address
	p.Price = model.Price
	p.PricePeriod = model.PricePeriod
	p.Bedrooms = model.Bedrooms
	p.Bathrooms = model.Bathrooms
	p.MaxGuests = model.MaxGuests
	p.Furnished = model.Furnished
	p.Amenities = append([]string{}, model.Amenities...)
	p.Images = append([]string{}, model.Images...)
	p.Latitude = model.Latitude
	p.Longitude = model.Longitude
	p.Status = model.Status
	p.RejectionReason = model.RejectionReason
	p.Views = model.Views
	p.Timestamps.FromModel(model.Metadata)
}

type GetPropertiesResponse struct {
	Properties []PropertyResponse `json:"properties"`
	TotalPage  int                `json:"total_page"`
	TotalData  int                `json:"total_data"`
}

func (r *GetPropertiesResponse) FromModels(models []model.Property, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Properties = make([]PropertyResponse, len(models))
	for i, mod := range models {
		r.Properties[i].FromModel(mod)
	}
}

type ContactResponse struct {
	OwnerID  string `json:"owner_id"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
}

func (c *ContactResponse) FromModel(model model.Property) {
	c.OwnerID = model.OwnerID

	if model.OwnerName != nil {
		c.FullName = *model.OwnerName
	}

	if model.OwnerPhone != nil {
		c.Phone = *model.OwnerPhone
	}
}
