package validator_test

import (
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamasa/shared/failure"
	"gamasa/shared/validator"
)

type bookingRequest struct {
	PropertyID string `json:"property_id" validate:"required,uuid4"`
	CheckIn    string `json:"check_in"    validate:"required,date_ymd"`
	Guests     int    `json:"guests"      validate:"gte=1,lte=20"`
	Notes      string `json:"notes"       validate:"omitempty,max=20,safe_text"`
}

type uploadRequest struct {
	Image *multipart.FileHeader `validate:"required,mimetypes=image/png image/jpeg,maxfilesize=1"`
}

const propertyID = "0b7e6c1a-2f3d-4e5a-8b6c-7d8e9f0a1b2c"

func fileHeader(contentType string, size int64) *multipart.FileHeader {
	header := textproto.MIMEHeader{}
	header.Set("Content-Type", contentType)

	return &multipart.FileHeader{Filename: "upload", Header: header, Size: size}
}

func TestValidateStruct(t *testing.T) {
	valid := bookingRequest{PropertyID: propertyID, CheckIn: "2026-07-15", Guests: 2}

	tests := []struct {
		name    string
		mutate  func(r *bookingRequest)
		wantErr string
	}{
		{name: "valid", mutate: func(_ *bookingRequest) {}},
		{name: "missing property", mutate: func(r *bookingRequest) { r.PropertyID = "" }, wantErr: "PropertyID is required"},
		{name: "property id not uuid", mutate: func(r *bookingRequest) { r.PropertyID = "42" }, wantErr: "PropertyID must be a valid identifier"},
		{name: "impossible date", mutate: func(r *bookingRequest) { r.CheckIn = "2026-02-30" }, wantErr: "CheckIn must be a valid date in YYYY-MM-DD format"},
		{name: "wrong date layout", mutate: func(r *bookingRequest) { r.CheckIn = "15/07/2026" }, wantErr: "CheckIn must be a valid date in YYYY-MM-DD format"},
		{name: "too many guests", mutate: func(r *bookingRequest) { r.Guests = 21 }, wantErr: "Guests must be less than or equal to 20"},
		{name: "sql meta in notes", mutate: func(r *bookingRequest) { r.Notes = "x'; drop" }, wantErr: "Notes contains forbidden characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)

			err := validator.ValidateStruct(&req)
			if tt.wantErr == "" {
				assert.NoError(t, err)

				return
			}

			require.Error(t, err)
			assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}

func TestValidateStruct_Upload(t *testing.T) {
	tests := []struct {
		name    string
		file    *multipart.FileHeader
		wantErr bool
	}{
		{name: "png", file: fileHeader("image/png", 512)},
		{name: "content type with parameters", file: fileHeader("image/jpeg; q=1", 512)},
		{name: "pdf rejected", file: fileHeader("application/pdf", 512), wantErr: true},
		{name: "too large", file: fileHeader("image/png", 2*1024*1024), wantErr: true},
		{name: "missing", file: nil, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateStruct(&uploadRequest{Image: tt.file})

			assert.Equal(t, tt.wantErr, err != nil, err)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{name: "valid body", body: `{"property_id":"` + propertyID + `","check_in":"2026-07-15","guests":3}`},
		{name: "malformed json", body: `{"property_id":`, wantErr: true},
		{name: "invalid field", body: `{"property_id":"` + propertyID + `","check_in":"2026-07-15","guests":0}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req bookingRequest

			err := validator.Validate(strings.NewReader(tt.body), &req)

			assert.Equal(t, tt.wantErr, err != nil, err)
		})
	}
}

func TestValidateID(t *testing.T) {
	assert.NoError(t, validator.ValidateID(propertyID))
	assert.ErrorIs(t, validator.ValidateID("1"), failure.InvalidIDParam)
	assert.ErrorIs(t, validator.ValidateID("0b7e6c1a-2f3d-1e5a-8b6c-7d8e9f0a1b2c"), failure.InvalidIDParam)
}

func TestValidateVar(t *testing.T) {
	assert.NoError(t, validator.ValidateVar("confirmed", "omitempty,oneof=pending confirmed"))
	assert.NoError(t, validator.ValidateVar("", "omitempty,oneof=pending confirmed"))
	assert.Error(t, validator.ValidateVar("paid", "oneof=pending confirmed"))
}
