package dto

import (
	"mime/multipart"
	"net/http"

	"gamasa/internal/domains/profile/model"
	"gamasa/shared"
	"gamasa/shared/constant"
	gDto "gamasa/shared/dto"
	"gamasa/shared/timezone"
)

type ProfileResponse struct {
	ID         string  `json:"id"`
	Email      string  `json:"email"`
	Role       string  `json:"role"`
	FullName   string  `json:"full_name"`
	Phone      *string `json:"phone,omitempty"`
	AvatarURL  *string `json:"avatar_url,omitempty"`
	IsVerified bool    `json:"is_verified"`
	Active     bool    `json:"active"`
	LastLogin  *string `json:"last_login,omitempty"`
	gDto.Timestamps
}

func (p *ProfileResponse) FromModel(model model.Profile) {
	p.ID = model.ID
	p.Email = model.Email
	p.Role = model.Role
	p.FullName = model.FullName
	p.Phone = model.Phone
	p.AvatarURL = model.AvatarURL
	p.IsVerified = model.IsVerified
	p.Active = model.Active

	if model.LastLogin != nil {
		lastLogin := timezone.Format(*model.LastLogin, constant.DateFormat)
		p.LastLogin = &lastLogin
	}

	p.Timestamps.FromModel(model.Metadata)
}

// PublicProfileResponse is what other users may see. It never carries contact details.
type PublicProfileResponse struct {
	ID        string  `json:"id"`
	Role      string  `json:"role"`
	FullName  string  `json:"full_name"`
	AvatarURL *string `json:"avatar_url,omitempty"`
	Since     string  `json:"since"`
}

func (p *PublicProfileResponse) FromModel(model model.Profile) {
	p.ID = model.ID
	p.Role = model.Role
	p.FullName = model.FullName
	p.AvatarURL = model.AvatarURL
	p.Since = timezone.Format(model.CreatedAt, constant.DateFormat)
}

type GetProfilesResponse struct {
	Profiles  []ProfileResponse `json:"profiles"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetProfilesResponse) FromModels(models []model.Profile, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Profiles = make([]ProfileResponse, len(models))
	for i, mod := range models {
		r.Profiles[i].FromModel(mod)
	}
}

type UpdateProfileRequest struct {
	FullName  string `db:"full_name"  json:"full_name"  validate:"omitempty,min=2,max=100"`
	Phone     string `db:"phone"      json:"phone"      validate:"omitempty,min=7,max=20"`
	AvatarURL string `db:"avatar_url" json:"avatar_url" validate:"omitempty,url,max=500"`
}

type UploadAvatarRequest struct {
	Image     *multipart.FileHeader `json:"image" validate:"required,mimetypes=image/png image/jpg image/jpeg image/webp,maxfilesize=2"`
	ImageFile multipart.File        `json:"-"`
}

type UploadResponse struct {
	URL string `json:"url"`
}

type DeviceTokenRequest struct {
	Token string `db:"fcm_token" json:"token" validate:"required,max=4096"`
}

type UpdateRoleRequest struct {
	Role string `db:"role" json:"role" validate:"required,oneof=user owner admin superadmin"`
}

type SetActiveRequest struct {
	Active *bool `json:"active" validate:"required"`
}

// ProfileFilter narrows the admin profile listing.
type ProfileFilter struct {
	Role   string `validate:"omitempty,oneof=user owner admin superadmin"`
	Query  string `validate:"omitempty,max=100"`
	Active *bool
}

func (p *ProfileFilter) FromRequest(r *http.Request) {
	query := r.URL.Query()

	p.Role = query.Get(model.FieldRole)
	p.Query = query.Get("q")
	p.Active = shared.ConvertStringToBool(query.Get(model.FieldActive))
}

func (p *ProfileFilter) ToFilter() gDto.FilterGroup {
	group := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	if p.Role != "" {
		group.Filters = append(group.Filters, gDto.Filter{Field: model.FieldRole, Operator: gDto.FilterOperatorEq, Value: p.Role})
	}

	if p.Active != nil {
		group.Filters = append(group.Filters, gDto.Filter{Field: model.FieldActive, Operator: gDto.FilterOperatorEq, Value: *p.Active})
	}

	if p.Query != "" {
		group.Filters = append(group.Filters, gDto.FilterGroup{
			Operator: gDto.FilterGroupOperatorOr,
			Filters: []any{
				gDto.Filter{ArgName: "q_name", Field: model.FieldFullName, Operator: gDto.FilterOperatorLike, Value: p.Query},
				gDto.Filter{ArgName: "q_email", Field: model.FieldEmail, Operator: gDto.FilterOperatorLike, Value: p.Query},
				gDto.Filter{ArgName: "q_phone", Field: model.FieldPhone, Operator: gDto.FilterOperatorLike, Value: p.Query},
			},
		})
	}

	return group
}
