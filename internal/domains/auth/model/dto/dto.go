package dto

import (
	"strings"
	"time"

	"gamasa/infras/jwt"
	profileModel "gamasa/internal/domains/profile/model"
	"gamasa/shared/constant"
	gModel "gamasa/shared/model"

	"github.com/google/uuid"
)

type RegisterRequest struct {
	Email    string `json:"email"           validate:"required,email,max=255"`
	Password string `json:"password"        validate:"required,min=8,max=72"`
	FullName string `json:"full_name"       validate:"required,min=2,max=100"`
	Phone    string `json:"phone,omitempty" validate:"omitempty,min=7,max=20"`
}

func (r *RegisterRequest) ToProfileModel(actor, hashedPassword string) profileModel.Profile {
	profile := profileModel.Profile{
		ID:         uuid.NewString(),
		Email:      NormalizeEmail(r.Email),
		Password:   hashedPassword,
		Role:       constant.RoleUser,
		FullName:   strings.TrimSpace(r.FullName),
		IsVerified: false,
		Active:     true,
		Metadata:   gModel.NewMetadata(actor),
	}

	if phone := strings.TrimSpace(r.Phone); phone != constant.Empty {
		profile.Phone = &phone
	}

	return profile
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateLastLoginRequest struct {
	LastLogin time.Time `db:"last_login" json:"last_login" validate:"required"`
}

// TokenResponse is the token pair as returned to clients.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

func (t *TokenResponse) FromTokenPair(tokenPair *jwt.TokenPair) {
	*t = TokenResponse{
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		TokenType:    tokenPair.TokenType,
		ExpiresIn:    tokenPair.ExpiresIn,
	}
}

type LoginResponse struct {
	TokenResponse
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

func (l *LoginResponse) FromLogin(tokenPair *jwt.TokenPair, profile profileModel.Profile) {
	l.FromTokenPair(tokenPair)
	l.UserID = profile.ID
	l.Role = profile.Role
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type RefreshTokenResponse struct {
	TokenResponse
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=8,max=72,nefield=CurrentPassword"`
}

type UpdatePasswordRequest struct {
	Password string `db:"password" json:"password" validate:"required,min=8"`
}
