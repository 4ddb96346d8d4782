package dto_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamasa/infras/jwt"
	"gamasa/internal/domains/auth/model/dto"
	profileModel "gamasa/internal/domains/profile/model"
	"gamasa/shared/constant"
	"gamasa/shared/validator"
)

func TestLoginResponse_FromLogin(t *testing.T) {
	tokenPair := &jwt.TokenPair{
		AccessToken:  "test-access-token",
		RefreshToken: "test-refresh-token",
		TokenType:    "Bearer",
		ExpiresIn:    900,
	}

	var response dto.LoginResponse
	response.FromLogin(tokenPair, profileModel.Profile{ID: "user-1", Role: constant.RoleOwner})

	assert.Equal(t, tokenPair.AccessToken, response.AccessToken)
	assert.Equal(t, tokenPair.RefreshToken, response.RefreshToken)
	assert.Equal(t, int64(900), response.ExpiresIn)
	assert.Equal(t, "user-1", response.UserID)
	assert.Equal(t, constant.RoleOwner, response.Role)

	body, err := json.Marshal(response)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"access_token": "test-access-token",
		"refresh_token": "test-refresh-token",
		"token_type": "Bearer",
		"expires_in": 900,
		"user_id": "user-1",
		"role": "owner"
	}`, string(body))
}

func TestRefreshTokenResponse_FromTokenPair(t *testing.T) {
	tokenPair := &jwt.TokenPair{
		AccessToken:  "new-access-token",
		RefreshToken: "new-refresh-token",
	}

	var response dto.RefreshTokenResponse
	response.FromTokenPair(tokenPair)

	assert.Equal(t, tokenPair.AccessToken, response.AccessToken)
	assert.Equal(t, tokenPair.RefreshToken, response.RefreshToken)
}

func TestRegisterRequest_ToProfileModel(t *testing.T) {
	req := dto.RegisterRequest{
		Email:    "  Owner@Example.COM ",
		Password: "secret123",
		FullName: " أحمد علي ",
		Phone:    "01012345678",
	}

	profile := req.ToProfileModel(constant.ContextGuest, "hashed")

	assert.NotEmpty(t, profile.ID)
	assert.Equal(t, "owner@example.com", profile.Email)
	assert.Equal(t, "hashed", profile.Password)
	assert.Equal(t, constant.RoleUser, profile.Role)
	assert.Equal(t, "أحمد علي", profile.FullName)
	assert.Equal(t, "01012345678", profile.PhoneNumber())
	assert.True(t, profile.Active)
	assert.Equal(t, constant.ContextGuest, profile.CreatedBy)

	req.Phone = ""
	assert.Nil(t, req.ToProfileModel(constant.ContextGuest, "hashed").Phone)
}

func TestChangePasswordRequest_Validation(t *testing.T) {
	tests := []struct {
		name    string
		req     dto.ChangePasswordRequest
		wantErr bool
	}{
		{name: "valid", req: dto.ChangePasswordRequest{CurrentPassword: "old-password", NewPassword: "new-password"}},
		{name: "too short", req: dto.ChangePasswordRequest{CurrentPassword: "old-password", NewPassword: "short"}, wantErr: true},
		{name: "same as current", req: dto.ChangePasswordRequest{CurrentPassword: "same-password", NewPassword: "same-password"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateStruct(&tt.req)

			assert.Equal(t, tt.wantErr, err != nil)
		})
	}
}
