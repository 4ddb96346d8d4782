package jwt_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"gamasa/config"
	"gamasa/infras/jwt"
)

func newConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Name = "gamasa-test"
	cfg.JWT.AccessSecret = "access-secret"
	cfg.JWT.RefreshSecret = "refresh-secret"
	cfg.JWT.AccessExpireMin = 15
	cfg.JWT.RefreshExpireMin = 60

	return cfg
}

func TestService_GenerateAndValidate(t *testing.T) {
	svc := jwt.New(newConfig())

	pair, err := svc.GenerateTokenPair("user-1", "owner@example.com", "owner")
	assert.NoError(t, err)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.Equal(t, int64(15*60), pair.ExpiresIn)

	claims, err := svc.ValidateToken(pair.AccessToken, jwt.AccessToken)
	assert.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "owner", claims.Role)

	_, err = svc.ValidateToken(pair.AccessToken, jwt.RefreshToken)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)

	_, err = svc.ValidateToken(pair.RefreshToken, jwt.AccessToken)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)

	_, err = svc.ValidateToken("garbage", jwt.AccessToken)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)
}

func TestService_ValidateToken_Issuer(t *testing.T) {
	pair, err := jwt.New(newConfig()).GenerateTokenPair("user-1", "user@example.com", "user")
	assert.NoError(t, err)

	other := newConfig()
	other.App.Name = "another-app"

	_, err = jwt.New(other).ValidateToken(pair.AccessToken, jwt.AccessToken)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)
}

func TestService_RefreshTokens(t *testing.T) {
	svc := jwt.New(newConfig())

	pair, err := svc.GenerateTokenPair("user-1", "user@example.com", "user")
	assert.NoError(t, err)

	refreshed, err := svc.RefreshTokens(pair.RefreshToken)
	assert.NoError(t, err)

	claims, err := svc.ValidateToken(refreshed.AccessToken, jwt.AccessToken)
	assert.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)

	_, err = svc.RefreshTokens(pair.AccessToken)
	assert.Error(t, err)
}

func TestService_ExpiredToken(t *testing.T) {
	cfg := newConfig()
	cfg.JWT.AccessExpireMin = -1

	svc := jwt.New(cfg)

	pair, err := svc.GenerateTokenPair("user-1", "user@example.com", "user")
	assert.NoError(t, err)

	_, err = svc.ValidateToken(pair.AccessToken, jwt.AccessToken)
	assert.ErrorIs(t, err, jwt.ErrExpiredToken)
}

func TestExtractTokenFromRequest(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		target  string
		want    string
		wantErr bool
	}{
		{name: "bearer header", header: "Bearer abc", target: "/v1/realtime", want: "abc"},
		{name: "query token", target: "/v1/realtime?token=xyz", want: "xyz"},
		{name: "header wins over query", header: "Bearer abc", target: "/v1/realtime?token=xyz", want: "abc"},
		{name: "scheme is case insensitive", header: "bearer abc", target: "/v1/realtime", want: "abc"},
		{name: "malformed header", header: "Token abc", target: "/v1/realtime", wantErr: true},
		{name: "empty bearer", header: "Bearer ", target: "/v1/realtime", wantErr: true},
		{name: "missing", target: "/v1/realtime", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.target, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			got, err := jwt.ExtractTokenFromRequest(req)
			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
