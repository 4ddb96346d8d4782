package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"gamasa/config"
	"gamasa/infras/jwt"
	jwtMocks "gamasa/infras/jwt/mocks"
	"gamasa/infras/otel/mocks"
	"gamasa/internal/domains/auth/model/dto"
	"gamasa/internal/domains/auth/service"
	profileMocks "gamasa/internal/domains/profile/mocks"
	profileModel "gamasa/internal/domains/profile/model"
	"gamasa/shared/constant"
	"gamasa/shared/failure"
	gModel "gamasa/shared/model"
)

// bcrypt hash of "password".
const passwordHash = "$2a$10$92IXUNpkjO0rOQ5byMi.Ye4oKoEa3Ro9llC/.og/at2.uheWG/igi"

func validProfile() profileModel.Profile {
	return profileModel.Profile{
		ID:         "user-id-123",
		Email:      "test@example.com",
		Password:   passwordHash,
		Role:       constant.RoleUser,
		FullName:   "Test User",
		IsVerified: true,
		Active:     true,
		Metadata:   gModel.NewMetadata(constant.ContextSystem),
	}
}

func TestAuthService_Register(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockProfileRepo := profileMocks.NewMockProfile(ctrl)
	mockJWT := jwtMocks.NewMockJWT(ctrl)

	svc := service.New(mockProfileRepo, &config.Config{}, mocks.NewOtel(), mockJWT)

	req := dto.RegisterRequest{
		Email:    "New@Example.com",
		Password: "password123",
		FullName: "New User",
	}

	tests := []struct {
		name      string
		setupMock func()
		wantCode  int
	}{
		{
			name: "successful registration",
			setupMock: func() {
				mockProfileRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				mockProfileRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, profile profileModel.Profile) error {
						assert.Equal(t, "new@example.com", profile.Email)
						assert.Equal(t, constant.RoleUser, profile.Role)
						assert.NotEqual(t, req.Password, profile.Password)

						return nil
					})
			},
		},
		{
			name: "duplicate email",
			setupMock: func() {
				mockProfileRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantCode: 409,
		},
		{
			name: "repository error",
			setupMock: func() {
				mockProfileRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, errors.New("database error"))
			},
			wantCode: 500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := svc.Register(context.Background(), req)

			if tt.wantCode == 0 {
				assert.NoError(t, err)

				return
			}

			assert.Error(t, err)
			assert.Equal(t, tt.wantCode, failure.GetCode(err))
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockProfileRepo := profileMocks.NewMockProfile(ctrl)
	mockJWT := jwtMocks.NewMockJWT(ctrl)

	svc := service.New(mockProfileRepo, &config.Config{}, mocks.NewOtel(), mockJWT)

	inactive := validProfile()
	inactive.Active = false

	tests := []struct {
		name      string
		req       dto.LoginRequest
		setupMock func()
		wantErr   error
	}{
		{
			name: "successful login",
			req:  dto.LoginRequest{Email: "test@example.com", Password: "password"},
			setupMock: func() {
				mockProfileRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(validProfile(), nil)
				mockJWT.EXPECT().
					GenerateTokenPair("user-id-123", "test@example.com", constant.RoleUser).
					Return(&jwt.TokenPair{AccessToken: "access-token", RefreshToken: "refresh-token"}, nil)
				mockProfileRepo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "last login failure does not block login",
			req:  dto.LoginRequest{Email: "test@example.com", Password: "password"},
			setupMock: func() {
				mockProfileRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(validProfile(), nil)
				mockJWT.EXPECT().
					GenerateTokenPair(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(&jwt.TokenPair{AccessToken: "access-token", RefreshToken: "refresh-token"}, nil)
				mockProfileRepo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("database error"))
			},
		},
		{
			name: "unknown email",
			req:  dto.LoginRequest{Email: "nobody@example.com", Password: "password"},
			setupMock: func() {
				mockProfileRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(profileModel.Profile{}, nil)
			},
			wantErr: service.ErrInvalidCredentials,
		},
		{
			name: "wrong password",
			req:  dto.LoginRequest{Email: "test@example.com", Password: "wrong-password"},
			setupMock: func() {
				mockProfileRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(validProfile(), nil)
			},
			wantErr: service.ErrInvalidCredentials,
		},
		{
			name: "deactivated account",
			req:  dto.LoginRequest{Email: "test@example.com", Password: "password"},
			setupMock: func() {
				mockProfileRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(inactive, nil)
			},
			wantErr: service.ErrAccountDeactivated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := svc.Login(context.Background(), tt.req)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, "access-token", res.AccessToken)
			assert.Equal(t, "refresh-token", res.RefreshToken)
			assert.Equal(t, "user-id-123", res.UserID)
		})
	}
}

func TestAuthService_RefreshToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockProfileRepo := profileMocks.NewMockProfile(ctrl)
	mockJWT := jwtMocks.NewMockJWT(ctrl)

	svc := service.New(mockProfileRepo, &config.Config{}, mocks.NewOtel(), mockJWT)

	promoted := validProfile()
	promoted.Role = constant.RoleOwner

	tests := []struct {
		name      string
		setupMock func()
		wantCode  int
	}{
		{
			name: "new pair carries current role",
			setupMock: func() {
				mockJWT.EXPECT().
					ValidateToken("refresh-token", jwt.RefreshToken).
					Return(&jwt.Claims{UserID: "user-id-123", Role: constant.RoleUser}, nil)
				mockProfileRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(promoted, nil)
				mockJWT.EXPECT().
					GenerateTokenPair("user-id-123", "test@example.com", constant.RoleOwner).
					Return(&jwt.TokenPair{AccessToken: "new-access", RefreshToken: "new-refresh"}, nil)
			},
		},
		{
			name: "invalid token",
			setupMock: func() {
				mockJWT.EXPECT().ValidateToken(gomock.Any(), jwt.RefreshToken).Return(nil, errors.New("expired"))
			},
			wantCode: 401,
		},
		{
			name: "profile removed",
			setupMock: func() {
				mockJWT.EXPECT().ValidateToken(gomock.Any(), jwt.RefreshToken).Return(&jwt.Claims{UserID: "gone"}, nil)
				mockProfileRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(profileModel.Profile{}, nil)
			},
			wantCode: 401,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := svc.RefreshToken(context.Background(), dto.RefreshTokenRequest{RefreshToken: "refresh-token"})

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, "new-access", res.AccessToken)
		})
	}
}

func TestAuthService_ChangePassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockProfileRepo := profileMocks.NewMockProfile(ctrl)
	mockJWT := jwtMocks.NewMockJWT(ctrl)

	svc := service.New(mockProfileRepo, &config.Config{}, mocks.NewOtel(), mockJWT)

	tests := []struct {
		name      string
		req       dto.ChangePasswordRequest
		setupMock func()
		wantCode  int
	}{
		{
			name: "successful change",
			req:  dto.ChangePasswordRequest{CurrentPassword: "password", NewPassword: "new-password"},
			setupMock: func() {
				mockProfileRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(validProfile(), nil)
				mockProfileRepo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "wrong current password",
			req:  dto.ChangePasswordRequest{CurrentPassword: "nope", NewPassword: "new-password"},
			setupMock: func() {
				mockProfileRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(validProfile(), nil)
			},
			wantCode: 400,
		},
		{
			name: "profile not found",
			req:  dto.ChangePasswordRequest{CurrentPassword: "password", NewPassword: "new-password"},
			setupMock: func() {
				mockProfileRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(profileModel.Profile{}, nil)
			},
			wantCode: 404,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := svc.ChangePassword(context.Background(), tt.req, "user-id-123")

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}
