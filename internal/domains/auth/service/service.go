package service

import (
	"context"
	"errors"
	"fmt"

	"gamasa/config"
	"gamasa/infras/jwt"
	"gamasa/infras/otel"
	"gamasa/internal/domains/auth/model/dto"
	profileModel "gamasa/internal/domains/profile/model"
	profileRepo "gamasa/internal/domains/profile/repository"
	"gamasa/shared"
	"gamasa/shared/constant"
	gDto "gamasa/shared/dto"
	"gamasa/shared/failure"
	"gamasa/shared/password"
	"gamasa/shared/timezone"

	"github.com/rs/zerolog/log"
)

var (
	ErrInvalidCredentials = failure.BadRequestFromString("invalid email or password")
	ErrAccountDeactivated = failure.Forbidden("account is deactivated")
)

type Auth interface {
	Register(ctx context.Context, req dto.RegisterRequest) error
	Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error)
	RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (dto.RefreshTokenResponse, error)
	ChangePassword(ctx context.Context, req dto.ChangePasswordRequest, userID string) error
}

type serviceImpl struct {
	profileRepo profileRepo.Profile
	cfg         *config.Config
	otel        otel.Otel
	jwtService  jwt.JWT
}

func New(profileRepo profileRepo.Profile, cfg *config.Config, otel otel.Otel, jwt jwt.JWT) Auth {
	return &serviceImpl{
		profileRepo: profileRepo,
		cfg:         cfg,
		otel:        otel,
		jwtService:  jwt,
	}
}

func emailFilter(email string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    profileModel.FieldEmail,
				Operator: gDto.FilterOperatorEq,
				Value:    dto.NormalizeEmail(email),
				Table:    profileModel.TableName,
			},
		},
	}
}

func (s *serviceImpl) Register(ctx context.Context, req dto.RegisterRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Register")
	defer scope.End()
	defer scope.TraceIfError(&err)

	exists, err := s.profileRepo.Exist(ctx, emailFilter(req.Email))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if profile exists")

		return fmt.Errorf("failed to check if profile exists: %w", err)
	}

	if exists {
		log.Warn().Str("email", req.Email).Msg("registration with an existing email")

		return failure.Conflict("email already registered")
	}

	hashedPassword, err := password.Hash(req.Password)
	if errors.Is(err, password.ErrTooLong) {
		return failure.BadRequest(err)
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to hash password")

		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err = s.profileRepo.Insert(ctx, req.ToProfileModel(constant.ContextGuest, hashedPassword)); err != nil {
		log.Error().Err(err).Msg("failed to create profile")

		return fmt.Errorf("failed to create profile: %w", err)
	}

	return nil
}

func (s *serviceImpl) Login(ctx context.Context, req dto.LoginRequest) (res dto.LoginResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Login")
	defer scope.End()
	defer scope.TraceIfError(&err)

	filter := emailFilter(req.Email)

	profile, err := s.profileRepo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get profile")

		return res, fmt.Errorf("failed to get profile: %w", err)
	}

	if profile.ID == constant.Empty {
		log.Warn().Str("email", req.Email).Msg("login attempt with non-existent email")

		return res, ErrInvalidCredentials
	}

	if err = password.Verify(req.Password, profile.Password); err != nil {
		log.Warn().Str("email", req.Email).Msg("login attempt with wrong password")

		return res, ErrInvalidCredentials
	}

	if !profile.Active {
		return res, ErrAccountDeactivated
	}

	tokenPair, err := s.jwtService.GenerateTokenPair(profile.ID, profile.Email, profile.Role)
	if err != nil {
		log.Error().Err(err).Msg("failed to generate tokens")

		return res, fmt.Errorf("failed to generate tokens: %w", err)
	}

	lastLogin := dto.UpdateLastLoginRequest{LastLogin: timezone.Now()}
	if err = s.profileRepo.Update(ctx, shared.TransformFields(lastLogin, profile.ID), filter); err != nil {
		log.Warn().Err(err).Str("user_id", profile.ID).Msg("failed to update last login")
	}

	res.FromLogin(tokenPair, profile)

	return res, nil
}

// RefreshToken issues a new pair carrying the profile's current role, so role changes and
// deactivation take effect on the next refresh.
func (s *serviceImpl) RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (res dto.RefreshTokenResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".RefreshToken")
	defer scope.End()
	defer scope.TraceIfError(&err)

	claims, err := s.jwtService.ValidateToken(req.RefreshToken, jwt.RefreshToken)
	if err != nil {
		log.Warn().Err(err).Msg("failed to validate refresh token")

		return res, failure.Unauthorized("invalid refresh token")
	}

	profile, err := s.profileRepo.Get(ctx, shared.FilterByID(claims.UserID, profileModel.FieldID, profileModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get profile")

		return res, fmt.Errorf("failed to get profile: %w", err)
	}

	if profile.ID == constant.Empty {
		return res, failure.Unauthorized("invalid refresh token")
	}

	if !profile.Active {
		return res, ErrAccountDeactivated
	}

	tokenPair, err := s.jwtService.GenerateTokenPair(profile.ID, profile.Email, profile.Role)
	if err != nil {
		log.Error().Err(err).Msg("failed to generate tokens")

		return res, fmt.Errorf("failed to generate tokens: %w", err)
	}

	res.FromTokenPair(tokenPair)

	return res, nil
}

func (s *serviceImpl) ChangePassword(ctx context.Context, req dto.ChangePasswordRequest, userID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ChangePassword")
	defer scope.End()
	defer scope.TraceIfError(&err)

	filter := shared.FilterByID(userID, profileModel.FieldID, profileModel.TableName)

	profile, err := s.profileRepo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get profile")

		return fmt.Errorf("failed to get profile: %w", err)
	}

	if profile.ID == constant.Empty {
		return failure.NotFound("profile not found")
	}

	if err = password.Verify(req.CurrentPassword, profile.Password); err != nil {
		return failure.BadRequestFromString("current password is incorrect")
	}

	hashedPassword, err := password.Hash(req.NewPassword)
	if errors.Is(err, password.ErrTooLong) {
		return failure.BadRequest(err)
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to hash new password")

		return fmt.Errorf("failed to hash new password: %w", err)
	}

	updatePassword := dto.UpdatePasswordRequest{Password: hashedPassword}

	if err = s.profileRepo.Update(ctx, shared.TransformFields(updatePassword, userID), filter); err != nil {
		log.Error().Err(err).Msg("failed to update password")

		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}
