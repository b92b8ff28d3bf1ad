package services

import (
	"context"
	"errors"
	"strings"

	"github.com/counselorhub/counselorhub/internal/app/models/dto"
	"github.com/counselorhub/counselorhub/internal/app/repositories"
	"github.com/counselorhub/counselorhub/internal/pkg/apperrors"
	"github.com/counselorhub/counselorhub/internal/pkg/auth"
	"github.com/counselorhub/counselorhub/internal/pkg/logger"
)

// AuthService handles authentication operations
type AuthService struct {
	userRepo   *repositories.UserRepository
	jwtService *auth.JWTService
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo *repositories.UserRepository, jwtService *auth.JWTService) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
	}
}

// Login checks the credentials and issues an access token. Soft-deleted users cannot log in.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.userRepo.GetByLogin(ctx, username, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn().Str("username", username).Str("email", email).Msg("Login attempt for unknown user")
			return nil, apperrors.NewCustomError(apperrors.ErrInvalidCredentials, "Invalid username or password")
		}
		return nil, err
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		logger.Warn().Str("userID", user.UserID).Msg("Login attempt with wrong password")
		return nil, apperrors.NewCustomError(apperrors.ErrInvalidCredentials, "Invalid username or password")
	}

	if !user.IsActive {
		return nil, apperrors.NewCustomError(apperrors.ErrAccountDisabled, "Account is disabled")
	}

	token, expiresIn, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		return nil, err
	}

	logger.Info().Str("userID", user.UserID).Str("role", string(user.Role)).Msg("User logged in")
	return &dto.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   expiresIn,
		User:        user,
	}, nil
}
