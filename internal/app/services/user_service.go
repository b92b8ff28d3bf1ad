package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/counselorhub/counselorhub/internal/app/models"
	"github.com/counselorhub/counselorhub/internal/app/models/dto"
	"github.com/counselorhub/counselorhub/internal/app/repositories"
	"github.com/counselorhub/counselorhub/internal/pkg/apperrors"
	"github.com/counselorhub/counselorhub/internal/pkg/auth"
	"github.com/counselorhub/counselorhub/internal/pkg/logger"
)

// UserService handles user accounts
type UserService struct {
	userRepo *repositories.UserRepository
	now      Clock
}

// NewUserService creates a new UserService
func NewUserService(userRepo *repositories.UserRepository) *UserService {
	return &UserService{userRepo: userRepo, now: utcNow}
}

// CreateUser hashes the password and stores a new active user
func (s *UserService) CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*models.User, error) {
	role := models.Role(req.Role)
	if !role.Valid() {
		return nil, apperrors.Validation("Role must be one of admin, counselor, student")
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Username) == "" {
		return nil, apperrors.Validation("Name and username are required")
	}
	if err := checkID("User", req.UserID); err != nil {
		return nil, err
	}
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.Validation("%s", err.Error())
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	now := s.now()
	user := &models.User{
		UserID:       newID(req.UserID),
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Username:     strings.TrimSpace(req.Username),
		Role:         role,
		PasswordHash: hash,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.Info().Str("userID", user.UserID).Str("role", string(role)).Msg("User created")
	return user, nil
}

// GetUser returns an active user
func (s *UserService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID, repositories.ActiveOnly)
}

// IsActive reports whether the user exists and is not soft-deleted
func (s *UserService) IsActive(ctx context.Context, userID string) (bool, error) {
	_, err := s.userRepo.GetByID(ctx, userID, repositories.ActiveOnly)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, apperrors.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

// ListUsers returns one page of active users, optionally of a single role
func (s *UserService) ListUsers(ctx context.Context, role string, opts repositories.ListOptions) ([]*models.User, int64, error) {
	filter := repositories.UserFilter{State: repositories.ActiveOnly}
	if role != "" {
		filter.Role = models.Role(role)
		if !filter.Role.Valid() {
			return nil, 0, apperrors.Validation("Unknown role %q", role)
		}
	}
	return s.userRepo.List(ctx, filter, opts)
}

// UpdateUser changes name, email or role of an active user
func (s *UserService) UpdateUser(ctx context.Context, userID string, req *dto.UpdateUserRequest) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID, repositories.ActiveOnly)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, apperrors.Validation("Name cannot be empty")
		}
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Role != nil {
		role := models.Role(*req.Role)
		if !role.Valid() {
			return nil, apperrors.Validation("Role must be one of admin, counselor, student")
		}
		user.Role = role
	}
	user.UpdatedAt = s.now()

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
