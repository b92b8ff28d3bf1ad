package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/counselorhub/counselorhub/internal/app/models"
	"github.com/counselorhub/counselorhub/internal/app/models/dto"
	"github.com/counselorhub/counselorhub/internal/config"
	"github.com/counselorhub/counselorhub/internal/pkg/apperrors"
	"github.com/counselorhub/counselorhub/internal/pkg/logger"
)

// ErrNoAdminPassword is returned when seeding is requested without a password
var ErrNoAdminPassword = errors.New("seed admin password is not configured")

// UserCreator is the part of the user service the seeder needs
type UserCreator interface {
	CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*models.User, error)
}

// CreateDefaultAdmin creates the configured admin account. An account that already
// holds the username or email, in any state, is left untouched.
func CreateDefaultAdmin(ctx context.Context, users UserCreator, cfg *config.Config) error {
	if cfg.Seed.AdminPassword == "" {
		logger.Debug().Msg("No seed admin password configured, skipping default admin")
		return nil
	}

	_, err := users.CreateUser(ctx, &dto.CreateUserRequest{
		Name:     "Administrator",
		Email:    cfg.Seed.AdminEmail,
		Username: cfg.Seed.AdminUsername,
		Role:     string(models.RoleAdmin),
		Password: cfg.Seed.AdminPassword,
	})
	switch {
	case err == nil:
		logger.Info().Str("username", cfg.Seed.AdminUsername).Msg("Default admin user created")
		return nil
	case errors.Is(err, apperrors.ErrConflict):
		logger.Debug().Str("username", cfg.Seed.AdminUsername).Msg("Default admin already exists")
		return nil
	default:
		return fmt.Errorf("error creating default admin: %w", err)
	}
}

// RequireDefaultAdmin is CreateDefaultAdmin for explicit seeding, where a missing password is an error
func RequireDefaultAdmin(ctx context.Context, users UserCreator, cfg *config.Config) error {
	if cfg.Seed.AdminPassword == "" {
		return ErrNoAdminPassword
	}
	return CreateDefaultAdmin(ctx, users, cfg)
}
