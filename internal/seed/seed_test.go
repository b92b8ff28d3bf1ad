package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/counselorhub/counselorhub/internal/app/models"
	"github.com/counselorhub/counselorhub/internal/app/repositories"
	"github.com/counselorhub/counselorhub/internal/app/services"
	"github.com/counselorhub/counselorhub/internal/config"
	"github.com/counselorhub/counselorhub/internal/pkg/auth"
	"github.com/counselorhub/counselorhub/internal/testutil"
)

func seedConfig(password string) *config.Config {
	cfg := &config.Config{}
	cfg.Seed.AdminUsername = "admin"
	cfg.Seed.AdminEmail = "admin@counselorhub.local"
	cfg.Seed.AdminPassword = password
	return cfg
}

func TestCreateDefaultAdmin(t *testing.T) {
	auth.BcryptCost = bcrypt.MinCost
	ctx := context.Background()
	repo := repositories.NewUserRepository(testutil.NewDatabase(t))
	users := services.NewUserService(repo)

	require.NoError(t, CreateDefaultAdmin(ctx, users, seedConfig("")))
	_, err := repo.GetByLogin(ctx, "admin", "")
	assert.Error(t, err, "no password means no admin")

	require.NoError(t, CreateDefaultAdmin(ctx, users, seedConfig("s3cret-pass")))
	admin, err := repo.GetByLogin(ctx, "admin", "")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.True(t, auth.CheckPassword(admin.PasswordHash, "s3cret-pass"))

	// an existing admin is kept, including its password
	require.NoError(t, CreateDefaultAdmin(ctx, users, seedConfig("other-pass")))
	admin, err = repo.GetByLogin(ctx, "admin", "")
	require.NoError(t, err)
	assert.True(t, auth.CheckPassword(admin.PasswordHash, "s3cret-pass"))
}

func TestRequireDefaultAdmin(t *testing.T) {
	users := services.NewUserService(repositories.NewUserRepository(testutil.NewDatabase(t)))
	assert.ErrorIs(t, RequireDefaultAdmin(context.Background(), users, seedConfig("")), ErrNoAdminPassword)
}
