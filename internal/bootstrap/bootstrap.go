package bootstrap

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appControllers "github.com/counselorhub/counselorhub/internal/app/controllers"
	appMigrations "github.com/counselorhub/counselorhub/internal/app/migrations"
	appRepos "github.com/counselorhub/counselorhub/internal/app/repositories"
	appRoutes "github.com/counselorhub/counselorhub/internal/app/routes"
	appServices "github.com/counselorhub/counselorhub/internal/app/services"
	"github.com/counselorhub/counselorhub/internal/config"
	"github.com/counselorhub/counselorhub/internal/db"
	appMiddleware "github.com/counselorhub/counselorhub/internal/middleware"
	pkgAuth "github.com/counselorhub/counselorhub/internal/pkg/auth"
	"github.com/counselorhub/counselorhub/internal/pkg/logger"
	"github.com/counselorhub/counselorhub/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos          *appRepos.Repositories
	Services       *appServices.Services
	Controllers    *appControllers.Controllers
	AuthMiddleware *appMiddleware.AuthMiddleware
	JWTService     *pkgAuth.JWTService
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := config.ResolvePath()
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Str("path", configPath).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	lgr := ConfigureLogger(cfg)
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// ConfigureLogger applies the logging section of cfg to the global logger
func ConfigureLogger(cfg *config.Config) zerolog.Logger {
	return logger.Configure(logger.Config{
		Level:  logger.LogLevel(strings.ToLower(cfg.Logging.Level)),
		Pretty: strings.ToLower(cfg.Logging.Format) == "text",
	})
}

// SetupDatabase opens the pool, applies pending migrations when auto_migrate is on
// and seeds the default admin.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.Database, error) {
	lgr.Info().Str("driver", cfg.Database.Driver).Msg("Establishing database connection...")
	database, err := db.Open(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if cfg.Database.AutoMigrate {
		lgr.Info().Msg("Running database migrations...")
		applied, err := RunMigrations(ctx, database)
		if err != nil {
			lgr.Error().Err(err).Msg("Database migration error")
			database.Close()
			return nil, fmt.Errorf("database migrations failed: %w", err)
		}
		lgr.Info().Int("applied", applied).Msg("Database migrations successfully applied.")
	}

	users := appServices.NewUserService(appRepos.NewUserRepository(database))
	if err := seed.CreateDefaultAdmin(ctx, users, cfg); err != nil {
		// A missing seed admin should not keep the API from starting
		lgr.Error().Err(err).Msg("Failed to create default admin, proceeding anyway...")
	}

	return database, nil
}

// RunMigrations applies every pending migration of the database dialect
func RunMigrations(ctx context.Context, database *db.Database) (int, error) {
	migrator, err := appMigrations.NewMigrator(database)
	if err != nil {
		return 0, err
	}
	return migrator.Up(ctx)
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.Database, lgr zerolog.Logger) *Dependencies {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(database)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: cfg.AccessTokenTTL(),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	deps.Services = appServices.NewServices(database, deps.Repos, deps.JWTService, appServices.LifecycleOptions{
		RequireSoftDelete: cfg.Lifecycle.RequireSoftDelete,
	})

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, deps.Services.UserService)
	deps.Controllers = appControllers.NewControllers(deps.Services, database.DB)

	return deps
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(logger.RequestLogger(), appMiddleware.Recovery(), appMiddleware.CORS())

	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)

	return router
}
