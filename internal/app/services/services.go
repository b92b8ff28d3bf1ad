package services

import (
	"time"

	"github.com/google/uuid"

	"github.com/counselorhub/counselorhub/internal/app/repositories"
	"github.com/counselorhub/counselorhub/internal/db"
	"github.com/counselorhub/counselorhub/internal/pkg/apperrors"
	"github.com/counselorhub/counselorhub/internal/pkg/auth"
	"github.com/counselorhub/counselorhub/internal/pkg/validation"
)

// Clock returns the current time. Services store timestamps in UTC.
type Clock func() time.Time

func utcNow() time.Time {
	return time.Now().UTC()
}

// newID returns id, or a fresh UUID when the client left it empty
func newID(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}

// checkID rejects client-supplied ids the HTTP binding would also reject
func checkID(kind, id string) error {
	if id != "" && !validation.IsIdentifier(id) {
		return apperrors.Validation("%s id %q may only contain letters, digits, '.', '_' and '-'", kind, id)
	}
	return nil
}

// Services holds every service of the application
type Services struct {
	AuthService      *AuthService
	UserService      *UserService
	ClassService     *ClassService
	StudentService   *StudentService
	RecordService    *RecordService
	LifecycleService *LifecycleService
}

// NewServices wires the services over the shared repositories and pool
func NewServices(database *db.Database, repos *repositories.Repositories, jwtService *auth.JWTService, lifecycle LifecycleOptions) *Services {
	return &Services{
		AuthService:      NewAuthService(repos.UserRepository, jwtService),
		UserService:      NewUserService(repos.UserRepository),
		ClassService:     NewClassService(repos.ClassRepository),
		StudentService:   NewStudentService(repos.StudentRepository, repos.UserRepository, repos.ClassRepository),
		RecordService:    NewRecordService(repos.RecordRepository, repos.StudentRepository),
		LifecycleService: NewLifecycleService(database, repos, lifecycle),
	}
}
