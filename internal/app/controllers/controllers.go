package controllers

import "github.com/counselorhub/counselorhub/internal/app/services"

// Controllers holds every HTTP controller
type Controllers struct {
	AuthController    *AuthController
	UserController    *UserController
	ClassController   *ClassController
	StudentController *StudentController
	RecordController  *RecordController
	AdminController   *AdminController
	HealthController  *HealthController
}

// NewControllers builds the controllers over the services
func NewControllers(s *services.Services, db Pinger) *Controllers {
	return &Controllers{
		AuthController:    NewAuthController(s.AuthService),
		UserController:    NewUserController(s.UserService, s.LifecycleService),
		ClassController:   NewClassController(s.ClassService, s.LifecycleService),
		StudentController: NewStudentController(s.StudentService, s.LifecycleService),
		RecordController:  NewRecordController(s.RecordService),
		AdminController:   NewAdminController(s.LifecycleService),
		HealthController:  NewHealthController(db),
	}
}
