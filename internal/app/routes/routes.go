package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/counselorhub/counselorhub/internal/app/controllers"
	"github.com/counselorhub/counselorhub/internal/app/models"
	"github.com/counselorhub/counselorhub/internal/middleware"
)

// SetupRouter configures all application routes under /api
func SetupRouter(router *gin.Engine, c *controllers.Controllers, authMiddleware *middleware.AuthMiddleware) {
	api := router.Group("/api")

	// --- Public routes ---
	api.GET("/health", c.HealthController.Health)
	api.POST("/auth/login", c.AuthController.Login)

	// --- Authenticated routes ---
	authenticated := api.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	staff := authMiddleware.RolesAllowed(models.RoleAdmin, models.RoleCounselor)
	adminOnly := authMiddleware.RoleRequired(models.RoleAdmin)

	users := authenticated.Group("/users")
	{
		users.GET("", staff, c.UserController.ListUsers)
		users.GET("/:user_id", staff, c.UserController.GetUser)
		users.POST("", adminOnly, c.UserController.CreateUser)
		users.PUT("/:user_id", adminOnly, c.UserController.UpdateUser)
		users.DELETE("/:user_id", adminOnly, c.UserController.DeleteUser)
	}

	classes := authenticated.Group("/classes")
	{
		classes.GET("", c.ClassController.ListClasses)
		classes.GET("/:class_id", c.ClassController.GetClass)
		classes.POST("", staff, c.ClassController.CreateClass)
		classes.PUT("/:class_id", staff, c.ClassController.UpdateClass)
		classes.DELETE("/:class_id", staff, c.ClassController.DeleteClass)
	}

	students := authenticated.Group("/students")
	{
		students.GET("", staff, c.StudentController.ListStudents)
		students.GET("/:student_id", staff, c.StudentController.GetStudent)
		students.POST("", staff, c.StudentController.CreateStudent)
		students.PUT("/:student_id", staff, c.StudentController.UpdateStudent)
		students.DELETE("/:student_id", staff, c.StudentController.DeleteStudent)

		// Student-owned records
		records := students.Group("/:student_id", staff)
		{
			records.GET("/counseling-sessions", c.RecordController.ListCounselingSessions)
			records.POST("/counseling-sessions", c.RecordController.CreateCounselingSession)
			records.GET("/mental-health-assessments", c.RecordController.ListMentalHealthAssessments)
			records.POST("/mental-health-assessments", c.RecordController.CreateMentalHealthAssessment)
			records.GET("/behavior-records", c.RecordController.ListBehaviorRecords)
			records.POST("/behavior-records", c.RecordController.CreateBehaviorRecord)
			records.GET("/career-assessments", c.RecordController.ListCareerAssessments)
			records.POST("/career-assessments", c.RecordController.CreateCareerAssessment)
		}
	}

	// --- Admin lifecycle routes ---
	admin := authenticated.Group("/admin", adminOnly)
	{
		admin.GET("/students/deleted", c.AdminController.ListDeletedStudents)
		admin.GET("/students/deleted/:student_id", c.AdminController.GetDeletedStudent)
		admin.PUT("/students/:student_id/restore", c.AdminController.RestoreStudent)
		admin.DELETE("/students/:student_id/hard-delete", c.AdminController.HardDeleteStudent)
		admin.DELETE("/students/bulk-hard-delete", c.AdminController.BulkHardDeleteStudents)

		admin.GET("/users/deleted", c.AdminController.ListDeletedUsers)
		admin.PUT("/users/:user_id/restore", c.AdminController.RestoreUser)

		admin.GET("/classes/deleted", c.AdminController.ListDeletedClasses)
		admin.PUT("/classes/:class_id/restore", c.AdminController.RestoreClass)
		admin.DELETE("/classes/:class_id/hard-delete", c.AdminController.HardDeleteClass)
	}
}
