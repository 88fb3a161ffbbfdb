package courseRoutes

import (
	controllers "prepo/controllers/course"
	validators "prepo/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up all course marketplace and registration routes
func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/courses")

	// Marketplace
	courseGroup.Get("/", controllers.GetAllCourses)
	courseGroup.Post("/", validators.CreateCourse(), controllers.CreateCourse)
	// Registered before /:code so the static segment wins
	courseGroup.Get("/registrations", controllers.ListRegistrations)
	courseGroup.Get("/:code", validators.CourseCode(), controllers.GetCourseDetails)
	courseGroup.Delete("/:code", validators.CourseCode(), controllers.DeleteCourse)
	courseGroup.Put("/:code/modules", validators.CourseCode(), controllers.UpdateCourseModules)

	// Payment reconciliation flow
	courseGroup.Post("/:code/request-register", validators.CourseCode(), validators.Register(), controllers.RequestRegister)
	courseGroup.Get("/:code/status", validators.CourseCode(), controllers.GetRegistrationStatus)
	courseGroup.Post("/:code/verify", validators.CourseCode(), controllers.VerifyEnrollment)

	// Progress tracking
	courseGroup.Post("/:code/progress", validators.CourseCode(), controllers.SaveProgress)
	courseGroup.Get("/:code/progress", validators.CourseCode(), controllers.GetProgress)
}
