package adminRoutes

import (
	controllers "prepo/controllers/admin"
	"prepo/middleware"
	validators "prepo/validators/admin"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminRoutes sets up the owner console: the reconciliation queue and
// the approve action, both behind JWT + ADMIN role
func SetupAdminRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin")

	adminGroup.Post("/login", controllers.AdminLogin)
	adminGroup.Get("/pending", middleware.JWTMiddleware, middleware.AdminOnly, controllers.GetPendingRegistrations)
	adminGroup.Post("/approve", middleware.JWTMiddleware, middleware.AdminOnly, validators.Approve(), controllers.ApproveRegistration)
}
