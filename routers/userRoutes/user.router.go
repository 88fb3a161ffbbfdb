package userRoutes

import (
	controllers "prepo/controllers/user"
	validators "prepo/validators/user"

	"github.com/gofiber/fiber/v2"
)

// SetupUserRoutes sets up wallet identity routes
func SetupUserRoutes(app *fiber.App) {
	userGroup := app.Group("/user")

	userGroup.Post("/save", validators.SaveUser(), controllers.SaveUser)
	userGroup.Get("/:address", validators.UserAddress(), controllers.GetUser)
	userGroup.Get("/:address/stats", validators.UserAddress(), controllers.GetUserStats)
}
