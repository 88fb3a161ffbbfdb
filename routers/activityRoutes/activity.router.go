package activityRoutes

import (
	controllers "prepo/controllers/activity"

	"github.com/gofiber/fiber/v2"
)

// SetupActivityRoutes sets up the feed and leaderboard routes
func SetupActivityRoutes(app *fiber.App) {
	app.Get("/activities", controllers.GetActivities)
	app.Get("/leaderboards", controllers.GetLeaderboards)
}
