package bountyRoutes

import (
	controllers "prepo/controllers/bounty"
	validators "prepo/validators/bounty"

	"github.com/gofiber/fiber/v2"
)

// SetupBountyRoutes sets up all bounty marketplace and entry routes
func SetupBountyRoutes(app *fiber.App) {
	bountyGroup := app.Group("/bounties")

	bountyGroup.Get("/", controllers.GetAllBounties)
	bountyGroup.Post("/", validators.CreateBounty(), controllers.CreateBounty)
	bountyGroup.Get("/:code", validators.BountyCode(), controllers.GetBountyDetails)
	bountyGroup.Delete("/:code", validators.BountyCode(), controllers.DeleteBounty)

	bountyGroup.Post("/:code/register", validators.BountyCode(), validators.Entry(), controllers.RegisterForBounty)
	bountyGroup.Post("/:code/award", validators.BountyCode(), validators.Award(), controllers.AwardBountyPrize)
}
