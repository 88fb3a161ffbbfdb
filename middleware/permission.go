package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// AdminOnly restricts a route to sessions carrying the ADMIN role claim.
// The owner console endpoints (pending queue, approve) sit behind this.
func AdminOnly(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok || role != "ADMIN" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"status":  false,
			"message": "You do not have permission to access this resource!",
			"data":    nil,
		})
	}
	return c.Next()
}
