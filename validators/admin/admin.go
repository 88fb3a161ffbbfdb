package adminValidator

import (
	"strings"

	"prepo/middleware"

	"github.com/gofiber/fiber/v2"
)

// Approve validates the approve payload
func Approve() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			RegistrationID uint   `json:"registrationId"`
			PayoutTxHash   string `json:"payoutTxHash"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.RegistrationID == 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Missing registrationId!", nil)
		}
		reqData.PayoutTxHash = strings.TrimSpace(reqData.PayoutTxHash)

		c.Locals("validatedApprove", reqData)
		return c.Next()
	}
}
