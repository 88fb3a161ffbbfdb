package courseValidator

import (
	"strings"

	"prepo/middleware"

	"github.com/gofiber/fiber/v2"
)

// Register validates the pending-registration payload
func Register() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			UserAddress string  `json:"userAddress"`
			AmountPaid  float64 `json:"amountPaid"`
			TxHash      string  `json:"txHash"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if strings.TrimSpace(reqData.UserAddress) == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "User address is required!", nil)
		}
		if reqData.AmountPaid < 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Amount cannot be negative!", nil)
		}

		c.Locals("validatedRegistration", reqData)
		return c.Next()
	}
}
