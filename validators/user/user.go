package userValidator

import (
	"strings"

	"prepo/middleware"
	"prepo/utils"

	"github.com/gofiber/fiber/v2"
)

// SaveUser validates the user upsert payload
func SaveUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Address string `json:"address"`
			Name    string `json:"name"`
			Role    string `json:"role"`
			Email   string `json:"email"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Address) == "" {
			errors["address"] = "Address is required!"
		}
		if reqData.Role != "mentor" && reqData.Role != "mentee" {
			errors["role"] = "Role must be mentor or mentee!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedUser", reqData)
		return c.Next()
	}
}

// UserAddress validates the :address route parameter
func UserAddress() fiber.Handler {
	return func(c *fiber.Ctx) error {
		address := strings.TrimSpace(c.Params("address"))
		if address == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Address is required!", nil)
		}

		c.Locals("userAddress", utils.NormalizeAddress(address))
		return c.Next()
	}
}
