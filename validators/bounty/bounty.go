package bountyValidator

import (
	"strings"

	"prepo/middleware"

	"github.com/gofiber/fiber/v2"
)

// BountyCode validates the :code route parameter
func BountyCode() fiber.Handler {
	return func(c *fiber.Ctx) error {
		code := strings.TrimSpace(c.Params("code"))
		if code == "" || strings.EqualFold(code, "undefined") {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Bounty code is required!", nil)
		}

		c.Locals("bountyCode", code)
		return c.Next()
	}
}

// CreateBounty validates the bounty creation payload
func CreateBounty() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title         string   `json:"title"`
			Description   string   `json:"description"`
			Category      string   `json:"category"`
			Difficulty    string   `json:"difficulty"`
			PrizePool     float64  `json:"prizePool"`
			EntryFee      float64  `json:"entryFee"`
			TopWinners    int      `json:"topWinners"`
			MaxEntries    int      `json:"maxEntries"`
			Deadline      string   `json:"deadline"`
			MentorAddress string   `json:"mentorAddress"`
			LinkedCourse  string   `json:"linkedCourse"`
			Requirements  []string `json:"requirements"`
			TxHash        string   `json:"txHash"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Title) == "" {
			errors["title"] = "Title is required!"
		}
		if strings.TrimSpace(reqData.MentorAddress) == "" {
			errors["mentorAddress"] = "Mentor address is required!"
		}
		if reqData.PrizePool < 0 {
			errors["prizePool"] = "Prize pool cannot be negative!"
		}
		if reqData.EntryFee < 0 {
			errors["entryFee"] = "Entry fee cannot be negative!"
		}
		if reqData.TopWinners < 1 {
			reqData.TopWinners = 1
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedBounty", reqData)
		return c.Next()
	}
}

// Entry validates the bounty entry payload
func Entry() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			UserAddress string `json:"userAddress"`
			TxHash      string `json:"txHash"`
			IsEnrolled  bool   `json:"isEnrolled"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.UserAddress) == "" {
			errors["userAddress"] = "User address is required!"
		}
		if strings.TrimSpace(reqData.TxHash) == "" {
			errors["txHash"] = "Transaction hash is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedEntry", reqData)
		return c.Next()
	}
}

// Award validates the prize award payload
func Award() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			UserAddress string  `json:"userAddress"`
			Amount      float64 `json:"amount"`
			Reason      string  `json:"reason"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.UserAddress) == "" {
			errors["userAddress"] = "User address is required!"
		}
		if reqData.Amount <= 0 {
			errors["amount"] = "Amount must be greater than 0!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedAward", reqData)
		return c.Next()
	}
}
