package aiValidator

import (
	"strings"

	"prepo/middleware"

	"github.com/gofiber/fiber/v2"
)

// QuizResult validates the quiz result payload
func QuizResult() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			UserAddress string  `json:"userAddress"`
			CourseCode  string  `json:"courseCode"`
			QuizName    string  `json:"quizName"`
			Score       float64 `json:"score"`
			Correct     int     `json:"correct"`
			Total       int     `json:"total"`
			Reward      float64 `json:"reward"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.UserAddress) == "" {
			errors["userAddress"] = "User address is required!"
		}
		if reqData.Score < 0 || reqData.Score > 100 {
			errors["score"] = "Score must be between 0 and 100!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedQuizResult", reqData)
		return c.Next()
	}
}
