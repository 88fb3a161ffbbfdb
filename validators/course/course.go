package courseValidator

import (
	"strconv"
	"strings"

	"prepo/middleware"

	"github.com/gofiber/fiber/v2"
)

// CourseCode validates the :code route parameter
func CourseCode() fiber.Handler {
	return func(c *fiber.Ctx) error {
		code := strings.TrimSpace(c.Params("code"))
		if code == "" || strings.EqualFold(code, "undefined") {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course code is required!", nil)
		}

		c.Locals("courseCode", code)
		return c.Next()
	}
}

// CreateCourse validates the course creation payload, accepting JSON or
// multipart form fields
func CreateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title         string  `json:"title"`
			Description   string  `json:"description"`
			Category      string  `json:"category"`
			Level         string  `json:"level"`
			Duration      string  `json:"duration"`
			Fee           float64 `json:"fee"`
			MentorAddress string  `json:"mentorAddress"`
		})

		contentType := string(c.Request().Header.ContentType())
		if strings.HasPrefix(contentType, "multipart/form-data") {
			reqData.Title = c.FormValue("title")
			reqData.Description = c.FormValue("description")
			reqData.Category = c.FormValue("category")
			reqData.Level = c.FormValue("level")
			reqData.Duration = c.FormValue("duration")
			reqData.MentorAddress = c.FormValue("mentorAddress")
			if fee, err := strconv.ParseFloat(c.FormValue("fee", "0"), 64); err == nil {
				reqData.Fee = fee
			}
		} else if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Title) == "" {
			errors["title"] = "Title is required!"
		}
		if strings.TrimSpace(reqData.MentorAddress) == "" {
			errors["mentorAddress"] = "Mentor address is required!"
		}
		if reqData.Fee < 0 {
			errors["fee"] = "Fee cannot be negative!"
		}
		if reqData.Category == "" {
			reqData.Category = "General"
		}
		if reqData.Level == "" {
			reqData.Level = "Beginner"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}
