package controllers

import (
	"encoding/json"
	"errors"
	"log"

	"prepo/database"
	"prepo/middleware"
	"prepo/models"
	"prepo/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SaveProgress upserts a mentee's progress inside a course
func SaveProgress(c *fiber.Ctx) error {
	code := c.Locals("courseCode").(string)

	var body struct {
		UserAddress        string          `json:"userAddress"`
		CompletedLessons   json.RawMessage `json:"completedLessons"`
		CurrentModule      int             `json:"currentModule"`
		ProgressPercentage float64         `json:"progressPercentage"`
	}
	if err := c.BodyParser(&body); err != nil || body.UserAddress == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Missing userAddress!", nil)
	}

	db := database.Database.Db
	address := utils.NormalizeAddress(body.UserAddress)

	var progress models.Progress
	err := db.Where("user_address = ? AND course_code = ?", address, code).First(&progress).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Error looking up progress: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save progress!", nil)
	}

	progress.UserAddress = address
	progress.CourseCode = code
	progress.CompletedLessons = []byte(body.CompletedLessons)
	progress.CurrentModule = body.CurrentModule
	progress.ProgressPercentage = body.ProgressPercentage

	if err := db.Save(&progress).Error; err != nil {
		log.Printf("Error saving progress: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save progress!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress saved!", progress)
}

// GetProgress returns a mentee's progress in a course, or null
func GetProgress(c *fiber.Ctx) error {
	code := c.Locals("courseCode").(string)

	address := c.Query("address")
	if address == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Missing address!", nil)
	}

	var progress models.Progress
	err := database.Database.Db.
		Where("user_address = ? AND course_code = ?", utils.NormalizeAddress(address), code).
		First(&progress).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusOK, true, "No progress found.", nil)
		}
		log.Printf("Error fetching progress: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch progress!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched!", progress)
}
