package userController

import (
	"errors"
	"log"

	"prepo/database"
	"prepo/middleware"
	"prepo/models"
	"prepo/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SaveUser upserts a wallet identity by address
func SaveUser(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedUser").(*struct {
		Address string `json:"address"`
		Name    string `json:"name"`
		Role    string `json:"role"`
		Email   string `json:"email"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db
	address := utils.NormalizeAddress(reqData.Address)

	var user models.User
	err := db.Where("address = ? AND is_deleted = false", address).First(&user).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("Error looking up user %s: %v", address, err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save user!", nil)
		}
		user = models.User{
			Address: address,
			Name:    reqData.Name,
			Role:    reqData.Role,
			Email:   reqData.Email,
		}
		if err := db.Create(&user).Error; err != nil {
			log.Printf("Error creating user %s: %v", address, err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save user!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusOK, true, "User created!", user)
	}

	user.Name = reqData.Name
	user.Role = reqData.Role
	if reqData.Email != "" {
		user.Email = reqData.Email
	}
	if err := db.Save(&user).Error; err != nil {
		log.Printf("Error updating user %s: %v", address, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save user!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User updated!", user)
}

// GetUser fetches a user by wallet address
func GetUser(c *fiber.Ctx) error {
	address := c.Locals("userAddress").(string)

	var user models.User
	if err := database.Database.Db.Where("address = ? AND is_deleted = false", address).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User fetched!", user)
}

// GetUserStats aggregates a user's platform activity: confirmed
// enrollments, bounty entries, quiz attempts and total earnings
func GetUserStats(c *fiber.Ctx) error {
	address := c.Locals("userAddress").(string)
	db := database.Database.Db

	var enrollments int64
	db.Model(&models.CourseRegistration{}).
		Where("user_address = ? AND status = ?", address, models.RegistrationStatusConfirmed).
		Count(&enrollments)

	var bountyEntries int64
	db.Model(&models.BountyRegistration{}).
		Where("user_address = ? AND status = ?", address, models.RegistrationStatusConfirmed).
		Count(&bountyEntries)

	var quizzes int64
	db.Model(&models.QuizResult{}).Where("user_address = ?", address).Count(&quizzes)

	var totalEarned float64
	db.Model(&models.Earning{}).
		Where("user_address = ?", address).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&totalEarned)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Stats fetched!", fiber.Map{
		"enrollments":   enrollments,
		"bountyEntries": bountyEntries,
		"quizzesTaken":  quizzes,
		"totalEarned":   totalEarned,
	})
}
