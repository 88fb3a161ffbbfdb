package controllers

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log"

	"prepo/config"
	"prepo/database"
	"prepo/middleware"
	"prepo/models"
	"prepo/queue"
	"prepo/utils"

	"github.com/gofiber/fiber/v2"
)

// Publisher is the optional confirmation-event queue, assigned in main
// when RabbitMQ is configured
var Publisher queue.Publisher

// AdminLogin exchanges the configured admin password for a JWT carrying
// the ADMIN role
func AdminLogin(c *fiber.Ctx) error {
	var body struct {
		Password string `json:"password"`
	}
	if err := c.BodyParser(&body); err != nil || body.Password == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Missing password!", nil)
	}

	if config.AppConfig.AdminPass == "" {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Admin login is not configured!", nil)
	}

	if subtle.ConstantTimeCompare([]byte(body.Password), []byte(config.AppConfig.AdminPass)) != 1 {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials!", nil)
	}

	token, err := middleware.GenerateJWT("owner", "ADMIN")
	if err != nil {
		log.Printf("Error generating admin token: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to issue token!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login successful!", fiber.Map{"token": token})
}

// pendingRegistration enriches a pending record with the mentor owed its
// eventual payout
type pendingRegistration struct {
	models.CourseRegistration
	MentorAddress string `json:"mentorAddress"`
}

// GetPendingRegistrations lists the reconciliation queue, newest first,
// optionally narrowed to one mentor's courses
func GetPendingRegistrations(c *fiber.Ctx) error {
	db := database.Database.Db

	query := db.Where("status = ?", models.RegistrationStatusPending)
	if mentor := c.Query("mentor"); mentor != "" {
		var codes []string
		if err := db.Model(&models.Course{}).
			Where("mentor_address = ? AND is_deleted = false", utils.NormalizeAddress(mentor)).
			Pluck("code", &codes).Error; err != nil {
			log.Printf("Error fetching mentor courses: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch pending registrations!", nil)
		}
		query = query.Where("course_code IN ?", codes)
	}

	var pending []models.CourseRegistration
	if err := query.
		Order("created_at desc").
		Find(&pending).Error; err != nil {
		log.Printf("Error fetching pending registrations: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch pending registrations!", nil)
	}

	enriched := make([]pendingRegistration, 0, len(pending))
	for _, reg := range pending {
		item := pendingRegistration{CourseRegistration: reg}
		var course models.Course
		if err := db.Where("code = ? AND is_deleted = false", reg.CourseCode).First(&course).Error; err == nil {
			item.MentorAddress = course.MentorAddress
		}
		enriched = append(enriched, item)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Pending registrations fetched!", enriched)
}

// ApproveRegistration confirms one pending registration. The owner has
// already sent the mentor payout from their own wallet; the server only
// verifies state, computes the 80% share and records the payout. A second
// approve of the same registration succeeds without mutating anything.
func ApproveRegistration(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedApprove").(*struct {
		RegistrationID uint   `json:"registrationId"`
		PayoutTxHash   string `json:"payoutTxHash"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	result, err := utils.ConfirmRegistration(database.Database.Db, reqData.RegistrationID, reqData.PayoutTxHash)
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrRegistrationNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Registration not found!", nil)
		case errors.Is(err, utils.ErrCourseNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
		case errors.Is(err, utils.ErrInvalidAmount):
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid paid amount on registration!", nil)
		default:
			log.Printf("Error approving registration %d: %v", reqData.RegistrationID, err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to approve registration!", nil)
		}
	}

	if result.AlreadyConfirmed {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Already confirmed", fiber.Map{
			"payoutTx": result.Registration.ConfirmTxHash,
		})
	}

	// Notify the mentor asynchronously; a publish failure never fails the
	// approval itself
	if Publisher != nil && result.Payout != nil {
		event := utils.PayoutEvent{
			RegistrationID: result.Registration.ID,
			CourseCode:     result.Registration.CourseCode,
			MentorAddress:  result.Payout.MentorAddress,
			Amount:         result.Payout.Amount,
			TxHash:         result.Payout.TxHash,
		}
		if payload, err := json.Marshal(event); err == nil {
			if err := Publisher.Publish(payload); err != nil {
				log.Printf("Failed to publish payout event for registration %d: %v", result.Registration.ID, err)
			}
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Registration approved!", fiber.Map{
		"payoutTx":     reqData.PayoutTxHash,
		"mentorShare":  result.Registration.MentorShare,
		"registration": result.Registration,
	})
}
