package controllers

import (
	"errors"
	"log"
	"strings"

	"prepo/database"
	"prepo/middleware"
	"prepo/models"
	"prepo/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// RequestRegister records a pending registration after the mentee reports
// their enrollment payment. The declared amount is advisory; nothing is
// checked against the chain here. The owner's later approval, or the
// verify endpoint, performs the actual reconciliation.
func RequestRegister(c *fiber.Ctx) error {
	code := c.Locals("courseCode").(string)

	reqData, ok := c.Locals("validatedRegistration").(*struct {
		UserAddress string  `json:"userAddress"`
		AmountPaid  float64 `json:"amountPaid"`
		TxHash      string  `json:"txHash"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	reg, err := utils.RecordPendingRegistration(database.Database.Db, code, reqData.UserAddress, reqData.AmountPaid, reqData.TxHash)
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrCourseNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
		case errors.Is(err, utils.ErrDuplicatePending):
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "A pending registration already exists for this course!", nil)
		case errors.Is(err, utils.ErrPaymentAlreadyUsed):
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Transaction already used by another registration!", nil)
		default:
			log.Printf("Error recording pending registration: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create registration request!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Registration request recorded!", reg)
}

// GetRegistrationStatus returns the registration for (course, address), or
// null when none exists. The mentee's client polls this while waiting for
// the owner's confirmation.
func GetRegistrationStatus(c *fiber.Ctx) error {
	code := c.Locals("courseCode").(string)

	address := c.Query("address")
	if address == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Missing address!", nil)
	}

	var reg models.CourseRegistration
	err := database.Database.Db.
		Where("course_code = ? AND user_address = ?", code, utils.NormalizeAddress(address)).
		Order("created_at desc").
		First(&reg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusOK, true, "No registration found.", nil)
		}
		log.Printf("Error fetching registration status: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch status!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Registration fetched!", reg)
}

// ListRegistrations lists registrations across every course a mentor owns,
// optionally narrowed to one status. Powers the mentor dashboard.
func ListRegistrations(c *fiber.Ctx) error {
	mentor := c.Query("mentor")
	if mentor == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Missing mentor!", nil)
	}

	db := database.Database.Db

	var codes []string
	if err := db.Model(&models.Course{}).
		Where("mentor_address = ? AND is_deleted = false", utils.NormalizeAddress(mentor)).
		Pluck("code", &codes).Error; err != nil {
		log.Printf("Error fetching mentor courses: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch registrations!", nil)
	}

	regs := []models.CourseRegistration{}
	if len(codes) > 0 {
		query := db.Where("course_code IN ?", codes)
		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", strings.ToLower(status))
		}
		if err := query.Order("created_at desc").Find(&regs).Error; err != nil {
			log.Printf("Error fetching mentor registrations: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch registrations!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Registrations fetched!", regs)
}

// VerifyEnrollment checks the mentee's payment transaction against the
// payment sink and reconciles the matching registration. The paid amount
// is always re-derived from the transaction value on-chain.
func VerifyEnrollment(c *fiber.Ctx) error {
	code := c.Locals("courseCode").(string)

	var body struct {
		TxHash string `json:"txHash"`
	}
	if err := c.BodyParser(&body); err != nil || body.TxHash == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Missing txHash in body!", nil)
	}

	db := database.Database.Db

	var course models.Course
	if err := db.Where("code = ? AND is_deleted = false", code).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	info, err := utils.Chain.VerifyPayment(body.TxHash)
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrTxNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Transaction not found!", nil)
		case errors.Is(err, utils.ErrTxPending):
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Transaction not mined yet!", nil)
		case errors.Is(err, utils.ErrWrongRecipient):
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Transaction not sent to contract address!", nil)
		default:
			log.Printf("Error verifying enrollment tx %s: %v", body.TxHash, err)
			return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Failed to verify transaction!", nil)
		}
	}

	if course.Fee > 0 && info.Amount < course.Fee {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Paid amount is less than the course fee!", fiber.Map{
			"paid": info.Amount,
			"fee":  course.Fee,
		})
	}

	result, err := utils.ApplyVerifiedPayment(db, code, info)
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrInvalidAmount):
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid paid amount on registration!", nil)
		case errors.Is(err, utils.ErrPaymentAlreadyUsed):
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Transaction already used by another registration!", nil)
		default:
			log.Printf("Error reconciling verified payment: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to verify enrollment!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment verified!", fiber.Map{
		"paid":         info.Amount,
		"recordedTx":   info.TxHash,
		"registration": result.Registration,
	})
}
