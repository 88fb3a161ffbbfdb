package controllers

import (
	"errors"
	"log"
	"time"

	"prepo/database"
	"prepo/middleware"
	"prepo/models"
	"prepo/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const platformEntryFee = 0.005 // flat platform cut per entry, native currency

// prizePoolContribution returns how much of a verified entry payment flows
// into the bounty prize pool: 90% of the amount net of the platform fee.
func prizePoolContribution(amountPaid float64) float64 {
	net := decimal.NewFromFloat(amountPaid).Sub(decimal.NewFromFloat(platformEntryFee))
	if net.IsNegative() {
		return 0
	}
	return net.Mul(decimal.NewFromFloat(0.9)).Round(6).InexactFloat64()
}

// RegisterForBounty records a participant's entry after verifying their
// entry-fee transaction against the payment sink. The paid amount is
// chain-derived; entries confirm immediately since there is no later
// owner approval step for bounty entries.
func RegisterForBounty(c *fiber.Ctx) error {
	code := c.Locals("bountyCode").(string)

	reqData, ok := c.Locals("validatedEntry").(*struct {
		UserAddress string `json:"userAddress"`
		TxHash      string `json:"txHash"`
		IsEnrolled  bool   `json:"isEnrolled"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db
	userAddress := utils.NormalizeAddress(reqData.UserAddress)

	var bounty models.Bounty
	if err := db.Where("code = ? AND is_deleted = false", code).First(&bounty).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Bounty not found!", nil)
	}
	if bounty.Status != models.BountyStatusActive {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Bounty is not active!", nil)
	}

	// Enforce the entry ceiling against the derived count
	if bounty.MaxEntries > 0 {
		var entries int64
		db.Model(&models.BountyRegistration{}).
			Where("bounty_code = ? AND status = ?", code, models.RegistrationStatusConfirmed).
			Count(&entries)
		if entries >= int64(bounty.MaxEntries) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Bounty is full!", nil)
		}
	}

	var existing models.BountyRegistration
	if err := db.Where("bounty_code = ? AND user_address = ?", code, userAddress).First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Already registered for this bounty!", nil)
	}

	info, err := utils.Chain.VerifyPayment(reqData.TxHash)
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrTxNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Transaction not found!", nil)
		case errors.Is(err, utils.ErrTxPending):
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Transaction not mined yet!", nil)
		case errors.Is(err, utils.ErrWrongRecipient):
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Transaction not sent to contract address!", nil)
		default:
			log.Printf("Error verifying bounty entry tx %s: %v", reqData.TxHash, err)
			return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Failed to verify transaction!", nil)
		}
	}

	now := time.Now()
	entry := models.BountyRegistration{
		BountyCode:  code,
		UserAddress: userAddress,
		AmountPaid:  info.Amount,
		TxHash:      info.TxHash,
		IsEnrolled:  reqData.IsEnrolled,
		Status:      models.RegistrationStatusConfirmed,
		ConfirmedAt: &now,
	}

	tx := db.Begin()
	if err := tx.Create(&entry).Error; err != nil {
		tx.Rollback()
		log.Printf("Error saving bounty registration: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to register for bounty!", nil)
	}

	if contribution := prizePoolContribution(info.Amount); contribution > 0 {
		if err := tx.Model(&models.Bounty{}).
			Where("code = ?", code).
			Update("prize_pool", gorm.Expr("prize_pool + ?", contribution)).Error; err != nil {
			tx.Rollback()
			log.Printf("Error updating prize pool: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to register for bounty!", nil)
		}
	}
	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Registered for bounty!", fiber.Map{
		"entry": entry,
		"paid":  info.Amount,
	})
}

// AwardBountyPrize records a prize for a participant and mirrors it into
// their earnings
func AwardBountyPrize(c *fiber.Ctx) error {
	code := c.Locals("bountyCode").(string)

	reqData, ok := c.Locals("validatedAward").(*struct {
		UserAddress string  `json:"userAddress"`
		Amount      float64 `json:"amount"`
		Reason      string  `json:"reason"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var bounty models.Bounty
	if err := db.Where("code = ? AND is_deleted = false", code).First(&bounty).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Bounty not found!", nil)
	}

	prize := models.Prize{
		BountyCode:  code,
		UserAddress: utils.NormalizeAddress(reqData.UserAddress),
		Amount:      reqData.Amount,
		Reason:      reqData.Reason,
	}

	tx := db.Begin()
	if err := tx.Create(&prize).Error; err != nil {
		tx.Rollback()
		log.Printf("Error saving bounty prize: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to award bounty prize!", nil)
	}

	earning := models.Earning{
		UserAddress: prize.UserAddress,
		Source:      "bounty",
		Amount:      prize.Amount,
		BountyCode:  code,
		Reason:      prize.Reason,
	}
	if err := tx.Create(&earning).Error; err != nil {
		tx.Rollback()
		log.Printf("Error saving bounty earning: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to award bounty prize!", nil)
	}
	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Bounty prize awarded!", prize)
}
