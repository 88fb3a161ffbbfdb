package controllers

import (
	"encoding/json"
	"log"

	"prepo/database"
	"prepo/middleware"
	"prepo/models"
	"prepo/utils"

	"github.com/gofiber/fiber/v2"
)

type bountyWithStats struct {
	models.Bounty
	Entries int64 `json:"entries"`
}

func attachEntryCount(bounty models.Bounty) bountyWithStats {
	var count int64
	database.Database.Db.Model(&models.BountyRegistration{}).
		Where("bounty_code = ? AND status = ?", bounty.Code, models.RegistrationStatusConfirmed).
		Count(&count)
	return bountyWithStats{Bounty: bounty, Entries: count}
}

// GetAllBounties lists bounties, optionally filtered by mentor address
func GetAllBounties(c *fiber.Ctx) error {
	db := database.Database.Db

	query := db.Where("is_deleted = false")
	if mentor := c.Query("mentor"); mentor != "" {
		query = query.Where("mentor_address = ?", utils.NormalizeAddress(mentor))
	}

	var bounties []models.Bounty
	if err := query.Order("created_at desc").Find(&bounties).Error; err != nil {
		log.Printf("Error fetching bounties: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch bounties!", nil)
	}

	result := make([]bountyWithStats, 0, len(bounties))
	for _, bounty := range bounties {
		result = append(result, attachEntryCount(bounty))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Bounties fetched successfully!", result)
}

// CreateBounty creates a bounty. The prize pool is marked funded only when
// the creator supplies the hash of the escrow funding transaction.
func CreateBounty(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedBounty").(*struct {
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
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	requirementsJSON, _ := json.Marshal(reqData.Requirements)

	bounty := models.Bounty{
		Code:          utils.GenerateUniqueCode(),
		Title:         reqData.Title,
		Description:   reqData.Description,
		Category:      reqData.Category,
		Difficulty:    reqData.Difficulty,
		PrizePool:     reqData.PrizePool,
		EntryFee:      reqData.EntryFee,
		TopWinners:    reqData.TopWinners,
		MaxEntries:    reqData.MaxEntries,
		Deadline:      reqData.Deadline,
		MentorAddress: utils.NormalizeAddress(reqData.MentorAddress),
		LinkedCourse:  reqData.LinkedCourse,
		Requirements:  requirementsJSON,
		Status:        models.BountyStatusActive,
		Funded:        reqData.TxHash != "",
		TxHash:        reqData.TxHash,
	}

	// The code column is unique; regenerate and retry on a collision
	var err error
	for attempt := 0; attempt < 3; attempt++ {
		if err = database.Database.Db.Create(&bounty).Error; err == nil || !utils.IsUniqueViolation(err) {
			break
		}
		bounty.ID = 0
		bounty.Code = utils.GenerateUniqueCode()
	}
	if err != nil {
		log.Printf("Error saving bounty: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create bounty!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Bounty created successfully!", bounty)
}

// GetBountyDetails fetches one bounty by code
func GetBountyDetails(c *fiber.Ctx) error {
	code := c.Locals("bountyCode").(string)

	var bounty models.Bounty
	if err := database.Database.Db.Where("code = ? AND is_deleted = false", code).First(&bounty).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Bounty not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Bounty fetched successfully!", attachEntryCount(bounty))
}

// DeleteBounty soft-deletes a bounty by code
func DeleteBounty(c *fiber.Ctx) error {
	code := c.Locals("bountyCode").(string)

	res := database.Database.Db.Model(&models.Bounty{}).
		Where("code = ? AND is_deleted = false", code).
		Update("is_deleted", true)
	if res.Error != nil {
		log.Printf("Error deleting bounty: %v", res.Error)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete bounty!", nil)
	}
	if res.RowsAffected == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Bounty not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Bounty deleted successfully!", nil)
}
