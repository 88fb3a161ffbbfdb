package utils

import (
	"encoding/json"
	"log"

	"prepo/database"
	"prepo/models"
)

// PayoutEvent is published when a registration gets confirmed and a payout
// obligation is recorded
type PayoutEvent struct {
	RegistrationID uint    `json:"registrationId"`
	CourseCode     string  `json:"courseCode"`
	MentorAddress  string  `json:"mentorAddress"`
	Amount         float64 `json:"amount"`
	TxHash         string  `json:"txHash"`
}

// HandlePayoutEvent turns a confirmation event into a mentor email. Mentors
// without an email on their profile are skipped.
func HandlePayoutEvent(body []byte) error {
	var event PayoutEvent
	if err := json.Unmarshal(body, &event); err != nil {
		log.Printf("[NOTIFY-WORKER] Dropping malformed payout event: %v", err)
		return nil // malformed messages must not requeue forever
	}

	var mentor models.User
	if err := database.Database.Db.Where("address = ? AND is_deleted = false", NormalizeAddress(event.MentorAddress)).First(&mentor).Error; err != nil {
		log.Printf("[NOTIFY-WORKER] Mentor %s not found for payout event, skipping", event.MentorAddress)
		return nil
	}
	if mentor.Email == "" {
		return nil
	}

	if err := SendPayoutNotification(mentor.Email, event.CourseCode, event.Amount, event.TxHash); err != nil {
		log.Printf("[NOTIFY-WORKER] Failed to email mentor %s: %v", event.MentorAddress, err)
		return err
	}

	log.Printf("[NOTIFY-WORKER] Payout notification sent to mentor %s for course %s", event.MentorAddress, event.CourseCode)
	return nil
}
