package models

import (
	"gorm.io/gorm"
)

// PayoutStatus defines the status of a mentor payout obligation
type PayoutStatus string

const (
	PayoutStatusCompleted     PayoutStatus = "completed"      // owner supplied the payout tx hash
	PayoutStatusPendingManual PayoutStatus = "pending_manual" // approved without a payout tx yet
)

// Payout records the mentor's share owed (or paid) for one confirmed registration
type Payout struct {
	gorm.Model
	RegistrationID uint         `gorm:"index;not null" json:"registrationId"`
	MentorAddress  string       `gorm:"index" json:"mentorAddress"`
	Amount         float64      `gorm:"not null" json:"amount"`
	TxHash         string       `json:"txHash"`
	Status         PayoutStatus `gorm:"type:varchar(20);not null" json:"status"`
	Note           string       `json:"note"`
}

func (Payout) TableName() string {
	return "onchain_payouts"
}

// Prize records a bounty prize awarded to a participant
type Prize struct {
	gorm.Model
	BountyCode  string  `gorm:"index;not null" json:"bountyCode"`
	UserAddress string  `gorm:"index;not null" json:"userAddress"`
	Amount      float64 `gorm:"not null" json:"amount"`
	Reason      string  `json:"reason"`
}

func (Prize) TableName() string {
	return "bounty_prizes"
}

// Earning aggregates anything a user has earned on the platform
type Earning struct {
	gorm.Model
	UserAddress string  `gorm:"index;not null" json:"userAddress"`
	Source      string  `gorm:"type:varchar(50);not null" json:"source"` // bounty, quiz, payout
	Amount      float64 `gorm:"not null" json:"amount"`
	BountyCode  string  `json:"bountyCode"`
	CourseCode  string  `json:"courseCode"`
	Reason      string  `json:"reason"`
}
