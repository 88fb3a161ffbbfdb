package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// BountyStatus defines the lifecycle state of a bounty
type BountyStatus string

const (
	BountyStatusActive BountyStatus = "Active"
	BountyStatusClosed BountyStatus = "Closed"
)

// Bounty represents a prize-pool challenge created by a mentor
type Bounty struct {
	gorm.Model
	Code          string         `gorm:"unique;not null;index" json:"code"`
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	Category      string         `gorm:"default:'General'" json:"category"`
	Difficulty    string         `gorm:"default:'Beginner'" json:"difficulty"`
	PrizePool     float64        `gorm:"default:0" json:"prizePool"`
	EntryFee      float64        `gorm:"default:0" json:"entryFee"`
	TopWinners    int            `gorm:"default:1" json:"topWinners"`
	MaxEntries    int            `gorm:"default:0" json:"maxEntries"` // 0 = unlimited
	Deadline      string         `json:"deadline"`
	MentorAddress string         `gorm:"index" json:"mentorAddress"`
	LinkedCourse  string         `json:"linkedCourse"`
	Requirements  datatypes.JSON `json:"requirements"`
	Files         datatypes.JSON `json:"files"`
	Status        BountyStatus   `gorm:"type:varchar(20);default:'Active'" json:"status"`
	Funded        bool           `gorm:"default:false" json:"funded"` // prize pool escrowed on-chain
	TxHash        string         `json:"txHash"`                      // funding transaction
	IsDeleted     bool           `gorm:"default:false" json:"-"`
}
