package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Course represents a mentor-created course listed on the marketplace
type Course struct {
	gorm.Model
	Code          string         `gorm:"unique;not null;index" json:"code"` // 5 digits + 2 chars, generated server-side
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	Category      string         `gorm:"default:'General'" json:"category"`
	Level         string         `gorm:"default:'Beginner'" json:"level"`
	Duration      string         `json:"duration"`
	Fee           float64        `gorm:"default:0" json:"fee"` // native currency
	MentorAddress string         `gorm:"index" json:"mentorAddress"`
	Files         datatypes.JSON `json:"files"`   // uploaded material URLs
	Modules       datatypes.JSON `json:"modules"` // course module tree
	AvgScore      float64        `gorm:"default:0" json:"avgScore"`
	IsDeleted     bool           `gorm:"default:false" json:"-"`
}
