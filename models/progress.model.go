package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Progress tracks a mentee's position inside a course
type Progress struct {
	gorm.Model
	UserAddress        string         `gorm:"index;not null" json:"userAddress"`
	CourseCode         string         `gorm:"index;not null" json:"courseCode"`
	CompletedLessons   datatypes.JSON `json:"completedLessons"`
	CurrentModule      int            `gorm:"default:0" json:"currentModule"`
	ProgressPercentage float64        `gorm:"default:0" json:"progressPercentage"`
}

func (Progress) TableName() string {
	return "progress"
}
