package models

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Address   string `gorm:"unique;not null" json:"address"` // wallet address, stored lowercase
	Name      string `gorm:"default:''" json:"name"`
	Email     string `gorm:"default:''" json:"email"` // optional, for payout notifications
	Role      string `gorm:"default:'mentee'" json:"role"` // mentor, mentee
	IsDeleted bool   `gorm:"default:false" json:"-"`
}
