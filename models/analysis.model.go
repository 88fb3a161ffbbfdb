package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PdfAnalysis stores the AI summary, key points and generated quiz for an uploaded PDF
type PdfAnalysis struct {
	gorm.Model
	UserAddress string         `gorm:"index" json:"userAddress"`
	FileName    string         `json:"fileName"`
	FileURL     string         `json:"fileUrl"`
	Summary     string         `gorm:"type:text" json:"summary"`
	Bullets     datatypes.JSON `json:"bullets"`
	Quiz        datatypes.JSON `json:"quiz"`
}

func (PdfAnalysis) TableName() string {
	return "pdf_analyses"
}

// GeneratedQuiz stores a quiz produced by the AI service
type GeneratedQuiz struct {
	gorm.Model
	UserAddress string         `gorm:"index" json:"userAddress"`
	FileName    string         `json:"fileName"`
	FileURL     string         `json:"fileUrl"`
	Quiz        datatypes.JSON `json:"quiz"`
}

func (GeneratedQuiz) TableName() string {
	return "generated_quizzes"
}

// QuizResult stores the outcome of one quiz attempt
type QuizResult struct {
	gorm.Model
	UserAddress string  `gorm:"index;not null" json:"userAddress"`
	CourseCode  string  `gorm:"index" json:"courseCode"`
	QuizName    string  `json:"quizName"`
	Score       float64 `gorm:"default:0" json:"score"` // percentage 0-100
	Correct     int     `gorm:"default:0" json:"correct"`
	Total       int     `gorm:"default:0" json:"total"`
	Reward      float64 `gorm:"default:0" json:"reward"` // native currency reward
}

func (QuizResult) TableName() string {
	return "quiz_results"
}
