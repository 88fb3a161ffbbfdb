package aiController

import (
	"encoding/json"
	"log"

	"prepo/config"
	"prepo/database"
	"prepo/middleware"
	"prepo/models"
	"prepo/utils"

	"github.com/go-resty/resty/v2"
	"github.com/gofiber/fiber/v2"
)

// analyzeResponse is the JSON contract of the AI service's analyze-pdf
// endpoint
type analyzeResponse struct {
	Summary string          `json:"summary"`
	Bullets json.RawMessage `json:"bullets"`
	Quiz    json.RawMessage `json:"quiz"`
	FileURL string          `json:"file_url"`
}

// ProcessPDF forwards an uploaded PDF to the AI service for summarization
// and quiz generation, then persists the analysis
func ProcessPDF(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil || file == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Missing file!", nil)
	}
	address := utils.NormalizeAddress(c.FormValue("address"))

	src, err := file.Open()
	if err != nil {
		log.Printf("Error opening uploaded file: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to read uploaded file!", nil)
	}
	defer src.Close()

	client := resty.New()
	resp, err := client.R().
		SetFileReader("file", file.Filename, src).
		SetFormData(map[string]string{"address": address}).
		Post(config.AppConfig.AIServiceURL + "/api/analyze-pdf")
	if err != nil {
		log.Printf("AI service request failed: %v", err)
		return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "AI service unavailable!", nil)
	}
	if resp.StatusCode() != 200 {
		log.Printf("AI service returned status %d: %s", resp.StatusCode(), resp.String())
		return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "AI provider error!", nil)
	}

	var result analyzeResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		log.Printf("Invalid AI service response: %v", err)
		return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Invalid AI service response!", nil)
	}

	analysis := models.PdfAnalysis{
		UserAddress: address,
		FileName:    file.Filename,
		FileURL:     result.FileURL,
		Summary:     result.Summary,
		Bullets:     []byte(result.Bullets),
		Quiz:        []byte(result.Quiz),
	}
	if err := database.Database.Db.Create(&analysis).Error; err != nil {
		log.Printf("Error saving PDF analysis: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save analysis!", nil)
	}

	if len(result.Quiz) > 0 {
		quiz := models.GeneratedQuiz{
			UserAddress: address,
			FileName:    file.Filename,
			FileURL:     result.FileURL,
			Quiz:        []byte(result.Quiz),
		}
		if err := database.Database.Db.Create(&quiz).Error; err != nil {
			log.Printf("Error saving generated quiz: %v", err)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "PDF analyzed successfully!", fiber.Map{
		"summary": result.Summary,
		"bullets": result.Bullets,
		"quiz":    result.Quiz,
		"fileUrl": result.FileURL,
	})
}

// SaveQuizResult stores the outcome of a quiz attempt and records any
// earned reward
func SaveQuizResult(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedQuizResult").(*struct {
		UserAddress string  `json:"userAddress"`
		CourseCode  string  `json:"courseCode"`
		QuizName    string  `json:"quizName"`
		Score       float64 `json:"score"`
		Correct     int     `json:"correct"`
		Total       int     `json:"total"`
		Reward      float64 `json:"reward"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	result := models.QuizResult{
		UserAddress: utils.NormalizeAddress(reqData.UserAddress),
		CourseCode:  reqData.CourseCode,
		QuizName:    reqData.QuizName,
		Score:       reqData.Score,
		Correct:     reqData.Correct,
		Total:       reqData.Total,
		Reward:      reqData.Reward,
	}

	db := database.Database.Db
	tx := db.Begin()
	if err := tx.Create(&result).Error; err != nil {
		tx.Rollback()
		log.Printf("Error saving quiz result: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save quiz result!", nil)
	}

	if result.Reward > 0 {
		earning := models.Earning{
			UserAddress: result.UserAddress,
			Source:      "quiz",
			Amount:      result.Reward,
			CourseCode:  result.CourseCode,
			Reason:      result.QuizName,
		}
		if err := tx.Create(&earning).Error; err != nil {
			tx.Rollback()
			log.Printf("Error saving quiz earning: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save quiz result!", nil)
		}
	}
	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz result saved!", result)
}
