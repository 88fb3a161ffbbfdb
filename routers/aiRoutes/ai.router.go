package aiRoutes

import (
	controllers "prepo/controllers/ai"
	validators "prepo/validators/ai"

	"github.com/gofiber/fiber/v2"
)

// SetupAIRoutes sets up the AI proxy routes
func SetupAIRoutes(app *fiber.App) {
	aiGroup := app.Group("/ai")

	aiGroup.Post("/process-pdf", controllers.ProcessPDF)
	aiGroup.Post("/quiz-result", validators.QuizResult(), controllers.SaveQuizResult)
}
