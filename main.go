package main

import (
	"log"

	"prepo/config"
	adminControllers "prepo/controllers/admin"
	"prepo/database"
	"prepo/queue"
	activityRoutes "prepo/routers/activityRoutes"
	adminRoutes "prepo/routers/adminRoutes"
	aiRoutes "prepo/routers/aiRoutes"
	bountyRoutes "prepo/routers/bountyRoutes"
	courseRoutes "prepo/routers/courseRoutes"
	userRoutes "prepo/routers/userRoutes"
	"prepo/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()
	utils.InitChain(config.AppConfig.ChainRPCURL, config.AppConfig.ContractAddress)

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",
		AllowHeaders: "Content-Type,Authorization",
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	// Serve uploaded course material and other static assets
	app.Static("/", "./public")

	app.Get("/health", func(c *fiber.Ctx) error {
		sqlDB, err := database.Database.Db.DB()
		if err == nil {
			err = sqlDB.Ping()
		}
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "down"})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})

	courseRoutes.SetupCourseRoutes(app)
	bountyRoutes.SetupBountyRoutes(app)
	adminRoutes.SetupAdminRoutes(app)
	userRoutes.SetupUserRoutes(app)
	activityRoutes.SetupActivityRoutes(app)
	aiRoutes.SetupAIRoutes(app)

	// Hourly sweep for pending registrations whose payment landed on-chain
	sweeper := utils.StartReconcileScheduler(utils.Chain)
	defer sweeper.Stop()

	// Mentor payout notifications ride through RabbitMQ when configured
	if config.AppConfig.RabbitURL != "" {
		rabbit, err := queue.NewClient(config.AppConfig.RabbitURL, config.AppConfig.RabbitQueue)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer rabbit.Close()

		adminControllers.Publisher = rabbit
		if err := rabbit.Consume(utils.HandlePayoutEvent); err != nil {
			log.Fatalf("Failed to start notification worker: %v", err)
		}
	}

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
