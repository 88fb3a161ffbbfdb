package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port      string
	JWTKey    string
	AdminPass string

	ChainRPCURL     string
	ContractAddress string // payment sink contract address

	AIServiceURL string // PDF analysis / quiz generation service

	EmailSender string
	Password    string // SMTP Password

	RabbitURL   string // optional; notification worker disabled when empty
	RabbitQueue string

	PendingSweepAfterHours int // pending registrations older than this get re-checked
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port:      getEnv("PORT", "3000"),
		JWTKey:    getEnv("JWT_SECRET_KEY", "defaultSecret"),
		AdminPass: getEnv("ADMIN_PASSWORD", ""),

		ChainRPCURL:     getEnv("CHAIN_RPC_URL", "https://forno.celo.org"),
		ContractAddress: getEnv("CONTRACT_ADDRESS", "0x0BC8dCb2c6F6AA1dFD236c985241dad86C6593DF"),

		AIServiceURL: getEnv("AI_SERVICE_URL", "http://localhost:8000"),

		EmailSender: getEnv("EMAIL_SENDER", ""),
		Password:    getEnv("PASSWORD", ""),

		RabbitURL:   getEnv("RABBITMQ_URL", ""),
		RabbitQueue: getEnv("RABBITMQ_QUEUE", "payout_notifications"),

		PendingSweepAfterHours: getEnvInt("PENDING_SWEEP_AFTER_HOURS", 24),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.AdminPass == "" {
		log.Println("Warning: ADMIN_PASSWORD is not set. Admin login is disabled.")
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}
