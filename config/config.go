package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

var (
	// Postgres connection settings
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string

	// Redis connection settings (optional, leave RedisAddr empty to disable)
	RedisAddr     string
	RedisPassword string

	// HTTP server
	ServerPort string
	ClientUrl  string

	// JWT signing secret
	JWTSecret string

	// Password for the bootstrap admin account created on an empty database
	DefaultPassword string

	// SMTP settings for password reset and support emails
	MailHost     string
	MailPort     string
	MailUsername string
	MailPassword string
	SupportEmail string
)

// Load reads the .env file if present and populates the package variables
func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	PostgresHost = getEnv("POSTGRES_HOST", "localhost")
	PostgresPort = getEnv("POSTGRES_PORT", "5432")
	PostgresUser = getEnv("POSTGRES_USER", "seenaf")
	PostgresPassword = getEnv("POSTGRES_PASSWORD", "seenaf")
	PostgresDB = getEnv("POSTGRES_DB", "seenaf")

	RedisAddr = getEnv("REDIS_ADDR", "")
	RedisPassword = getEnv("REDIS_PASSWORD", "")

	ServerPort = getEnv("SERVER_PORT", "8080")
	ClientUrl = getEnv("CLIENT_URL", "http://localhost:5173")

	JWTSecret = getEnv("JWT_SECRET", "")
	if JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	DefaultPassword = getEnv("DEFAULT_ADMIN_PASSWORD", "")

	MailHost = getEnv("MAIL_HOST", "")
	MailPort = getEnv("MAIL_PORT", "587")
	MailUsername = getEnv("MAIL_USERNAME", "")
	MailPassword = getEnv("MAIL_PASSWORD", "")
	SupportEmail = getEnv("SUPPORT_EMAIL", "support@seenaf.io")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
