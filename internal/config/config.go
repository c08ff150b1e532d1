package config

import (
	"os"
	"strconv"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort string
	MySQLDSN   string
	RedisAddr  string
	RedisDB    int
	RedisPass  string
	JWTSecret  string

	// Photo store (external image service).
	PhotoStoreURL   string
	PhotoStoreToken string

	// Identity verifier (external OTP provider).
	IdentityVerifyURL string

	// Outbound mail.
	SMTPAddr     string
	SMTPUser     string
	SMTPPassword string
	MailFrom     string

	SwaggerHost string
}

// Load builds Config from environment with sensible defaults.
func Load() *Config {
	return &Config{
		ServerPort:        getEnv("SERVER_PORT", "8080"),
		MySQLDSN:          getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/goodcitizen?charset=utf8mb4&parseTime=True&loc=Local"),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:           getEnvInt("REDIS_DB", 0),
		RedisPass:         os.Getenv("REDIS_PASSWORD"),
		JWTSecret:         getEnv("JWT_SECRET", "change-me"),
		PhotoStoreURL:     getEnv("PHOTO_STORE_URL", "http://localhost:9000/photos"),
		PhotoStoreToken:   os.Getenv("PHOTO_STORE_TOKEN"),
		IdentityVerifyURL: getEnv("IDENTITY_VERIFY_URL", "http://localhost:9001/verify"),
		SMTPAddr:          getEnv("SMTP_ADDR", "localhost:25"),
		SMTPUser:          os.Getenv("SMTP_USER"),
		SMTPPassword:      os.Getenv("SMTP_PASSWORD"),
		MailFrom:          getEnv("MAIL_FROM", "noreply@goodcitizen.local"),
		SwaggerHost:       os.Getenv("SWAGGER_HOST"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}
