// File: /config/config.go
package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port        string
	DatabaseURL string
	RedisAddr   string
	JWTSecret   string

	// Friend request behaviour
	FriendAddTimeoutSeconds int
	InsecureFields          []string

	// Email Configuration
	SMTPHost       string
	SMTPPort       int
	SMTPUsername   string
	SMTPPassword   string
	FromEmail      string
	FromName       string
	EmailQueueSize int
}

func Load() *Config {
	smtpPort, _ := strconv.Atoi(getEnv("SMTP_PORT", "2525"))
	friendTimeout, _ := strconv.Atoi(getEnv("FRIEND_ADD_TIMEOUT_SECONDS", "3600"))
	queueSize, _ := strconv.Atoi(getEnv("EMAIL_QUEUE_SIZE", "256"))

	return &Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: getEnv("DATABASE_URL", "user:password@tcp(localhost:3306)/friends?charset=utf8mb4&parseTime=True&loc=Local"),
		RedisAddr:   getEnv("REDIS_ADDR", ""),
		JWTSecret:   getEnv("JWT_SECRET", "your-secret-key"),

		FriendAddTimeoutSeconds: friendTimeout,
		InsecureFields:          splitFields(getEnv("INSECURE_FIELDS", "password,email,email_verified")),

		// Email settings
		SMTPHost:       getEnv("SMTP_HOST", "sandbox.smtp.mailtrap.io"),
		SMTPPort:       smtpPort,
		SMTPUsername:   getEnv("SMTP_USERNAME", ""),
		SMTPPassword:   getEnv("SMTP_PASSWORD", ""),
		FromEmail:      getEnv("FROM_EMAIL", "noreply@friends.local"),
		FromName:       getEnv("FROM_NAME", "Friends"),
		EmailQueueSize: queueSize,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitFields(value string) []string {
	parts := strings.Split(value, ",")
	fields := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			fields = append(fields, trimmed)
		}
	}
	return fields
}
