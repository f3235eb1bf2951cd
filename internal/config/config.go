package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string

	// MongoDB
	MongoURI string
	DBName   string

	// Redis (optional; catalog cache is skipped when unset)
	RedisURL string

	// Gemini AI (optional; chat falls back to rule-based replies when unset)
	GeminiAPIKey         string
	GeminiModel          string
	GeminiTimeoutSeconds int

	// Auth
	JWTSecret   string
	AdminAPIKey string

	// Chat
	ChatHistoryLimit int

	// Frontend
	FrontendURL string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:     getEnvOrDefault("PORT", "8080"),
		Env:      getEnvOrDefault("ENV", "development"),
		MongoURI: mustGetEnv("MONGO_URI"),
		DBName:   getEnvOrDefault("DB_NAME", "elevateu"),
		RedisURL: getEnvOrDefault("REDIS_URL", ""),
		GeminiAPIKey:         getEnvOrDefault("GEMINI_API_KEY", ""),
		GeminiModel:          getEnvOrDefault("GEMINI_MODEL", "gemini-2.5-flash"),
		GeminiTimeoutSeconds: getEnvAsIntOrDefault("GEMINI_TIMEOUT_SECONDS", 30),
		JWTSecret:   mustGetEnv("JWT_SECRET"),
		AdminAPIKey: getEnvOrDefault("ADMIN_API_KEY", ""),
		ChatHistoryLimit: getEnvAsIntOrDefault("CHAT_HISTORY_LIMIT", 5),
		FrontendURL: getEnvOrDefault("FRONTEND_URL", "http://localhost:5173"),
	}

	return cfg
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return val
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}
