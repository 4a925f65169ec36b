package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration values loaded from environment variables.
type Config struct {
	HTTPPort        string
	DatabaseURL     string
	JWTSecret       string
	TokenExpiration time.Duration

	// Completion provider (Groq, OpenAI-compatible API)
	GroqAPIKey          string
	GroqBaseURL         string
	GroqModel           string
	GroqClassifierModel string

	// Signup is restricted to this email domain.
	AllowedEmailDomain string

	// Per-user chat throttling
	RateLimitWindow      time.Duration
	RateLimitMaxRequests int

	// Login lockout
	LoginAttemptLimit    int
	LoginLockoutDuration time.Duration
}

// LoadConfig loads configuration from environment variables.
// It looks for a .env file first, then checks actual environment variables.
func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: Could not load .env file. Using environment variables only.", err)
		// Don't fail if .env is not present, might be in production
	}

	port := getEnv("HTTP_PORT", "8080")
	jwtSecret := getEnv("JWT_SECRET", "default-super-secret-key") // CHANGE THIS IN PRODUCTION!
	dbURL := getEnv("DATABASE_URL", "")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set.")
	}

	tokenExpHours := getEnvInt("JWT_EXPIRATION_HOURS", 24)

	groqAPIKey := getEnv("GROQ_API_KEY", "")
	if groqAPIKey == "" {
		log.Println("Warning: GROQ_API_KEY is not set. Chat turns will fail until it is configured.")
	}

	cfg := &Config{
		HTTPPort:        port,
		JWTSecret:       jwtSecret,
		DatabaseURL:     dbURL,
		TokenExpiration: time.Hour * time.Duration(tokenExpHours),

		GroqAPIKey:          groqAPIKey,
		GroqBaseURL:         getEnv("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
		GroqModel:           getEnv("GROQ_MODEL", "llama-3.3-70b-versatile"),
		GroqClassifierModel: getEnv("GROQ_CLASSIFIER_MODEL", "llama-3.1-8b-instant"),

		AllowedEmailDomain: getEnv("ALLOWED_EMAIL_DOMAIN", "unal.edu.co"),

		RateLimitWindow:      time.Duration(getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60)) * time.Second,
		RateLimitMaxRequests: getEnvInt("RATE_LIMIT_MAX_REQUESTS", 20),

		LoginAttemptLimit:    getEnvInt("LOGIN_ATTEMPT_LIMIT", 5),
		LoginLockoutDuration: time.Duration(getEnvInt("LOGIN_LOCKOUT_SECONDS", 900)) * time.Second,
	}

	log.Printf("Loaded config: Port=%s, DB_URL=***, TokenExp=%s, Model=%s, ClassifierModel=%s",
		cfg.HTTPPort, cfg.TokenExpiration, cfg.GroqModel, cfg.GroqClassifierModel)

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt retrieves an integer environment variable or returns a default value.
func getEnvInt(key string, fallback int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Warning: Invalid %s '%s', using default %d. Error: %v", key, value, fallback, err)
		return fallback
	}
	return n
}
