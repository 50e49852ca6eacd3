package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort      string
	Environment     string
	FirebaseProject string
	FirebaseApiKey  string

	// Payment gateway (Stripe-compatible payment intents API)
	GatewaySecretKey     string
	GatewayWebhookSecret string
	GatewayBaseURL       string

	// DevTokenSecret signs local development tokens when Firebase
	// credentials are unavailable. Ignored in production.
	DevTokenSecret string

	FineDueDays int
}

func Load() (*Config, error) {
	godotenv.Load()

	config := &Config{
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		Environment:     getEnv("ENVIRONMENT", "development"),
		FirebaseProject: getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseApiKey:  getEnv("FIREBASE_API_KEY", ""),

		GatewaySecretKey:     getEnv("GATEWAY_SECRET_KEY", ""),
		GatewayWebhookSecret: getEnv("GATEWAY_WEBHOOK_SECRET", ""),
		GatewayBaseURL:       getEnv("GATEWAY_BASE_URL", "https://api.stripe.com/v1"),

		DevTokenSecret: getEnv("DEV_TOKEN_SECRET", ""),

		FineDueDays: getEnvAsInt("FINE_DUE_DAYS", 30),
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		intValue, err := strconv.Atoi(value)
		if err == nil {
			return intValue
		}
	}
	return defaultValue
}
