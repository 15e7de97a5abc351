package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Environment string
	LogLevel    string

	// OAuth - Google
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	TokenFile          string

	// OpenAI
	OpenAIAPIKey   string
	LLMModel       string
	LLMTemperature float64
	LLMTimeoutSec  int

	// Pipeline
	MaxMessages     int
	ClassifyWorkers int
	SummaryWorkers  int
	MarkRead        bool

	// Delivery
	DeliveryModes []string // console, email, file
	DeliveryTo    string   // recipient for email delivery; "" = self
	OutputDir     string   // target for file delivery

	// Daemon mode
	RunInterval time.Duration
}

func Load() (*Config, error) {
	return &Config{
		Environment: getEnv("ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		// OAuth - Google
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URL", "urn:ietf:wg:oauth:2.0:oob"),
		TokenFile:          getEnv("GMAIL_TOKEN_FILE", "token.json"),

		// OpenAI
		OpenAIAPIKey:   getEnv("OPENAI_API_KEY", ""),
		LLMModel:       getEnv("LLM_MODEL", "gpt-4o-mini"),
		LLMTemperature: getEnvFloat("LLM_TEMPERATURE", 0.3),
		LLMTimeoutSec:  getEnvInt("LLM_TIMEOUT_SEC", 60),

		// Pipeline
		MaxMessages:     getEnvInt("DIGEST_MAX_MESSAGES", 50),
		ClassifyWorkers: getEnvInt("DIGEST_CLASSIFY_WORKERS", 5),
		SummaryWorkers:  getEnvInt("DIGEST_SUMMARY_WORKERS", 3),
		MarkRead:        getEnvBool("DIGEST_MARK_READ", false),

		// Delivery
		DeliveryModes: getEnvSlice("DIGEST_DELIVERY", []string{"console"}),
		DeliveryTo:    getEnv("DIGEST_DELIVERY_TO", ""),
		OutputDir:     getEnv("DIGEST_OUTPUT_DIR", "digests"),

		// Daemon mode
		RunInterval: time.Duration(getEnvInt("DIGEST_INTERVAL_MIN", 60)) * time.Minute,
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
