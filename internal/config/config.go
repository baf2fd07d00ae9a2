package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	ProviderOpenRouter = "openrouter"
	ProviderGemini     = "gemini"
)

type Config struct {
	Port         string `validate:"required,numeric"`
	DatabasePath string `validate:"required"`
	LogLevel     string `validate:"oneof=debug info warn error"`

	// Completion service
	LLMProvider       string        `validate:"oneof=openrouter gemini"`
	OpenRouterAPIKey  string        `validate:"required_if=LLMProvider openrouter"`
	OpenRouterModel   string        `validate:"required_if=LLMProvider openrouter"`
	OpenRouterBaseURL string        `validate:"omitempty,url"`
	GeminiAPIKey      string        `validate:"required_if=LLMProvider gemini"`
	GeminiModel       string        `validate:"required_if=LLMProvider gemini"`
	LLMMaxTokens      int           `validate:"gt=0"`
	LLMTemperature    float32       `validate:"gte=0,lte=2"`
	AnalysisTimeout   time.Duration `validate:"gt=0"`

	// Archive of original uploads (S3 / MinIO)
	ArchiveEnabled    bool
	S3Endpoint        string `validate:"required_if=ArchiveEnabled true"`
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3BucketName      string `validate:"required_if=ArchiveEnabled true"`
	S3UseSSL          bool

	// Upload limits
	MaxFileSize int64 `validate:"gt=0"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading configuration from the environment")
	}

	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		DatabasePath:      getEnv("DATABASE_PATH", "data/insights.db"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LLMProvider:       getEnv("LLM_PROVIDER", ProviderOpenRouter),
		OpenRouterAPIKey:  getEnv("OPENROUTER_API_KEY", ""),
		OpenRouterModel:   getEnv("OPENROUTER_MODEL", "openai/gpt-4o-mini"),
		OpenRouterBaseURL: getEnv("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
		GeminiAPIKey:      getEnv("GEMINI_API_KEY", ""),
		GeminiModel:       getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		LLMMaxTokens:      getEnvAsInt("LLM_MAX_TOKENS", 1200),
		LLMTemperature:    getEnvAsFloat32("LLM_TEMPERATURE", 0.3),
		AnalysisTimeout:   getEnvAsDuration("ANALYSIS_TIMEOUT", "60s"),
		ArchiveEnabled:    getEnv("ARCHIVE_ENABLED", "false") == "true",
		S3Endpoint:        getEnv("S3_ENDPOINT", "localhost:9000"),
		S3AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", "minioadmin"),
		S3SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", "minioadmin"),
		S3BucketName:      getEnv("S3_BUCKET_NAME", "resumes"),
		S3UseSSL:          getEnv("S3_USE_SSL", "false") == "true",
		MaxFileSize:       getEnvAsInt64("MAX_FILE_SIZE", 5*1024*1024),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks required fields, including the API key of the selected provider.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			return fmt.Errorf("invalid configuration: %s (%s)", envName(verrs[0].Field()), verrs[0].Tag())
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

var envNames = map[string]string{
	"Port":              "PORT",
	"DatabasePath":      "DATABASE_PATH",
	"LogLevel":          "LOG_LEVEL",
	"LLMProvider":       "LLM_PROVIDER",
	"OpenRouterAPIKey":  "OPENROUTER_API_KEY",
	"OpenRouterModel":   "OPENROUTER_MODEL",
	"OpenRouterBaseURL": "OPENROUTER_BASE_URL",
	"GeminiAPIKey":      "GEMINI_API_KEY",
	"GeminiModel":       "GEMINI_MODEL",
	"LLMMaxTokens":      "LLM_MAX_TOKENS",
	"LLMTemperature":    "LLM_TEMPERATURE",
	"AnalysisTimeout":   "ANALYSIS_TIMEOUT",
	"S3Endpoint":        "S3_ENDPOINT",
	"S3BucketName":      "S3_BUCKET_NAME",
	"MaxFileSize":       "MAX_FILE_SIZE",
}

func envName(field string) string {
	if name, ok := envNames[field]; ok {
		return name
	}
	return field
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value, err := strconv.ParseInt(getEnv(key, ""), 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value, err := strconv.ParseFloat(getEnv(key, ""), 32); err == nil {
		return float32(value)
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	if duration, err := time.ParseDuration(getEnv(key, defaultValue)); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
