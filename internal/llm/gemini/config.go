package gemini

import (
	"errors"
	"os"
)

// holds Gemini-specific configuration
type Config struct {
	APIKey string
	// FlashModel serves subtopic listing and conversational coaching,
	// ProModel the question/validation/report calls.
	FlashModel    string
	ProModel      string
	ImageModel    string
	ProImageModel string
	// ThinkingBudget is extra reasoning budget requested for Advanced questions
	ThinkingBudget int32
	// Endpoint overrides the API base URL. Empty means the public endpoint.
	Endpoint string
}

func NewConfig() (*Config, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY environment variable is required")
	}

	return &Config{
		APIKey:         apiKey,
		FlashModel:     envOrDefault("GEMINI_FLASH_MODEL", "gemini-3-flash-preview"),
		ProModel:       envOrDefault("GEMINI_PRO_MODEL", "gemini-3-pro-preview"),
		ImageModel:     envOrDefault("GEMINI_IMAGE_MODEL", "gemini-2.5-flash-image"),
		ProImageModel:  envOrDefault("GEMINI_PRO_IMAGE_MODEL", "gemini-3-pro-image-preview"),
		ThinkingBudget: 2000,
		Endpoint:       os.Getenv("GEMINI_API_ENDPOINT"),
	}, nil
}

func envOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
