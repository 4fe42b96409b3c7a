package stripe

import (
	"fmt"
	"os"
)

// Config holds the complete Stripe configuration
type Config struct {
	APIKey        string `yaml:"api_key" json:"api_key"`
	WebhookSecret string `yaml:"webhook_secret" json:"webhook_secret"`
	// Connect onboarding redirect targets
	ConnectRefreshURL string `yaml:"connect_refresh_url" json:"connect_refresh_url"`
	ConnectReturnURL  string `yaml:"connect_return_url" json:"connect_return_url"`
}

// NewConfig creates a new Stripe configuration from environment variables
func NewConfig() (*Config, error) {
	apiKey := os.Getenv("RIDEPAY_STRIPEAPISECRET")
	if apiKey == "" {
		return nil, fmt.Errorf("RIDEPAY_STRIPEAPISECRET environment variable is required")
	}

	webhookSecret := os.Getenv("RIDEPAY_STRIPEWEBHOOKSECRET")
	if webhookSecret == "" {
		return nil, fmt.Errorf("RIDEPAY_STRIPEWEBHOOKSECRET environment variable is required")
	}

	return &Config{
		APIKey:            apiKey,
		WebhookSecret:     webhookSecret,
		ConnectRefreshURL: getEnvOrDefault("RIDEPAY_CONNECT_REFRESH_URL", "https://app.ridepay.example/connect/refresh"),
		ConnectReturnURL:  getEnvOrDefault("RIDEPAY_CONNECT_RETURN_URL", "https://app.ridepay.example/connect/return"),
	}, nil
}

// getEnvOrDefault returns the environment variable value or a default value
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
