package paypal

import (
	"fmt"
	"os"
)

const (
	// SandboxBaseURL is the PayPal sandbox API endpoint
	SandboxBaseURL = "https://api-m.sandbox.paypal.com"
	// LiveBaseURL is the PayPal production API endpoint
	LiveBaseURL = "https://api-m.paypal.com"
)

// Config holds the complete PayPal configuration
type Config struct {
	ClientID string `yaml:"client_id" json:"client_id"`
	Secret   string `yaml:"secret" json:"secret"`
	// BaseURL selects sandbox or live, overridable for tests
	BaseURL string `yaml:"base_url" json:"base_url"`
}

// NewConfig creates a new PayPal configuration from environment variables
func NewConfig() (*Config, error) {
	clientID := os.Getenv("RIDEPAY_PAYPALCLIENTID")
	if clientID == "" {
		return nil, fmt.Errorf("RIDEPAY_PAYPALCLIENTID environment variable is required")
	}
	secret := os.Getenv("RIDEPAY_PAYPALSECRET")
	if secret == "" {
		return nil, fmt.Errorf("RIDEPAY_PAYPALSECRET environment variable is required")
	}

	baseURL := SandboxBaseURL
	if os.Getenv("RIDEPAY_PAYPALMODE") == "live" {
		baseURL = LiveBaseURL
	}

	return &Config{
		ClientID: clientID,
		Secret:   secret,
		BaseURL:  baseURL,
	}, nil
}
