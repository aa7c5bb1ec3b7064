// Package config resolves the service configuration from the environment.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds everything the service needs before it serves its first
// request. Both Stripe secrets are mandatory: startup fails fast instead of
// discovering a missing key on the first delivery.
type Config struct {
	// Port the HTTP server listens on
	Port string

	// StripeSecretKey is the API credential for the Stripe client
	StripeSecretKey string

	// StripeWebhookSecret is the endpoint signing secret, distinct from the API key
	StripeWebhookSecret string

	// GoogleProjectID selects the Firestore project; empty means autodetect
	GoogleProjectID string

	// PurchaseKind is the fixed purchase document id for this deployment
	PurchaseKind string

	// AdminToken guards the resync endpoint; empty disables the route
	AdminToken string

	// LogLevel is the zerolog level name
	LogLevel string
}

// Load reads the environment (and an optional .env file) and validates the
// result.
func Load() (*Config, error) {
	// .env is optional; real deployments inject the environment directly
	_ = godotenv.Load()

	cfg := &Config{
		Port:                getEnv("PORT", "8080"),
		StripeSecretKey:     getEnv("STRIPE_SECRET_KEY", ""),
		StripeWebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),
		GoogleProjectID:     getEnv("GOOGLE_CLOUD_PROJECT", ""),
		PurchaseKind:        getEnv("PURCHASE_KIND", "main-course"),
		AdminToken:          getEnv("ADMIN_TOKEN", ""),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.StripeSecretKey == "" {
		return fmt.Errorf("STRIPE_SECRET_KEY is required")
	}
	if c.StripeWebhookSecret == "" {
		return fmt.Errorf("STRIPE_WEBHOOK_SECRET is required")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
