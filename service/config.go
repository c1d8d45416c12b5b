package service

import (
	"os"
	"strconv"
)

type Config struct {
	Environment string
	Port        string
	BaseURL     string
	DBPath      string

	Stripe struct {
		SecretKey     string
		WebhookSecret string
	}

	Printify struct {
		APIToken string
		ShopID   string
	}

	Email struct {
		From     string
		SMTPHost string
		SMTPPort int
		Login    string
		Key      string
	}

	Admin struct {
		Email  string
		APIKey string
	}

	Review struct {
		// EnableHumanReview gates physical-order fulfillment behind a
		// manual high-res file review. Process-wide, injected into the
		// order processor and review store at construction.
		EnableHumanReview bool
	}
}

func LoadConfig() (*Config, error) {
	config := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Port:        getEnv("PORT", "8000"),
		BaseURL:     getEnv("BASE_URL", "http://localhost:8000"),
		DBPath:      getEnv("DB_PATH", "./db/pawpop.db"),
	}

	// Stripe
	config.Stripe.SecretKey = getEnv("STRIPE_SECRET_KEY", "")
	config.Stripe.WebhookSecret = getEnv("STRIPE_WEBHOOK_SECRET", "")

	// Printify
	config.Printify.APIToken = getEnv("PRINTIFY_API_TOKEN", "")
	config.Printify.ShopID = getEnv("PRINTIFY_SHOP_ID", "")

	// Email
	config.Email.From = getEnv("EMAIL_FROM", "hello@pawpopart.com")
	config.Email.SMTPHost = getEnv("SMTP_HOST", "")
	config.Email.Login = getEnv("SMTP_LOGIN", "")
	config.Email.Key = getEnv("SMTP_KEY", "")
	if port, err := strconv.Atoi(getEnv("SMTP_PORT", "587")); err == nil {
		config.Email.SMTPPort = port
	} else {
		config.Email.SMTPPort = 587
	}

	// Admin
	config.Admin.Email = getEnv("ADMIN_EMAIL", "")
	config.Admin.APIKey = getEnv("ADMIN_API_KEY", "")

	// Review gating
	config.Review.EnableHumanReview = getEnv("ENABLE_HUMAN_REVIEW", "false") == "true"

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
