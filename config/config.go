package config

import (
	"log"
	"os"
	"strings"
)

// Config holds application configuration
type Config struct {
	StripeAPIKey        string
	StripeWebhookSecret string
	CebelcaAPIKey       string
	CebelcaAppName      string
	CebelcaBaseURL      string
	SlackBotToken       string
	SlackChannelID      string
	DBPath              string
	Port                string
}

// LoadConfig reads configuration from environment variables. Missing
// required secrets are fatal so the process can never make an outbound
// call without them.
func LoadConfig() *Config {
	cfg := &Config{
		StripeAPIKey:        getenvTrimmed("STRIPE_API_KEY"),
		StripeWebhookSecret: getenvTrimmed("STRIPE_WEBHOOK_SECRET"),
		CebelcaAPIKey:       getenvTrimmed("CEBELCA_API_KEY"),
		CebelcaAppName:      getenvTrimmed("CEBELCA_APP_NAME"),
		CebelcaBaseURL:      getenvTrimmed("CEBELCA_BASE_URL"),
		SlackBotToken:       getenvTrimmed("SLACK_BOT_TOKEN"),
		SlackChannelID:      getenvTrimmed("SLACK_CHANNEL_ID"),
		DBPath:              getenvTrimmed("SYNC_DB_PATH"),
		Port:                getenvTrimmed("PORT"),
	}

	if cfg.StripeWebhookSecret == "" {
		log.Fatal("STRIPE_WEBHOOK_SECRET environment variable not set.")
	}
	if cfg.CebelcaAPIKey == "" {
		log.Fatal("CEBELCA_API_KEY environment variable not set.")
	}
	if cfg.CebelcaAppName == "" {
		cfg.CebelcaAppName = "StripeSync"
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "stripesync.db"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("PORT environment variable not set, defaulting to %s", cfg.Port)
	}

	return cfg
}

// getenvTrimmed reads an environment variable with surrounding whitespace
// stripped; secrets pasted into env files tend to pick up trailing spaces.
func getenvTrimmed(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}
