package main

import (
	"log"
	"net/http"

	"github.com/slack-go/slack"

	"stripesync/cebelca"
	"stripesync/config"
	"stripesync/handlers"
	"stripesync/services"
	"stripesync/store"
)

// Main function to start the server
func main() {
	cfg := config.LoadConfig()

	processed, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open processed-invoice store at %s: %v", cfg.DBPath, err)
	}
	defer processed.Close()

	ledger := cebelca.NewClient(cfg.CebelcaAPIKey, cfg.CebelcaAppName, cfg.CebelcaBaseURL)
	syncer := services.NewSyncService(ledger)

	var notifier *services.Notifier
	if cfg.SlackBotToken != "" && cfg.SlackChannelID != "" {
		notifier = services.NewNotifier(slack.New(cfg.SlackBotToken), cfg.SlackChannelID)
		log.Printf("Slack notifications enabled for channel %s", cfg.SlackChannelID)
	} else {
		log.Printf("Slack notifications disabled (SLACK_BOT_TOKEN or SLACK_CHANNEL_ID not set)")
	}

	webhookHandler := handlers.NewStripeWebhookHandler(cfg.StripeWebhookSecret, syncer, notifier, processed)

	http.HandleFunc("/webhook", webhookHandler.HandleWebhook)
	http.HandleFunc("/healthz", handlers.HandleHealthz)

	log.Printf("Starting Stripe-Cebelca sync server on :%s", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, nil))
}
