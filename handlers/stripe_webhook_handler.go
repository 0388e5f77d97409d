package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"

	"stripesync/services"
	"stripesync/store"
)

// StripeWebhookHandler handles Stripe webhook events
type StripeWebhookHandler struct {
	endpointSecret string
	syncer         *services.SyncService
	notifier       *services.Notifier // nil when Slack is not configured
	processed      *store.ProcessedStore
}

// NewStripeWebhookHandler creates a new Stripe webhook handler
func NewStripeWebhookHandler(endpointSecret string, syncer *services.SyncService, notifier *services.Notifier, processed *store.ProcessedStore) *StripeWebhookHandler {
	return &StripeWebhookHandler{
		endpointSecret: endpointSecret,
		syncer:         syncer,
		notifier:       notifier,
		processed:      processed,
	}
}

// HandleWebhook processes incoming Stripe webhook events. Once the
// signature checks out the response is always a success: reconciliation
// failures are logged and notified, never reported back to Stripe.
func (h *StripeWebhookHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	const MaxBodyBytes = int64(65536)
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		log.Printf("[Webhook] Error reading webhook payload: %v", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "Could not read payload"})
		return
	}

	event, err := webhook.ConstructEvent(payload, r.Header.Get("Stripe-Signature"), h.endpointSecret)
	if err != nil {
		if isSignatureError(err) {
			log.Printf("[Webhook] Error verifying webhook signature: %v", err)
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid signature"})
			return
		}
		log.Printf("[Webhook] Invalid webhook payload: %v", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid payload"})
		return
	}

	switch event.Type {
	case "invoice.payment_succeeded":
		h.handleInvoicePaymentSucceeded(event)
	default:
		log.Printf("[Webhook] Ignoring event type: %s", event.Type)
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

// handleInvoicePaymentSucceeded runs one reconciliation for a paid invoice.
func (h *StripeWebhookHandler) handleInvoicePaymentSucceeded(event stripe.Event) {
	var invoice stripe.Invoice
	if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
		log.Printf("[Webhook] Error parsing invoice: %v", err)
		return
	}

	// Stripe redelivers events it considers unacknowledged; without this
	// check every redelivery would create another draft invoice.
	if invoice.Number != "" {
		seen, err := h.processed.Seen(invoice.Number)
		if err != nil {
			log.Printf("[Webhook] Error checking processed store for %s: %v", invoice.Number, err)
		} else if seen {
			log.Printf("[Webhook] Invoice %s already synced, skipping redelivery", invoice.Number)
			return
		}
	}

	header, err := h.syncer.Reconcile(&invoice)
	if err != nil {
		log.Printf("[Webhook] Error syncing invoice %s: %v", invoice.ID, err)
		if h.notifier != nil {
			if nerr := h.notifier.NotifyFailure(invoice.ID, err); nerr != nil {
				log.Printf("[Webhook] Error sending failure notification: %v", nerr)
			}
		}
		return
	}

	if invoice.Number != "" {
		if err := h.processed.Mark(invoice.Number); err != nil {
			log.Printf("[Webhook] Error marking invoice %s processed: %v", invoice.Number, err)
		}
	}
	if h.notifier != nil {
		if err := h.notifier.NotifySuccess(header, services.CustomerDisplayName(&invoice), invoice.CustomerEmail); err != nil {
			log.Printf("[Webhook] Error sending success notification: %v", err)
		}
	}
}

// isSignatureError distinguishes signature failures from malformed
// payloads. The signing scheme itself stays a stripe-go black box.
func isSignatureError(err error) bool {
	return errors.Is(err, webhook.ErrNotSigned) ||
		errors.Is(err, webhook.ErrNoValidSignature) ||
		errors.Is(err, webhook.ErrTooOld) ||
		errors.Is(err, webhook.ErrInvalidHeader)
}

func writeJSON(w http.ResponseWriter, status int, body map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("[Webhook] Error encoding response: %v", err)
	}
}
