package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/stripe/stripe-go/v82"

	"stripesync/cebelca"
	"stripesync/models"
)

var (
	// ErrPartnerResolutionFailed means Cebelca's assure response held no
	// usable partner record. The event is dropped, not retried.
	ErrPartnerResolutionFailed = errors.New("could not resolve partner in Cebelca")

	// ErrInvoiceCreationFailed means the invoice-head response held no
	// usable record.
	ErrInvoiceCreationFailed = errors.New("could not create invoice header in Cebelca")
)

// SyncService mirrors paid Stripe invoices into the Cebelca ledger.
type SyncService struct {
	ledger cebelca.API
}

// NewSyncService creates a sync service backed by the given Cebelca client.
func NewSyncService(ledger cebelca.API) *SyncService {
	return &SyncService{ledger: ledger}
}

// Reconcile processes one paid Stripe invoice: assures the customer as a
// Cebelca partner, then creates a draft sales-invoice header. Line items
// and invoice finalization are intentionally not performed.
func (s *SyncService) Reconcile(invoice *stripe.Invoice) (*models.InvoiceHeader, error) {
	log.Printf("[Sync] Processing invoice %s", invoice.ID)

	name := CustomerDisplayName(invoice)
	var street, city, postal string
	if addr := invoice.CustomerAddress; addr != nil {
		street = addr.Line1
		city = addr.City
		postal = addr.PostalCode
	}

	partnerResp, err := s.ledger.AssurePartner(name, invoice.CustomerEmail, street, city, postal, "")
	if err != nil {
		return nil, fmt.Errorf("assure partner for invoice %s: %w", invoice.ID, err)
	}
	partner := cebelca.FirstRecord(partnerResp)
	if partner == nil {
		log.Printf("[Sync] Unexpected partner response structure: %+v", partnerResp)
		return nil, ErrPartnerResolutionFailed
	}
	partnerID, ok := cebelca.RecordID(partner)
	if !ok {
		log.Printf("[Sync] Could not extract partner ID from record: %+v", partner)
		return nil, ErrPartnerResolutionFailed
	}
	log.Printf("[Sync] Partner synced: ID %d", partnerID)

	dateSent := formatUnixDate(invoice.Created)
	dateToPay := dateSent
	if invoice.DueDate > 0 {
		dateToPay = formatUnixDate(invoice.DueDate)
	}
	// No independent served-date signal exists upstream; reuse the
	// creation date.
	dateServed := dateSent

	invoiceResp, err := s.ledger.CreateInvoiceHead(partnerID, dateSent, dateToPay, dateServed, invoice.Number, invoice.Number)
	if err != nil {
		return nil, fmt.Errorf("create invoice head for invoice %s: %w", invoice.ID, err)
	}
	rec := cebelca.FirstRecord(invoiceResp)
	if rec == nil {
		log.Printf("[Sync] Failed to create invoice header, response: %+v", invoiceResp)
		return nil, ErrInvoiceCreationFailed
	}
	headerID, ok := cebelca.RecordID(rec)
	if !ok {
		log.Printf("[Sync] Could not extract invoice ID from record: %+v", rec)
		return nil, ErrInvoiceCreationFailed
	}

	header := &models.InvoiceHeader{
		ID:          headerID,
		PartnerID:   partnerID,
		DateSent:    dateSent,
		DateToPay:   dateToPay,
		DateServed:  dateServed,
		ExternalRef: invoice.Number,
		Title:       invoice.Number,
	}
	log.Printf("[Sync] Draft invoice created in Cebelca: ID %d (Stripe invoice %s)", headerID, invoice.Number)
	return header, nil
}

// CustomerDisplayName picks the partner name for an invoice: the customer
// name, falling back to the email, falling back to a fixed placeholder.
func CustomerDisplayName(invoice *stripe.Invoice) string {
	if invoice.CustomerName != "" {
		return invoice.CustomerName
	}
	if invoice.CustomerEmail != "" {
		return invoice.CustomerEmail
	}
	return "Unknown Customer"
}

// formatUnixDate renders a Unix timestamp as dd.mm.yyyy in UTC. Cebelca
// expects dates in this form; UTC keeps the conversion independent of the
// host timezone.
func formatUnixDate(ts int64) string {
	return time.Unix(ts, 0).UTC().Format("02.01.2006")
}
