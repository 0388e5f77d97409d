package services

import (
	"bytes"
	"fmt"
	"log"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/slack-go/slack"

	"stripesync/models"
)

// Notifier posts reconciliation outcomes to a Slack channel. The webhook
// always acknowledges Stripe with a 200 once the signature checks out, so
// this channel is the only operator-facing signal besides the logs.
type Notifier struct {
	client    *slack.Client
	channelID string
}

// NewNotifier creates a Slack notifier posting to the given channel.
func NewNotifier(client *slack.Client, channelID string) *Notifier {
	return &Notifier{
		client:    client,
		channelID: channelID,
	}
}

// NotifySuccess posts the created draft invoice to Slack with a one-page
// PDF summary attached.
func (n *Notifier) NotifySuccess(header *models.InvoiceHeader, customerName, customerEmail string) error {
	message := fmt.Sprintf(
		"📄 *Draft invoice %d* created in Cebelca for *%s*\nStripe invoice: `%s`\nDue: %s",
		header.ID, customerName, header.ExternalRef, header.DateToPay,
	)

	pdfBytes, err := n.buildSummaryPDF(header, customerName, customerEmail)
	if err != nil {
		log.Printf("[Notify] Error generating PDF summary: %v", err)
		// Fall back to a plain message rather than dropping the notification.
		return n.postMessage(message)
	}

	uploadParams := slack.FileUploadParameters{
		Reader:         bytes.NewReader(pdfBytes),
		Filename:       fmt.Sprintf("Cebelca_Invoice_%d.pdf", header.ID),
		Title:          fmt.Sprintf("Cebelca Invoice %d", header.ID),
		Filetype:       "pdf",
		Channels:       []string{n.channelID},
		InitialComment: message,
	}
	if _, err := n.client.UploadFile(uploadParams); err != nil {
		log.Printf("[Notify] Error uploading summary to channel %s: %v", n.channelID, err)
		return n.postMessage(message)
	}
	return nil
}

// NotifyFailure posts an alert for an invoice that could not be synced.
func (n *Notifier) NotifyFailure(stripeInvoiceID string, cause error) error {
	return n.postMessage(fmt.Sprintf(
		":warning: Failed to sync Stripe invoice `%s` to Cebelca: %v", stripeInvoiceID, cause,
	))
}

func (n *Notifier) postMessage(text string) error {
	_, _, err := n.client.PostMessage(n.channelID, slack.MsgOptionText(text, false))
	if err != nil {
		return fmt.Errorf("failed to post Slack message: %w", err)
	}
	return nil
}

// buildSummaryPDF renders a one-page summary of the draft invoice created
// in Cebelca.
func (n *Notifier) buildSummaryPDF(header *models.InvoiceHeader, customerName, customerEmail string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 8, "CEBELCA DRAFT INVOICE")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(60, 6, fmt.Sprintf("Cebelca Invoice ID: %d", header.ID))
	pdf.Cell(60, 6, fmt.Sprintf("Synced: %s", time.Now().UTC().Format("January 2, 2006")))
	pdf.Ln(6)
	pdf.Cell(60, 6, fmt.Sprintf("Partner ID: %d", header.PartnerID))
	pdf.Cell(60, 6, fmt.Sprintf("Stripe Invoice: %s", header.ExternalRef))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, "Bill To:")
	pdf.Ln(6)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 5, customerName)
	pdf.Ln(5)
	if customerEmail != "" {
		pdf.Cell(0, 5, customerEmail)
		pdf.Ln(10)
	} else {
		pdf.Ln(5)
	}

	pdf.SetFont("Arial", "B", 11)
	pdf.SetFillColor(240, 240, 240)
	pdf.Cell(60, 8, "Date Sent")
	pdf.Cell(60, 8, "Date Due")
	pdf.Cell(60, 8, "Date Served")
	pdf.Ln(10)

	pdf.SetDrawColor(200, 200, 200)
	pdf.Line(10, pdf.GetY(), 200, pdf.GetY())
	pdf.Ln(5)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(60, 6, header.DateSent)
	pdf.Cell(60, 6, header.DateToPay)
	pdf.Cell(60, 6, header.DateServed)
	pdf.Ln(15)

	pdf.SetFont("Arial", "I", 9)
	pdf.Cell(0, 5, "Line items are not synced; complete the draft in Cebelca before issuing.")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}
