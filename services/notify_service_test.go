package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stripesync/models"
)

func TestBuildSummaryPDF(t *testing.T) {
	n := &Notifier{channelID: "C123"}
	header := &models.InvoiceHeader{
		ID:          55,
		PartnerID:   10,
		DateSent:    "14.11.2023",
		DateToPay:   "30.11.2023",
		DateServed:  "14.11.2023",
		ExternalRef: "INV-1",
		Title:       "INV-1",
	}

	pdfBytes, err := n.buildSummaryPDF(header, "Acme", "a@acme.com")
	require.NoError(t, err)
	require.NotEmpty(t, pdfBytes)
	assert.Equal(t, "%PDF", string(pdfBytes[:4]))
}

func TestBuildSummaryPDFWithoutEmail(t *testing.T) {
	n := &Notifier{channelID: "C123"}
	pdfBytes, err := n.buildSummaryPDF(&models.InvoiceHeader{ID: 1}, "Unknown Customer", "")
	require.NoError(t, err)
	assert.NotEmpty(t, pdfBytes)
}
