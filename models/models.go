package models

// PartnerRecord represents a business contact in the Cebelca ledger.
// The ID is assigned by Cebelca when the partner is assured.
type PartnerRecord struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Street string `json:"street"`
	City   string `json:"city"`
	Postal string `json:"postal"`
	VATID  string `json:"vatid"`
	Notes  string `json:"notes"`
}

// InvoiceHeader represents a draft sales invoice created in the Cebelca
// ledger. Dates are dd.mm.yyyy strings, the form Cebelca expects.
type InvoiceHeader struct {
	ID          int    `json:"id"`
	PartnerID   int    `json:"partner_id"`
	DateSent    string `json:"date_sent"`
	DateToPay   string `json:"date_to_pay"`
	DateServed  string `json:"date_served"`
	ExternalRef string `json:"external_ref"`
	Title       string `json:"title"`
}
