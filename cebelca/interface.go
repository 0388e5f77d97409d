package cebelca

// API is the surface of the Cebelca client the sync pipeline depends on.
type API interface {
	AssurePartner(name, email, street, city, postal, vatID string) (RawResponse, error)
	CreateInvoiceHead(partnerID int, dateSent, dateToPay, dateServed, externalRef, title string) (RawResponse, error)
	AddLineItem(invoiceID int, title string, qty, price, vatRate float64, mu string) (RawResponse, error)
}
