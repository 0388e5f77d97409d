package cebelca

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultBaseURL = "https://www.cebelca.biz"

// Cebelca authenticates with the API key as the Basic auth username; the
// password is a fixed placeholder.
const basicAuthPassword = "x"

// Client issues authenticated calls against the Cebelca API. It is
// stateless beyond its configured credentials and safe for concurrent use.
type Client struct {
	apiKey  string
	appName string
	baseURL string
	client  *http.Client
}

// NewClient creates a Cebelca API client. baseURL may be empty to use the
// production endpoint. appName, when set, is stamped into the notes field
// of every assured partner.
func NewClient(apiKey, appName, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		appName: appName,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// CallError reports a non-2xx response from the Cebelca API. The response
// body is kept for diagnostics.
type CallError struct {
	Resource string
	Method   string
	Status   int
	Body     string
}

func (e *CallError) Error() string {
	return fmt.Sprintf("cebelca %s.%s returned status %d: %s", e.Resource, e.Method, e.Status, e.Body)
}

// TransportError reports a network-level failure (timeout, connection
// refused, DNS) while calling the Cebelca API.
type TransportError struct {
	Resource string
	Method   string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("cebelca %s.%s transport error: %v", e.Resource, e.Method, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Call issues a single Cebelca RPC. The resource and method travel as _r
// and _m query parameters; fields go in the URL-encoded body. The API
// often returns JSON without a Content-Type header, so decoding is
// attempted on every response and the raw text kept when it fails.
func (c *Client) Call(resource, method string, fields url.Values) (RawResponse, error) {
	endpoint := fmt.Sprintf("%s/API?_r=%s&_m=%s", c.baseURL, url.QueryEscape(resource), url.QueryEscape(method))

	req, err := http.NewRequest("POST", endpoint, strings.NewReader(fields.Encode()))
	if err != nil {
		return RawResponse{}, fmt.Errorf("failed to create request for %s.%s: %w", resource, method, err)
	}
	req.SetBasicAuth(c.apiKey, basicAuthPassword)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	log.Printf("[Cebelca] POST %s.%s", resource, method)
	resp, err := c.client.Do(req)
	if err != nil {
		log.Printf("[Cebelca] Error calling %s.%s: %v", resource, method, err)
		return RawResponse{}, &TransportError{Resource: resource, Method: method, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("[Cebelca] Error reading %s.%s response: %v", resource, method, err)
		return RawResponse{}, &TransportError{Resource: resource, Method: method, Err: err}
	}

	log.Printf("[Cebelca] %s.%s response status: %s", resource, method, resp.Status)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Printf("[Cebelca] %s.%s response body: %s", resource, method, string(body))
		return RawResponse{}, &CallError{Resource: resource, Method: method, Status: resp.StatusCode, Body: string(body)}
	}

	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return RawResponse{Text: string(body)}, nil
	}
	return RawResponse{JSON: decoded, IsJSON: true}, nil
}

// AssurePartner creates or matches a partner record without duplicating it
// on repeat calls with the same identity fields. Optional fields are
// omitted entirely when empty rather than sent as empty strings.
func (c *Client) AssurePartner(name, email, street, city, postal, vatID string) (RawResponse, error) {
	fields := url.Values{}
	fields.Set("name", name)
	fields.Set("email", email)
	setIfPresent(fields, "street", street)
	setIfPresent(fields, "city", city)
	setIfPresent(fields, "postal", postal)
	setIfPresent(fields, "vatid", vatID)
	if c.appName != "" {
		fields.Set("notes", "Synced via "+c.appName)
	}
	return c.Call("partner", "assure", fields)
}

// CreateInvoiceHead creates a draft sales-invoice header for the given
// partner. Dates must already be dd.mm.yyyy strings. Currency, conversion
// rate and document type are fixed.
func (c *Client) CreateInvoiceHead(partnerID int, dateSent, dateToPay, dateServed, externalRef, title string) (RawResponse, error) {
	fields := url.Values{}
	fields.Set("id_partner", strconv.Itoa(partnerID))
	fields.Set("date_sent", dateSent)
	fields.Set("date_to_pay", dateToPay)
	fields.Set("date_served", dateServed)
	fields.Set("id_currency", "2")
	fields.Set("conv_rate", "0")
	fields.Set("doctype", "0")
	setIfPresent(fields, "id_document_ext", externalRef)
	setIfPresent(fields, "title", title)
	return c.Call("invoice-sent", "insert-smart-2", fields)
}

// AddLineItem appends a line item to an existing invoice. The sync
// pipeline does not call this yet; line-item population is disabled.
func (c *Client) AddLineItem(invoiceID int, title string, qty, price, vatRate float64, mu string) (RawResponse, error) {
	if mu == "" {
		mu = "pcs"
	}
	fields := url.Values{}
	fields.Set("id_invoice_sent", strconv.Itoa(invoiceID))
	fields.Set("title", title)
	fields.Set("qty", formatFloat(qty))
	fields.Set("mu", mu)
	fields.Set("price", formatFloat(price))
	fields.Set("vat", formatFloat(vatRate))
	fields.Set("discount", "0")
	return c.Call("invoice-sent-b", "insert-into", fields)
}

func setIfPresent(fields url.Values, key, value string) {
	if value != "" {
		fields.Set(key, value)
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
