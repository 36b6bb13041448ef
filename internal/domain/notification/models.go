package notification

import (
	"errors"
	"time"
)

// Delivery statuses
const (
	StatusSent   = "sent"
	StatusFailed = "failed"
)

// Message kinds
const (
	KindInvoice = "invoice"
	KindReceipt = "receipt"
)

// Domain errors
var (
	ErrPhoneRequired = errors.New("customer has no phone number")
	ErrNoCustomer    = errors.New("invoice has no customer")
)

// Message is the delivery log entry for an outbound message.
type Message struct {
	ID         string    `json:"id"`
	BusinessID string    `json:"businessId"`
	InvoiceID  string    `json:"invoiceId"`
	Kind       string    `json:"kind"`
	Recipient  string    `json:"recipient"`
	Body       string    `json:"body"`
	Status     string    `json:"status"`
	Error      string    `json:"error,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

type CreateMessageParams struct {
	BusinessID string
	InvoiceID  string
	Kind       string
	Recipient  string
	Body       string
	Status     string
	Error      string
}
