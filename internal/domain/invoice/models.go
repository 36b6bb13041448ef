package invoice

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Status is always derived from total and paid amounts, never accepted from callers.
type Status string

const (
	StatusUnpaid   Status = "unpaid"
	StatusPartPaid Status = "part_paid"
	StatusPaid     Status = "paid"
)

// Payment methods
const (
	MethodCash        = "cash"
	MethodUnspecified = "unspecified"
)

// Domain errors
var (
	ErrInvoiceNotFound      = errors.New("invoice not found")
	ErrInvalidPaymentAmount = errors.New("invalid payment amount")
	ErrAlreadyPaid          = errors.New("invoice is already fully paid")
	ErrVersionConflict      = errors.New("invoice was modified concurrently, reload and retry")
	ErrNoItems              = errors.New("invoice must have at least one item")
	ErrInvalidQuantity      = errors.New("item quantity must be greater than zero")
	ErrProductRequired      = errors.New("item product is required")
	ErrTotalBelowPaid       = errors.New("total amount cannot be less than amount already paid")
	ErrInvalidStatus        = errors.New("status must be unpaid, part_paid or paid")
	ErrDueDateRequired      = errors.New("due date is required")
)

// Invoice is a customer bill with line items and accumulated payments.
type Invoice struct {
	ID            string          `json:"id"`
	BusinessID    string          `json:"businessId"`
	CustomerID    *string         `json:"customerId,omitempty"`
	CustomerName  string          `json:"customerName,omitempty"`
	InvoiceNumber string          `json:"invoiceNumber"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	AmountPaid    decimal.Decimal `json:"amountPaid"`
	DueDate       time.Time       `json:"dueDate"`
	Status        Status          `json:"status"`
	Version       int             `json:"version"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
	Items         []Item          `json:"items,omitempty"`
}

// Remaining returns the unpaid balance, never negative.
func (i *Invoice) Remaining() decimal.Decimal {
	r := i.TotalAmount.Sub(i.AmountPaid)
	if r.IsNegative() {
		return decimal.Zero
	}
	return r
}

// Item is a line of an invoice. PurchaseCost is the product cost at the time of sale.
type Item struct {
	ID           string          `json:"id"`
	InvoiceID    string          `json:"invoiceId"`
	ProductID    string          `json:"productId"`
	ProductName  string          `json:"productName,omitempty"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	PurchaseCost decimal.Decimal `json:"purchaseCost"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
}

// Payment is an append-only record of money received against an invoice.
type Payment struct {
	ID          string          `json:"id"`
	InvoiceID   string          `json:"invoiceId"`
	Amount      decimal.Decimal `json:"amountPaid"`
	Method      string          `json:"paymentMethod"`
	PaymentDate time.Time       `json:"paymentDate"`
	Notes       string          `json:"notes"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type PaymentInput struct {
	Amount decimal.Decimal
	Method string
	Notes  string
	Date   time.Time // zero means today
}

// PaymentRecord is handed to the repository, which must insert the payment and
// move the invoice to AmountPaid/Status in a single store transaction, only if
// the stored version still equals ExpectedVersion.
type PaymentRecord struct {
	BusinessID      string
	InvoiceID       string
	ExpectedVersion int
	Amount          decimal.Decimal
	Method          string
	Notes           string
	PaymentDate     time.Time
	AmountPaid      decimal.Decimal
	Status          Status
}

type ItemInput struct {
	ProductID string
	Quantity  int
}

type CreateParams struct {
	BusinessID    string
	CustomerID    *string
	InvoiceNumber string
	DueDate       time.Time
	Items         []ItemInput
}

func (p CreateParams) Validate() error {
	if p.BusinessID == "" {
		return errors.New("business ID is required")
	}
	if p.DueDate.IsZero() {
		return ErrDueDateRequired
	}
	if len(p.Items) == 0 {
		return ErrNoItems
	}
	for _, it := range p.Items {
		if it.ProductID == "" {
			return ErrProductRequired
		}
		if it.Quantity <= 0 {
			return ErrInvalidQuantity
		}
	}
	return nil
}

// NewInvoice is a fully priced invoice ready to be persisted together with its
// items, the stock decrement and the matching stock movements.
type NewInvoice struct {
	BusinessID    string
	CustomerID    *string
	InvoiceNumber string
	TotalAmount   decimal.Decimal
	DueDate       time.Time
	Status        Status
	Items         []Item
}

type UpdateParams struct {
	TotalAmount *decimal.Decimal
	DueDate     *time.Time
	CustomerID  *string
}

// UpdateRecord replaces the editable columns of an invoice if its version matches.
type UpdateRecord struct {
	BusinessID      string
	InvoiceID       string
	ExpectedVersion int
	CustomerID      *string
	TotalAmount     decimal.Decimal
	DueDate         time.Time
	Status          Status
}

// ListFilter narrows an invoice listing. Search matches the invoice number.
type ListFilter struct {
	Status     Status
	CustomerID string
	Search     string
	Limit      int
	Offset     int
}

// DeriveStatus computes the payment status for the given amounts.
func DeriveStatus(total, paid decimal.Decimal) Status {
	switch {
	case paid.GreaterThanOrEqual(total):
		return StatusPaid
	case paid.IsPositive():
		return StatusPartPaid
	default:
		return StatusUnpaid
	}
}

func IsValidStatus(s Status) bool {
	switch s {
	case StatusUnpaid, StatusPartPaid, StatusPaid:
		return true
	}
	return false
}
