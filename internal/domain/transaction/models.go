package transaction

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction types
const (
	TypeIncome   = "income"
	TypeExpense  = "expense"
	TypeTransfer = "transfer"
)

var transactionTypes = map[string]struct{}{
	TypeIncome:   {},
	TypeExpense:  {},
	TypeTransfer: {},
}

// Domain errors
var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidType         = errors.New("transaction type must be income, expense or transfer")
	ErrInvalidAmount       = errors.New("amount must be zero or positive")
	ErrDateRequired        = errors.New("transaction date is required")
	ErrUnknownCategory     = errors.New("category is not an account of this business")
	ErrUnknownBankAccount  = errors.New("bank account is not an account of this business")
	ErrNotBankAccount      = errors.New("bank account must be an Assets account")
)

// Transaction is a recorded cash movement. Immutable once created.
type Transaction struct {
	ID              string          `json:"id"`
	BusinessID      string          `json:"businessId"`
	Type            string          `json:"type"`
	Amount          decimal.Decimal `json:"amount"`
	Date            time.Time       `json:"date"`
	CategoryID      *string         `json:"categoryId,omitempty"`
	BankAccountID   *string         `json:"bankAccountId,omitempty"`
	Description     string          `json:"description"`
	ReferenceNumber string          `json:"referenceNumber"`
	CreatedAt       time.Time       `json:"createdAt"`
}

type CreateParams struct {
	BusinessID      string
	Type            string
	Amount          decimal.Decimal
	Date            time.Time
	CategoryID      *string
	BankAccountID   *string
	Description     string
	ReferenceNumber string
}

func (p CreateParams) Validate() error {
	if p.BusinessID == "" {
		return errors.New("business ID is required")
	}
	if !IsValidType(p.Type) {
		return ErrInvalidType
	}
	if p.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	if p.Date.IsZero() {
		return ErrDateRequired
	}
	return nil
}

// ListFilter narrows a business's transactions. Zero values mean no filter;
// a zero Limit returns every matching row.
type ListFilter struct {
	Type   string
	From   time.Time // inclusive
	To     time.Time // exclusive
	Search string    // matched against description and reference number
	Limit  int
	Offset int
}

func IsValidType(t string) bool {
	_, ok := transactionTypes[t]
	return ok
}
