package account

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Account types used by the chart of accounts
const (
	TypeAssets      = "Assets"
	TypeLiabilities = "Liabilities"
	TypeIncome      = "Income"
	TypeExpenses    = "Expenses"
	TypeEquity      = "Equity"
)

// Kinds of money accounts. Any Assets account is one or the other.
const (
	KindBank = "bank"
	KindCash = "cash"
)

// AccountTypes lists the valid types in display order.
var AccountTypes = []string{TypeAssets, TypeLiabilities, TypeIncome, TypeExpenses, TypeEquity}

var accountTypes = map[string]struct{}{
	TypeAssets:      {},
	TypeLiabilities: {},
	TypeIncome:      {},
	TypeExpenses:    {},
	TypeEquity:      {},
}

// Domain errors
var (
	ErrInvalidAccountType = errors.New("account type must be one of Assets, Liabilities, Income, Expenses, Equity")
	ErrAccountNotFound    = errors.New("account not found")
	ErrNameRequired       = errors.New("account name is required")
	ErrSelfParent         = errors.New("account cannot be its own parent")
)

// Account is a chart of accounts entry. It labels transactions and products; it
// carries no balance.
type Account struct {
	ID          string    `json:"id"`
	BusinessID  string    `json:"businessId"`
	AccountName string    `json:"accountName"`
	AccountType string    `json:"accountType"`
	ParentID    *string   `json:"parentId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CreateParams contains parameters for creating a new account
type CreateParams struct {
	BusinessID  string
	AccountName string
	AccountType string
	ParentID    *string
}

// Validate validates the create parameters
func (p CreateParams) Validate() error {
	if p.BusinessID == "" {
		return errors.New("business ID is required")
	}
	if p.AccountName == "" {
		return ErrNameRequired
	}
	if !IsValidAccountType(p.AccountType) {
		return ErrInvalidAccountType
	}
	return nil
}

// UpdateParams contains parameters for updating an account
type UpdateParams struct {
	AccountName *string
	AccountType *string
	ParentID    *string
}

// IsValidAccountType checks if the provided account type is valid.
func IsValidAccountType(t string) bool {
	_, ok := accountTypes[t]
	return ok
}

// GroupByType buckets accounts by type. Every valid type has an entry.
func GroupByType(accounts []*Account) map[string][]*Account {
	groups := make(map[string][]*Account, len(AccountTypes))
	for _, t := range AccountTypes {
		groups[t] = []*Account{}
	}
	for _, a := range accounts {
		groups[a.AccountType] = append(groups[a.AccountType], a)
	}
	return groups
}

// BankBalance is an Assets account with its running balance. Income
// transactions credit it; expenses and transfers debit it.
type BankBalance struct {
	Account
	Kind    string          `json:"kind"`
	Balance decimal.Decimal `json:"balance"`
}

// CashPosition summarises the money held across a business's accounts.
type CashPosition struct {
	Accounts  []*BankBalance  `json:"accounts"`
	Total     decimal.Decimal `json:"total"`
	BankCount int             `json:"bankCount"`
	CashCount int             `json:"cashCount"`
}

// MoneyKind classifies a money account by its name.
func MoneyKind(accountName string) string {
	if strings.Contains(strings.ToLower(accountName), "cash") {
		return KindCash
	}
	return KindBank
}

// Summarise totals the balances and counts each kind.
func Summarise(balances []*BankBalance) CashPosition {
	pos := CashPosition{Accounts: make([]*BankBalance, 0, len(balances)), Total: decimal.Zero}
	for _, b := range balances {
		b.Kind = MoneyKind(b.AccountName)
		if b.Kind == KindCash {
			pos.CashCount++
		} else {
			pos.BankCount++
		}
		pos.Total = pos.Total.Add(b.Balance)
		pos.Accounts = append(pos.Accounts, b)
	}
	return pos
}
