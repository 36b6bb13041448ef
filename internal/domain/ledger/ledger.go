// Package ledger reduces transactions and invoices into income statement figures.
//
// Aggregate is the only place revenue, COGS and profit are computed. Reports,
// the dashboard and the admin CLI all call it so the figures cannot drift.
package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"bizledger/internal/domain/invoice"
	"bizledger/internal/domain/transaction"
)

// Period is the half-open interval [Start, End). A zero bound is unbounded.
type Period struct {
	Start time.Time `json:"start,omitzero"`
	End   time.Time `json:"end,omitzero"`
}

// Contains reports whether t falls inside the period.
func (p Period) Contains(t time.Time) bool {
	if !p.Start.IsZero() && t.Before(p.Start) {
		return false
	}
	if !p.End.IsZero() && !t.Before(p.End) {
		return false
	}
	return true
}

// Rows is the raw input of an aggregation. Invoices must have items loaded.
type Rows struct {
	Transactions []*transaction.Transaction
	Invoices     []*invoice.Invoice
}

type Options struct {
	// IncludeIncomeTransactions adds income-type transactions to revenue.
	// When false they are only reported as OtherIncome.
	IncludeIncomeTransactions bool
}

type Summary struct {
	Revenue             decimal.Decimal `json:"revenue"`
	COGS                decimal.Decimal `json:"cogs"`
	GrossProfit         decimal.Decimal `json:"grossProfit"`
	OperatingExpenses   decimal.Decimal `json:"operatingExpenses"`
	TotalExpenses       decimal.Decimal `json:"totalExpenses"`
	NetProfit           decimal.Decimal `json:"netProfit"`
	OtherIncome         decimal.Decimal `json:"otherIncome"`
	PaidInvoiceCount    int             `json:"paidInvoiceCount"`
	PendingInvoiceCount int             `json:"pendingInvoiceCount"`
}

// Aggregate computes the summary of rows falling inside period.
//
// Revenue is the amount actually collected: amount_paid of invoices created in
// the period with a positive amount paid. COGS is taken from the same invoices,
// so unpaid invoices contribute neither revenue nor cost.
func Aggregate(period Period, rows Rows, opts Options) Summary {
	s := Summary{
		Revenue:           decimal.Zero,
		COGS:              decimal.Zero,
		OperatingExpenses: decimal.Zero,
		OtherIncome:       decimal.Zero,
	}

	for _, inv := range rows.Invoices {
		if inv == nil || !period.Contains(inv.CreatedAt) {
			continue
		}
		if inv.Status == invoice.StatusUnpaid || inv.Status == invoice.StatusPartPaid {
			s.PendingInvoiceCount++
		}
		if !inv.AmountPaid.IsPositive() {
			continue
		}
		s.Revenue = s.Revenue.Add(inv.AmountPaid)
		if inv.Status == invoice.StatusPaid {
			s.PaidInvoiceCount++
		}
		for _, it := range inv.Items {
			s.COGS = s.COGS.Add(it.PurchaseCost.Mul(decimal.NewFromInt(int64(it.Quantity))))
		}
	}

	for _, txn := range rows.Transactions {
		if txn == nil || !period.Contains(txn.Date) {
			continue
		}
		switch txn.Type {
		case transaction.TypeExpense:
			s.OperatingExpenses = s.OperatingExpenses.Add(txn.Amount)
		case transaction.TypeIncome:
			s.OtherIncome = s.OtherIncome.Add(txn.Amount)
		}
	}

	if opts.IncludeIncomeTransactions {
		s.Revenue = s.Revenue.Add(s.OtherIncome)
	}

	s.GrossProfit = s.Revenue.Sub(s.COGS)
	s.TotalExpenses = s.OperatingExpenses.Add(s.COGS)
	s.NetProfit = s.Revenue.Sub(s.TotalExpenses)
	return s
}
