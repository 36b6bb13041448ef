package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"bizledger/internal/shared/money"
)

const exportDateLayout = "2006-01-02"

func periodLabel(r *Report) (string, string) {
	start, end := "beginning", "now"
	if !r.Period.Start.IsZero() {
		start = r.Period.Start.Format(exportDateLayout)
	}
	if !r.Period.End.IsZero() {
		end = r.Period.End.Format(exportDateLayout)
	}
	return start, end
}

// FormatCSV renders the report as a two-column metric,value sheet followed by
// the monthly series.
func FormatCSV(r *Report) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	start, end := periodLabel(r)
	amount := func(d decimal.Decimal) string { return d.StringFixed(2) }

	records := [][]string{
		{"metric", "value"},
		{"period_start", start},
		{"period_end", end},
		{"revenue", amount(r.TotalRevenue)},
		{"cogs", amount(r.TotalCOGS)},
		{"gross_profit", amount(r.GrossProfit)},
		{"operating_expenses", amount(r.OperatingExpenses)},
		{"total_expenses", amount(r.TotalExpenses)},
		{"net_profit", amount(r.NetProfit)},
		{"other_income", amount(r.OtherIncome)},
		{"invoices", strconv.Itoa(r.InvoiceCount)},
		{"pending_invoices", strconv.Itoa(r.PendingInvoiceCount)},
		{"customers", strconv.Itoa(r.CustomerCount)},
		{"products", strconv.Itoa(r.ProductCount)},
		{"low_stock_products", strconv.Itoa(r.LowStockCount)},
		{},
		{"month", "revenue", "cogs", "operating_expenses", "profit"},
	}
	for _, p := range r.MonthlySeries {
		records = append(records, []string{p.Month, amount(p.Revenue), amount(p.COGS), amount(p.OperatingExpenses), amount(p.Profit)})
	}

	if err := w.WriteAll(records); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}
	return buf.Bytes(), nil
}

// FormatText renders the report as a plain-text income statement suitable for
// a chat message or terminal.
func FormatText(r *Report, currency string) string {
	start, end := periodLabel(r)
	fmtAmount := func(d decimal.Decimal) string { return money.Format(currency, d) }

	var b strings.Builder
	fmt.Fprintf(&b, "INCOME STATEMENT %s to %s\n", start, end)
	fmt.Fprintf(&b, "Revenue: %s\n", fmtAmount(r.TotalRevenue))
	fmt.Fprintf(&b, "Cost of Goods Sold: %s\n", fmtAmount(r.TotalCOGS))
	fmt.Fprintf(&b, "Gross Profit: %s\n", fmtAmount(r.GrossProfit))
	fmt.Fprintf(&b, "Operating Expenses: %s\n", fmtAmount(r.OperatingExpenses))
	fmt.Fprintf(&b, "Total Expenses: %s\n", fmtAmount(r.TotalExpenses))
	fmt.Fprintf(&b, "Net Profit: %s\n", fmtAmount(r.NetProfit))
	if !r.OtherIncome.IsZero() {
		fmt.Fprintf(&b, "Other Income: %s\n", fmtAmount(r.OtherIncome))
	}
	fmt.Fprintf(&b, "Invoices: %d (%d pending)\n", r.InvoiceCount, r.PendingInvoiceCount)
	fmt.Fprintf(&b, "Customers: %d\n", r.CustomerCount)
	fmt.Fprintf(&b, "Products: %d (%d low stock)\n", r.ProductCount, r.LowStockCount)

	if len(r.MonthlySeries) > 0 {
		b.WriteString("\nMonthly trend\n")
		for _, p := range r.MonthlySeries {
			fmt.Fprintf(&b, "%s: revenue %s, profit %s\n", p.Label, fmtAmount(p.Revenue), fmtAmount(p.Profit))
		}
	}
	return b.String()
}
