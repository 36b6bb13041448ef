package notification

import (
	"fmt"
	"strings"

	"bizledger/internal/domain/invoice"
	"bizledger/internal/shared/money"
)

const dueDateLayout = "2 Jan 2006"

// RenderInvoice formats an invoice as a chat message.
func RenderInvoice(inv *invoice.Invoice, customerName, currency string) string {
	if customerName == "" {
		customerName = "N/A"
	}

	lines := []string{
		"INVOICE " + inv.InvoiceNumber,
		"Customer: " + customerName,
		"Due Date: " + inv.DueDate.Format(dueDateLayout),
		"Status: " + strings.ReplaceAll(string(inv.Status), "_", " "),
		"Total Amount: " + money.Format(currency, inv.TotalAmount),
	}
	if !inv.AmountPaid.IsZero() {
		lines = append(lines, "Amount Paid: "+money.Format(currency, inv.AmountPaid))
	}
	if rem := inv.Remaining(); rem.IsPositive() {
		lines = append(lines, "Remaining: "+money.Format(currency, rem))
	}
	return strings.Join(lines, "\n")
}

// RenderReceipt formats the confirmation sent once an invoice is fully paid.
func RenderReceipt(inv *invoice.Invoice, businessName, currency string) string {
	return fmt.Sprintf(
		"PAYMENT RECEIVED\nInvoice %s is now fully paid.\nTotal Paid: %s\nThank you for your business, %s",
		inv.InvoiceNumber, money.Format(currency, inv.AmountPaid), businessName,
	)
}
