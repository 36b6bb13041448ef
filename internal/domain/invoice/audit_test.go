package invoice

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditor_CheckBusiness(t *testing.T) {
	invoices := []*Invoice{
		{ID: "ok", BusinessID: "biz-1", TotalAmount: decimal.NewFromInt(100), AmountPaid: decimal.NewFromInt(40), Status: StatusPartPaid},
		{ID: "drift", BusinessID: "biz-1", TotalAmount: decimal.NewFromInt(100), AmountPaid: decimal.NewFromInt(60), Status: StatusPartPaid},
		{ID: "stale", BusinessID: "biz-1", TotalAmount: decimal.NewFromInt(100), AmountPaid: decimal.NewFromInt(100), Status: StatusPartPaid},
		{ID: "broken", BusinessID: "biz-1", TotalAmount: decimal.NewFromInt(100), Status: StatusUnpaid},
	}
	payments := map[string][]*Payment{
		"ok":    {{Amount: decimal.NewFromInt(40)}},
		"drift": {{Amount: decimal.NewFromInt(40)}},
		"stale": {{Amount: decimal.NewFromInt(50)}, {Amount: decimal.NewFromInt(50)}},
	}

	repo := &MockRepository{
		ListFunc: func(ctx context.Context, businessID string, filter ListFilter) ([]*Invoice, error) {
			if filter.Offset >= len(invoices) {
				return nil, nil
			}
			return invoices[filter.Offset:], nil
		},
		ListPaymentsFunc: func(ctx context.Context, businessID, invoiceID string) ([]*Payment, error) {
			if invoiceID == "broken" {
				return nil, errors.New("connection reset")
			}
			return payments[invoiceID], nil
		},
	}

	result, err := NewAuditor(repo, 2).CheckBusiness(context.Background(), "biz-1")
	require.NoError(t, err)
	assert.Equal(t, 4, result.InvoicesChecked)
	assert.Len(t, result.Errors, 1)

	reasons := map[string]string{}
	for _, m := range result.Mismatches {
		reasons[m.InvoiceID] = m.Reason
	}
	assert.Len(t, reasons, 2)
	assert.Contains(t, reasons["drift"], "sum of payments")
	assert.Contains(t, reasons["stale"], "status")
}

func TestAuditor_CheckBusinesses(t *testing.T) {
	repo := &MockRepository{
		ListFunc: func(ctx context.Context, businessID string, filter ListFilter) ([]*Invoice, error) {
			if businessID == "bad" {
				return nil, fmt.Errorf("list invoices: %w", errors.New("timeout"))
			}
			return nil, nil
		},
	}

	results := NewAuditor(repo, 0).CheckBusinesses(context.Background(), []string{"a", "b", "bad"})
	require.Len(t, results, 3)
	assert.Empty(t, results["a"].Errors)
	assert.Len(t, results["bad"].Errors, 1)
}
