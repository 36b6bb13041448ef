package http

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizledger/internal/domain/customer"
	"bizledger/internal/domain/invoice"
	"bizledger/internal/domain/notification"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func strPtr(s string) *string { return &s }

func openInvoice() *invoice.Invoice {
	return &invoice.Invoice{
		ID:            "inv-1",
		BusinessID:    "biz-1",
		CustomerID:    strPtr("cus-1"),
		InvoiceNumber: "INV-1001",
		TotalAmount:   d("10000"),
		AmountPaid:    d("0"),
		DueDate:       time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC),
		Status:        invoice.StatusUnpaid,
		Version:       1,
	}
}

func newInvoiceHandler(invoices *stubInvoices, customers *stubCustomers, messages *stubMessages) *InvoiceHandler {
	if customers == nil {
		customers = &stubCustomers{}
	}
	if messages == nil {
		messages = &stubMessages{}
	}
	notifier := notification.NewService(messages, invoices, customers, nil, nil, "₦")
	return NewInvoiceHandler(invoice.NewService(invoices, nil, customers), invoice.NewReconciler(invoices), notifier)
}

func TestInvoiceHandler_Get(t *testing.T) {
	repo := &stubInvoices{
		GetByIDFunc: func(ctx context.Context, businessID, id string) (*invoice.Invoice, error) {
			if id == "inv-1" {
				return openInvoice(), nil
			}
			return nil, invoice.ErrInvoiceNotFound
		},
	}
	h := newInvoiceHandler(repo, nil, nil)

	rr := serve(t, http.MethodGet, "/api/invoices/{id}", "/api/invoices/inv-1", nil, h.HandleGet)
	require.Equal(t, http.StatusOK, rr.Code)
	got := decodeBody[invoice.Invoice](t, rr)
	assert.Equal(t, "INV-1001", got.InvoiceNumber)
	assert.True(t, got.TotalAmount.Equal(d("10000")))

	rr = serve(t, http.MethodGet, "/api/invoices/{id}", "/api/invoices/nope", nil, h.HandleGet)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestInvoiceHandler_RecordPayment(t *testing.T) {
	tests := []struct {
		name                string
		body                any
		recordErr           error
		expectedStatus      int
		expectedStatusField invoice.Status
	}{
		{
			name:                "partial payment",
			body:                map[string]any{"amount": "4000", "paymentMethod": "transfer"},
			expectedStatus:      http.StatusOK,
			expectedStatusField: invoice.StatusPartPaid,
		},
		{
			name:                "full payment",
			body:                map[string]any{"amount": "10000", "paymentDate": "2024-04-02"},
			expectedStatus:      http.StatusOK,
			expectedStatusField: invoice.StatusPaid,
		},
		{
			name:           "overpayment",
			body:           map[string]any{"amount": "10000.01"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "zero amount",
			body:           map[string]any{"amount": "0"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad date",
			body:           map[string]any{"amount": "10", "paymentDate": "April 2"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "concurrent modification",
			body:           map[string]any{"amount": "100"},
			recordErr:      invoice.ErrVersionConflict,
			expectedStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &stubInvoices{
				GetByIDFunc: func(ctx context.Context, businessID, id string) (*invoice.Invoice, error) {
					return openInvoice(), nil
				},
				RecordPaymentFunc: func(ctx context.Context, rec invoice.PaymentRecord) (*invoice.Invoice, error) {
					if tt.recordErr != nil {
						return nil, tt.recordErr
					}
					inv := openInvoice()
					inv.AmountPaid = rec.AmountPaid
					inv.Status = rec.Status
					inv.Version++
					return inv, nil
				},
			}
			h := newInvoiceHandler(repo, nil, nil)

			rr := serve(t, http.MethodPost, "/api/invoices/{id}/payments", "/api/invoices/inv-1/payments", tt.body, h.HandleRecordPayment)

			require.Equal(t, tt.expectedStatus, rr.Code, rr.Body.String())
			if tt.expectedStatus == http.StatusOK {
				got := decodeBody[invoice.Invoice](t, rr)
				assert.Equal(t, tt.expectedStatusField, got.Status)
			}
		})
	}
}

func TestInvoiceHandler_MarkPaid(t *testing.T) {
	paid := openInvoice()
	paid.AmountPaid = paid.TotalAmount
	paid.Status = invoice.StatusPaid

	var recorded invoice.PaymentRecord
	repo := &stubInvoices{
		GetByIDFunc: func(ctx context.Context, businessID, id string) (*invoice.Invoice, error) {
			if id == "paid" {
				return paid, nil
			}
			return openInvoice(), nil
		},
		RecordPaymentFunc: func(ctx context.Context, rec invoice.PaymentRecord) (*invoice.Invoice, error) {
			recorded = rec
			inv := openInvoice()
			inv.AmountPaid = rec.AmountPaid
			inv.Status = rec.Status
			return inv, nil
		},
	}
	h := newInvoiceHandler(repo, nil, nil)

	rr := serve(t, http.MethodPost, "/api/invoices/{id}/mark-paid", "/api/invoices/inv-1/mark-paid", nil, h.HandleMarkPaid)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, recorded.Amount.Equal(d("10000")))
	assert.Equal(t, invoice.MethodUnspecified, recorded.Method)

	rr = serve(t, http.MethodPost, "/api/invoices/{id}/mark-paid", "/api/invoices/paid/mark-paid", nil, h.HandleMarkPaid)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestInvoiceHandler_Send(t *testing.T) {
	repo := &stubInvoices{
		GetByIDFunc: func(ctx context.Context, businessID, id string) (*invoice.Invoice, error) {
			return openInvoice(), nil
		},
	}

	t.Run("customer without phone", func(t *testing.T) {
		customers := &stubCustomers{
			GetByIDFunc: func(ctx context.Context, businessID, id string) (*customer.Customer, error) {
				return &customer.Customer{ID: id, Name: "Tunde"}, nil
			},
		}
		h := newInvoiceHandler(repo, customers, nil)

		rr := serve(t, http.MethodPost, "/api/invoices/{id}/send", "/api/invoices/inv-1/send", nil, h.HandleSend)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("messaging not configured", func(t *testing.T) {
		customers := &stubCustomers{
			GetByIDFunc: func(ctx context.Context, businessID, id string) (*customer.Customer, error) {
				return &customer.Customer{ID: id, Name: "Tunde", Phone: "+2348000000000"}, nil
			},
		}
		messages := &stubMessages{}
		h := newInvoiceHandler(repo, customers, messages)

		rr := serve(t, http.MethodPost, "/api/invoices/{id}/send", "/api/invoices/inv-1/send", nil, h.HandleSend)
		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
		require.Len(t, messages.created, 1)
		assert.Equal(t, notification.StatusFailed, messages.created[0].Status)
	})
}

func TestInvoiceHandler_ListRejectsUnknownStatus(t *testing.T) {
	h := newInvoiceHandler(&stubInvoices{}, nil, nil)

	rr := serve(t, http.MethodGet, "/api/invoices", "/api/invoices?status=overdue", nil, h.HandleList)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestInvoiceHandler_CreateValidation(t *testing.T) {
	h := newInvoiceHandler(&stubInvoices{}, nil, nil)

	tests := []struct {
		name string
		body any
	}{
		{name: "no items", body: map[string]any{"dueDate": "2024-04-30", "items": []any{}}},
		{name: "no due date", body: map[string]any{"items": []any{map[string]any{"productId": "p1", "quantity": 1}}}},
		{name: "zero quantity", body: map[string]any{"dueDate": "2024-04-30", "items": []any{map[string]any{"productId": "p1", "quantity": 0}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := serve(t, http.MethodPost, "/api/invoices", "/api/invoices", tt.body, h.HandleCreate)
			assert.Equal(t, http.StatusBadRequest, rr.Code, rr.Body.String())
		})
	}
}
