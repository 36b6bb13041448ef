package http

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizledger/internal/domain/invoice"
	"bizledger/internal/domain/ledger"
	"bizledger/internal/domain/report"
)

func newReportHandler(invoices *stubInvoices) *ReportHandler {
	now := time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)
	svc := report.NewService(&stubTransactions{}, invoices, &stubProducts{}, &stubCustomers{}, ledger.Options{}, time.UTC).
		WithClock(func() time.Time { return now })
	return NewReportHandler(svc, "₦")
}

func paidInvoices(ctx context.Context, businessID string) ([]*invoice.Invoice, error) {
	return []*invoice.Invoice{{
		ID:          "inv-1",
		BusinessID:  businessID,
		TotalAmount: d("10000"),
		AmountPaid:  d("10000"),
		Status:      invoice.StatusPaid,
		CreatedAt:   time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC),
		Items: []invoice.Item{
			{ProductID: "p1", Quantity: 2, UnitPrice: d("5000"), PurchaseCost: d("3000"), TotalAmount: d("10000")},
		},
	}}, nil
}

func TestReportHandler_JSON(t *testing.T) {
	h := newReportHandler(&stubInvoices{ListWithItemsFunc: paidInvoices})

	rr := serve(t, http.MethodGet, "/api/reports", "/api/reports?period=this_month", nil, h.HandleReport)

	require.Equal(t, http.StatusOK, rr.Code)
	got := decodeBody[report.Report](t, rr)
	assert.True(t, got.TotalRevenue.Equal(d("10000")))
	assert.True(t, got.TotalCOGS.Equal(d("6000")))
	assert.True(t, got.NetProfit.Equal(d("4000")))
	assert.Equal(t, 3, got.ProductCount)
	assert.Equal(t, 1, got.LowStockCount)
	assert.Equal(t, 2, got.CustomerCount)
	assert.Len(t, got.MonthlySeries, report.TrendMonths)
}

func TestReportHandler_Formats(t *testing.T) {
	h := newReportHandler(&stubInvoices{ListWithItemsFunc: paidInvoices})

	rr := serve(t, http.MethodGet, "/api/reports", "/api/reports?period=last_month&format=csv", nil, h.HandleReport)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "report-last_month.csv")

	rr = serve(t, http.MethodGet, "/api/reports", "/api/reports?format=text", nil, h.HandleReport)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/plain; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Body.String(), "₦")
}

func TestReportHandler_BadRequests(t *testing.T) {
	h := newReportHandler(&stubInvoices{})

	tests := []struct {
		name   string
		target string
	}{
		{name: "unknown period", target: "/api/reports?period=fortnight"},
		{name: "unknown format", target: "/api/reports?format=pdf"},
		{name: "bad custom date", target: "/api/reports?period=custom&start=2024-13-01"},
		{name: "reversed custom range", target: "/api/reports?period=custom&start=2024-03-10&end=2024-03-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := serve(t, http.MethodGet, "/api/reports", tt.target, nil, h.HandleReport)
			assert.Equal(t, http.StatusBadRequest, rr.Code, rr.Body.String())
		})
	}
}

func TestReportHandler_StoreFailureHidesDetail(t *testing.T) {
	h := newReportHandler(&stubInvoices{
		ListWithItemsFunc: func(ctx context.Context, businessID string) ([]*invoice.Invoice, error) {
			return nil, errors.New("pq: connection refused to 10.0.0.5")
		},
	})

	rr := serve(t, http.MethodGet, "/api/dashboard", "/api/dashboard", nil, h.HandleDashboard)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rr.Body.String())
}
