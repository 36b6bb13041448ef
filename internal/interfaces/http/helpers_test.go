package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"bizledger/internal/domain/account"
	"bizledger/internal/domain/business"
	"bizledger/internal/domain/customer"
	"bizledger/internal/domain/invoice"
	"bizledger/internal/domain/notification"
	"bizledger/internal/domain/product"
	"bizledger/internal/domain/transaction"
)

var testBusiness = &business.Profile{ID: "biz-1", UserID: "user-1", BusinessName: "Ada Stores"}

// serve routes a single request through a chi router so URL params resolve.
func serve(t *testing.T, method, pattern, target string, body any, h http.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	r := chi.NewRouter()
	r.MethodFunc(method, pattern, h)

	req := httptest.NewRequest(method, target, reader)
	req = req.WithContext(WithBusiness(req.Context(), testBusiness))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rr.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response %q: %v", rr.Body.String(), err)
	}
	return v
}

type stubTransactions struct {
	transaction.Repository
	ListFunc   func(ctx context.Context, businessID string, filter transaction.ListFilter) ([]*transaction.Transaction, error)
	CreateFunc func(ctx context.Context, params transaction.CreateParams) (*transaction.Transaction, error)
	DeleteFunc func(ctx context.Context, businessID, id string) error
}

func (s *stubTransactions) List(ctx context.Context, businessID string, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	if s.ListFunc != nil {
		return s.ListFunc(ctx, businessID, filter)
	}
	return nil, nil
}

func (s *stubTransactions) Create(ctx context.Context, params transaction.CreateParams) (*transaction.Transaction, error) {
	if s.CreateFunc != nil {
		return s.CreateFunc(ctx, params)
	}
	return &transaction.Transaction{ID: "txn-1", BusinessID: params.BusinessID, Type: params.Type, Amount: params.Amount, Date: params.Date}, nil
}

func (s *stubTransactions) Delete(ctx context.Context, businessID, id string) error {
	if s.DeleteFunc != nil {
		return s.DeleteFunc(ctx, businessID, id)
	}
	return nil
}

type stubInvoices struct {
	invoice.Repository
	GetByIDFunc       func(ctx context.Context, businessID, id string) (*invoice.Invoice, error)
	RecordPaymentFunc func(ctx context.Context, rec invoice.PaymentRecord) (*invoice.Invoice, error)
	ListWithItemsFunc func(ctx context.Context, businessID string) ([]*invoice.Invoice, error)
}

func (s *stubInvoices) GetByID(ctx context.Context, businessID, id string) (*invoice.Invoice, error) {
	if s.GetByIDFunc != nil {
		return s.GetByIDFunc(ctx, businessID, id)
	}
	return nil, invoice.ErrInvoiceNotFound
}

func (s *stubInvoices) RecordPayment(ctx context.Context, rec invoice.PaymentRecord) (*invoice.Invoice, error) {
	if s.RecordPaymentFunc != nil {
		return s.RecordPaymentFunc(ctx, rec)
	}
	return nil, nil
}

func (s *stubInvoices) ListWithItems(ctx context.Context, businessID string) ([]*invoice.Invoice, error) {
	if s.ListWithItemsFunc != nil {
		return s.ListWithItemsFunc(ctx, businessID)
	}
	return nil, nil
}

type stubProducts struct {
	product.Repository
}

func (s *stubProducts) Count(ctx context.Context, businessID string) (int, error) { return 3, nil }

func (s *stubProducts) CountLowStock(ctx context.Context, businessID string) (int, error) {
	return 1, nil
}

type stubCustomers struct {
	customer.Repository
	GetByIDFunc func(ctx context.Context, businessID, id string) (*customer.Customer, error)
}

func (s *stubCustomers) GetByID(ctx context.Context, businessID, id string) (*customer.Customer, error) {
	if s.GetByIDFunc != nil {
		return s.GetByIDFunc(ctx, businessID, id)
	}
	return nil, customer.ErrCustomerNotFound
}

func (s *stubCustomers) Count(ctx context.Context, businessID string) (int, error) { return 2, nil }

type stubMessages struct {
	notification.Repository
	created []notification.CreateMessageParams
}

func (s *stubMessages) CreateMessage(ctx context.Context, params notification.CreateMessageParams) (*notification.Message, error) {
	s.created = append(s.created, params)
	return &notification.Message{ID: "msg-1", InvoiceID: params.InvoiceID, Status: params.Status, Error: params.Error}, nil
}

type stubAccounts struct {
	account.Repository
	GetByIDFunc      func(ctx context.Context, businessID, id string) (*account.Account, error)
	BankBalancesFunc func(ctx context.Context, businessID string) ([]*account.BankBalance, error)
}

func (s *stubAccounts) BankBalances(ctx context.Context, businessID string) ([]*account.BankBalance, error) {
	if s.BankBalancesFunc != nil {
		return s.BankBalancesFunc(ctx, businessID)
	}
	return nil, nil
}

func (s *stubAccounts) GetByID(ctx context.Context, businessID, id string) (*account.Account, error) {
	if s.GetByIDFunc != nil {
		return s.GetByIDFunc(ctx, businessID, id)
	}
	return nil, account.ErrAccountNotFound
}
