package invoice

import (
	"context"

	"bizledger/internal/domain/customer"
	"bizledger/internal/domain/product"
)

// MockRepository is a mock implementation of Repository interface
type MockRepository struct {
	CreateWithItemsFunc func(ctx context.Context, inv NewInvoice) (*Invoice, error)
	GetByIDFunc         func(ctx context.Context, businessID, id string) (*Invoice, error)
	FindByIDFunc        func(ctx context.Context, id string) (*Invoice, error)
	ListFunc            func(ctx context.Context, businessID string, filter ListFilter) ([]*Invoice, error)
	ListWithItemsFunc   func(ctx context.Context, businessID string) ([]*Invoice, error)
	UpdateFunc          func(ctx context.Context, rec UpdateRecord) (*Invoice, error)
	RecordPaymentFunc   func(ctx context.Context, rec PaymentRecord) (*Invoice, error)
	ListPaymentsFunc    func(ctx context.Context, businessID, invoiceID string) ([]*Payment, error)
	DeleteFunc          func(ctx context.Context, businessID, id string) error
}

func (m *MockRepository) CreateWithItems(ctx context.Context, inv NewInvoice) (*Invoice, error) {
	if m.CreateWithItemsFunc != nil {
		return m.CreateWithItemsFunc(ctx, inv)
	}
	return nil, nil
}

func (m *MockRepository) GetByID(ctx context.Context, businessID, id string) (*Invoice, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, businessID, id)
	}
	return nil, ErrInvoiceNotFound
}

func (m *MockRepository) FindByID(ctx context.Context, id string) (*Invoice, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, ErrInvoiceNotFound
}

func (m *MockRepository) List(ctx context.Context, businessID string, filter ListFilter) ([]*Invoice, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, businessID, filter)
	}
	return nil, nil
}

func (m *MockRepository) ListWithItems(ctx context.Context, businessID string) ([]*Invoice, error) {
	if m.ListWithItemsFunc != nil {
		return m.ListWithItemsFunc(ctx, businessID)
	}
	return nil, nil
}

func (m *MockRepository) Update(ctx context.Context, rec UpdateRecord) (*Invoice, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, rec)
	}
	return nil, nil
}

func (m *MockRepository) RecordPayment(ctx context.Context, rec PaymentRecord) (*Invoice, error) {
	if m.RecordPaymentFunc != nil {
		return m.RecordPaymentFunc(ctx, rec)
	}
	return nil, nil
}

func (m *MockRepository) ListPayments(ctx context.Context, businessID, invoiceID string) ([]*Payment, error) {
	if m.ListPaymentsFunc != nil {
		return m.ListPaymentsFunc(ctx, businessID, invoiceID)
	}
	return nil, nil
}

func (m *MockRepository) Delete(ctx context.Context, businessID, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, businessID, id)
	}
	return nil
}

// MockProductRepository is a mock implementation of product.Repository
type MockProductRepository struct {
	GetByIDFunc func(ctx context.Context, businessID, id string) (*product.Product, error)
}

func (m *MockProductRepository) Create(ctx context.Context, params product.CreateParams) (*product.Product, error) {
	return nil, nil
}

func (m *MockProductRepository) GetByID(ctx context.Context, businessID, id string) (*product.Product, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, businessID, id)
	}
	return nil, product.ErrProductNotFound
}

func (m *MockProductRepository) List(ctx context.Context, businessID string, filter product.ListFilter) ([]*product.Product, error) {
	return nil, nil
}

func (m *MockProductRepository) Count(ctx context.Context, businessID string) (int, error) {
	return 0, nil
}

func (m *MockProductRepository) CountLowStock(ctx context.Context, businessID string) (int, error) {
	return 0, nil
}

func (m *MockProductRepository) ListMovements(ctx context.Context, businessID, productID string) ([]*product.StockMovement, error) {
	return nil, nil
}

// MockCustomerLookup is a mock implementation of CustomerLookup
type MockCustomerLookup struct {
	GetByIDFunc func(ctx context.Context, businessID, id string) (*customer.Customer, error)
}

func (m *MockCustomerLookup) GetByID(ctx context.Context, businessID, id string) (*customer.Customer, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, businessID, id)
	}
	return nil, customer.ErrCustomerNotFound
}
