package invoice

import "context"

// Repository defines the interface for invoice data access.
// Every method is scoped to a single business unless noted.
type Repository interface {
	// CreateWithItems persists the invoice, its items, the stock decrement and
	// the stock movements atomically. Returns product.ErrInsufficientStock if
	// stock changed underneath.
	CreateWithItems(ctx context.Context, inv NewInvoice) (*Invoice, error)

	// GetByID returns the invoice with its items
	GetByID(ctx context.Context, businessID, id string) (*Invoice, error)

	// FindByID returns an invoice regardless of business. Used by background jobs.
	FindByID(ctx context.Context, id string) (*Invoice, error)

	List(ctx context.Context, businessID string, filter ListFilter) ([]*Invoice, error)

	// ListWithItems returns every invoice of a business with items loaded
	ListWithItems(ctx context.Context, businessID string) ([]*Invoice, error)

	Update(ctx context.Context, rec UpdateRecord) (*Invoice, error)

	// RecordPayment inserts the payment and updates the invoice in one
	// transaction. Returns ErrVersionConflict when the version check fails.
	RecordPayment(ctx context.Context, rec PaymentRecord) (*Invoice, error)

	ListPayments(ctx context.Context, businessID, invoiceID string) ([]*Payment, error)

	Delete(ctx context.Context, businessID, id string) error
}
