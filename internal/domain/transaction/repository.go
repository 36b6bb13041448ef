package transaction

import "context"

// Repository defines the interface for transaction data access.
// Every method is scoped to a single business.
type Repository interface {
	Create(ctx context.Context, params CreateParams) (*Transaction, error)
	GetByID(ctx context.Context, businessID, id string) (*Transaction, error)
	List(ctx context.Context, businessID string, filter ListFilter) ([]*Transaction, error)
	Delete(ctx context.Context, businessID, id string) error
}
