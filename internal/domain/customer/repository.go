package customer

import "context"

// Repository defines the interface for customer data access
type Repository interface {
	Create(ctx context.Context, params CreateParams) (*Customer, error)
	GetByID(ctx context.Context, businessID, id string) (*Customer, error)
	List(ctx context.Context, businessID string, filter ListFilter) ([]*Customer, error)
	Count(ctx context.Context, businessID string) (int, error)
	Delete(ctx context.Context, businessID, id string) error
}
