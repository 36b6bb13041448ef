package product

import "context"

// Repository defines the interface for product data access
type Repository interface {
	Create(ctx context.Context, params CreateParams) (*Product, error)
	GetByID(ctx context.Context, businessID, id string) (*Product, error)
	List(ctx context.Context, businessID string, filter ListFilter) ([]*Product, error)

	// Count returns the number of products for a business
	Count(ctx context.Context, businessID string) (int, error)

	// CountLowStock returns the number of products at or below their reorder level
	CountLowStock(ctx context.Context, businessID string) (int, error)

	ListMovements(ctx context.Context, businessID, productID string) ([]*StockMovement, error)
}
