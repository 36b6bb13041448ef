package account

import "context"

// Repository defines the interface for chart of accounts data access
// This interface is defined in the domain layer, but implemented in the infrastructure layer
type Repository interface {
	Create(ctx context.Context, params CreateParams) (*Account, error)

	// GetByID retrieves an account belonging to the business
	GetByID(ctx context.Context, businessID, id string) (*Account, error)

	// ListByBusinessID returns accounts ordered by type then name
	ListByBusinessID(ctx context.Context, businessID string) ([]*Account, error)

	Update(ctx context.Context, businessID, id string, params UpdateParams) (*Account, error)

	Delete(ctx context.Context, businessID, id string) error

	// BankBalances returns every Assets account with the net of the
	// transactions posted against it, ordered by name.
	BankBalances(ctx context.Context, businessID string) ([]*BankBalance, error)
}
