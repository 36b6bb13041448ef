package notification

import "context"

// Repository defines the interface for the outbound message log.
// Defined in the domain layer, implemented in the infrastructure layer.
type Repository interface {
	CreateMessage(ctx context.Context, params CreateMessageParams) (*Message, error)
	ListByInvoice(ctx context.Context, businessID, invoiceID string) ([]*Message, error)
}
