package business

import "context"

type Repository interface {
	// Create fails with ErrProfileExists when the user already owns a profile.
	Create(ctx context.Context, params CreateParams) (*Profile, error)
	GetByUserID(ctx context.Context, userID string) (*Profile, error)
	GetByID(ctx context.Context, id string) (*Profile, error)
	Update(ctx context.Context, id string, params UpdateParams) (*Profile, error)

	// ListIDs returns the IDs of every business. Used by admin jobs.
	ListIDs(ctx context.Context) ([]string, error)
}
