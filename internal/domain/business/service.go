package business

import (
	"context"
	"errors"
	"strings"

	"bizledger/internal/shared/apperror"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ForUser resolves the business owned by an authenticated user.
func (s *Service) ForUser(ctx context.Context, userID string) (*Profile, error) {
	if userID == "" {
		return nil, apperror.Validation("business.ForUser", errors.New("user ID is required"))
	}
	p, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, wrapErr("business.ForUser", err)
	}
	return p, nil
}

// Create registers a business for a user. A user owns at most one profile.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Profile, error) {
	const op = "business.Create"

	params.BusinessName = strings.TrimSpace(params.BusinessName)
	params.BusinessEmail = strings.ToLower(strings.TrimSpace(params.BusinessEmail))
	params.Phone = strings.TrimSpace(params.Phone)
	params.WhatsAppNumber = strings.TrimSpace(params.WhatsAppNumber)

	if err := params.Validate(); err != nil {
		return nil, apperror.Validation(op, err)
	}

	p, err := s.repo.Create(ctx, params)
	if err != nil {
		if errors.Is(err, ErrProfileExists) {
			return nil, apperror.Conflict(op, err)
		}
		return nil, apperror.Store(op, err)
	}
	return p, nil
}

// Update edits the profile's contact details.
func (s *Service) Update(ctx context.Context, id string, params UpdateParams) (*Profile, error) {
	const op = "business.Update"

	params.BusinessName = trimmed(params.BusinessName)
	params.Phone = trimmed(params.Phone)
	params.WhatsAppNumber = trimmed(params.WhatsAppNumber)
	if params.BusinessEmail != nil {
		email := strings.ToLower(strings.TrimSpace(*params.BusinessEmail))
		params.BusinessEmail = &email
	}

	if err := params.Validate(); err != nil {
		return nil, apperror.Validation(op, err)
	}

	p, err := s.repo.Update(ctx, id, params)
	if err != nil {
		return nil, wrapErr(op, err)
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Profile, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, wrapErr("business.Get", err)
	}
	return p, nil
}

func (s *Service) ListIDs(ctx context.Context) ([]string, error) {
	ids, err := s.repo.ListIDs(ctx)
	if err != nil {
		return nil, apperror.Store("business.ListIDs", err)
	}
	return ids, nil
}

func wrapErr(op string, err error) error {
	if errors.Is(err, ErrBusinessNotFound) {
		return apperror.NotFound(op, err)
	}
	return apperror.Store(op, err)
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
