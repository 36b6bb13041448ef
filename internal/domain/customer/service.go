package customer

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

func (s *Service) Create(ctx context.Context, params CreateParams) (*Customer, error) {
	params.Name = strings.TrimSpace(params.Name)
	params.Email = strings.ToLower(strings.TrimSpace(params.Email))
	params.Phone = strings.TrimSpace(params.Phone)
	params.Address = strings.TrimSpace(params.Address)

	if err := params.Validate(); err != nil {
		return nil, apperror.Validation("customer.Create", err)
	}

	c, err := s.repo.Create(ctx, params)
	if err != nil {
		return nil, apperror.Store("customer.Create", err)
	}
	return c, nil
}

func (s *Service) Get(ctx context.Context, businessID, id string) (*Customer, error) {
	c, err := s.repo.GetByID(ctx, businessID, id)
	if err != nil {
		if errors.Is(err, ErrCustomerNotFound) {
			return nil, apperror.NotFound("customer.Get", err)
		}
		return nil, apperror.Store("customer.Get", err)
	}
	return c, nil
}

// List returns customers ordered by name
func (s *Service) List(ctx context.Context, businessID string, filter ListFilter) ([]*Customer, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	if filter.Limit <= 0 || filter.Limit > 500 {
		filter.Limit = 100
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	customers, err := s.repo.List(ctx, businessID, filter)
	if err != nil {
		return nil, apperror.Store("customer.List", err)
	}
	return customers, nil
}

// Delete removes a customer. Invoices keep their totals and lose the link.
func (s *Service) Delete(ctx context.Context, businessID, id string) error {
	if err := s.repo.Delete(ctx, businessID, id); err != nil {
		if errors.Is(err, ErrCustomerNotFound) {
			return apperror.NotFound("customer.Delete", err)
		}
		return apperror.Store("customer.Delete", err)
	}
	return nil
}
