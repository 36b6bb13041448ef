package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bizledger/internal/domain/account"
	"bizledger/internal/shared/apperror"
)

// CategoryLookup resolves chart of accounts entries within a business.
type CategoryLookup interface {
	GetByID(ctx context.Context, businessID, id string) (*account.Account, error)
}

// Service contains the business logic for product operations
type Service struct {
	repo       Repository
	categories CategoryLookup
}

func NewService(repo Repository, categories CategoryLookup) *Service {
	return &Service{repo: repo, categories: categories}
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Product, error) {
	params.Name = strings.TrimSpace(params.Name)
	params.SKU = strings.TrimSpace(params.SKU)
	params.Barcode = strings.TrimSpace(params.Barcode)

	if params.CategoryID != nil && strings.TrimSpace(*params.CategoryID) == "" {
		params.CategoryID = nil
	}

	if err := params.Validate(); err != nil {
		return nil, apperror.Validation("product.Create", err)
	}
	if params.CategoryID != nil {
		if _, err := s.categories.GetByID(ctx, params.BusinessID, *params.CategoryID); err != nil {
			if errors.Is(err, account.ErrAccountNotFound) {
				return nil, apperror.Validation("product.Create", fmt.Errorf("%w: %w", ErrUnknownCategory, err))
			}
			return nil, apperror.Store("product.Create", err)
		}
	}

	p, err := s.repo.Create(ctx, params)
	if err != nil {
		return nil, apperror.Store("product.Create", err)
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, businessID, id string) (*Product, error) {
	p, err := s.repo.GetByID(ctx, businessID, id)
	if err != nil {
		return nil, wrapLookupErr("product.Get", err)
	}
	return p, nil
}

// List returns products ordered by name
func (s *Service) List(ctx context.Context, businessID string, filter ListFilter) ([]*Product, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	if filter.Limit <= 0 || filter.Limit > 500 {
		filter.Limit = 100
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	products, err := s.repo.List(ctx, businessID, filter)
	if err != nil {
		return nil, apperror.Store("product.List", err)
	}
	return products, nil
}

// ListMovements returns the stock history of a product, newest first
func (s *Service) ListMovements(ctx context.Context, businessID, productID string) ([]*StockMovement, error) {
	if _, err := s.Get(ctx, businessID, productID); err != nil {
		return nil, err
	}

	movements, err := s.repo.ListMovements(ctx, businessID, productID)
	if err != nil {
		return nil, apperror.Store("product.ListMovements", err)
	}
	return movements, nil
}

func wrapLookupErr(op string, err error) error {
	if errors.Is(err, ErrProductNotFound) {
		return apperror.NotFound(op, err)
	}
	return apperror.Store(op, err)
}
