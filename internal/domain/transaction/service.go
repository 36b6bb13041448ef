package transaction

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bizledger/internal/domain/account"
	"bizledger/internal/shared/apperror"
)

// AccountLookup resolves chart of accounts entries within a business.
type AccountLookup interface {
	GetByID(ctx context.Context, businessID, id string) (*account.Account, error)
}

// Service contains the business logic for transaction operations
type Service struct {
	repo     Repository
	accounts AccountLookup
}

func NewService(repo Repository, accounts AccountLookup) *Service {
	return &Service{repo: repo, accounts: accounts}
}

// Create records a transaction after validation
func (s *Service) Create(ctx context.Context, params CreateParams) (*Transaction, error) {
	const op = "transaction.Create"

	params.Type = strings.ToLower(strings.TrimSpace(params.Type))
	params.Description = strings.TrimSpace(params.Description)
	params.CategoryID = blankToNil(params.CategoryID)
	params.BankAccountID = blankToNil(params.BankAccountID)

	if err := params.Validate(); err != nil {
		return nil, apperror.Validation(op, err)
	}

	if params.CategoryID != nil {
		if _, err := s.lookupAccount(ctx, op, params.BusinessID, *params.CategoryID, ErrUnknownCategory); err != nil {
			return nil, err
		}
	}
	if params.BankAccountID != nil {
		acc, err := s.lookupAccount(ctx, op, params.BusinessID, *params.BankAccountID, ErrUnknownBankAccount)
		if err != nil {
			return nil, err
		}
		if acc.AccountType != account.TypeAssets {
			return nil, apperror.Validation(op, ErrNotBankAccount)
		}
	}

	txn, err := s.repo.Create(ctx, params)
	if err != nil {
		return nil, apperror.Store(op, err)
	}
	return txn, nil
}

// List returns a business's transactions, newest first
func (s *Service) List(ctx context.Context, businessID string, filter ListFilter) ([]*Transaction, error) {
	if filter.Type != "" && !IsValidType(filter.Type) {
		return nil, apperror.Validation("transaction.List", ErrInvalidType)
	}
	if filter.Limit <= 0 || filter.Limit > 500 {
		filter.Limit = 100
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	txns, err := s.repo.List(ctx, businessID, filter)
	if err != nil {
		return nil, apperror.Store("transaction.List", err)
	}
	return txns, nil
}

// Delete removes a transaction. Deletion is the only permitted mutation.
func (s *Service) Delete(ctx context.Context, businessID, id string) error {
	if err := s.repo.Delete(ctx, businessID, id); err != nil {
		if errors.Is(err, ErrTransactionNotFound) {
			return apperror.NotFound("transaction.Delete", err)
		}
		return apperror.Store("transaction.Delete", err)
	}
	return nil
}

func (s *Service) lookupAccount(ctx context.Context, op, businessID, id string, notFound error) (*account.Account, error) {
	acc, err := s.accounts.GetByID(ctx, businessID, id)
	if err != nil {
		if errors.Is(err, account.ErrAccountNotFound) {
			return nil, apperror.Validation(op, fmt.Errorf("%w: %w", notFound, err))
		}
		return nil, apperror.Store(op, err)
	}
	return acc, nil
}

func blankToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}
