package account

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bizledger/internal/shared/apperror"
)

// Service contains the business logic for chart of accounts operations
type Service struct {
	repo Repository
}

// NewService creates a new account service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateAccount creates a new account with business validation
func (s *Service) CreateAccount(ctx context.Context, params CreateParams) (*Account, error) {
	params.AccountName = strings.TrimSpace(params.AccountName)

	if err := params.Validate(); err != nil {
		return nil, apperror.Validation("account.Create", err)
	}
	if params.ParentID != nil {
		if _, err := s.GetAccount(ctx, params.BusinessID, *params.ParentID); err != nil {
			return nil, err
		}
	}

	acc, err := s.repo.Create(ctx, params)
	if err != nil {
		return nil, apperror.Store("account.Create", err)
	}
	return acc, nil
}

// GetAccount retrieves an account scoped to the business
func (s *Service) GetAccount(ctx context.Context, businessID, id string) (*Account, error) {
	acc, err := s.repo.GetByID(ctx, businessID, id)
	if err != nil {
		return nil, wrapErr("account.Get", err)
	}
	return acc, nil
}

// ListAccounts retrieves the chart of accounts, optionally filtered by type
func (s *Service) ListAccounts(ctx context.Context, businessID, accountType string) ([]*Account, error) {
	if accountType != "" && !IsValidAccountType(accountType) {
		return nil, apperror.Validation("account.List", ErrInvalidAccountType)
	}

	accounts, err := s.repo.ListByBusinessID(ctx, businessID)
	if err != nil {
		return nil, apperror.Store("account.List", err)
	}
	if accountType == "" {
		return accounts, nil
	}

	filtered := make([]*Account, 0, len(accounts))
	for _, a := range accounts {
		if a.AccountType == accountType {
			filtered = append(filtered, a)
		}
	}
	return filtered, nil
}

// UpdateAccount renames, retypes or reparents an account
func (s *Service) UpdateAccount(ctx context.Context, businessID, id string, params UpdateParams) (*Account, error) {
	if params.AccountName != nil {
		name := strings.TrimSpace(*params.AccountName)
		if name == "" {
			return nil, apperror.Validation("account.Update", ErrNameRequired)
		}
		params.AccountName = &name
	}
	if params.AccountType != nil && !IsValidAccountType(*params.AccountType) {
		return nil, apperror.Validation("account.Update", ErrInvalidAccountType)
	}
	if params.ParentID != nil && *params.ParentID == id {
		return nil, apperror.Validation("account.Update", ErrSelfParent)
	}
	if params.ParentID != nil {
		if _, err := s.repo.GetByID(ctx, businessID, *params.ParentID); err != nil {
			if errors.Is(err, ErrAccountNotFound) {
				return nil, apperror.Validation("account.Update", fmt.Errorf("parent %s: %w", *params.ParentID, err))
			}
			return nil, apperror.Store("account.Update", err)
		}
	}

	acc, err := s.repo.Update(ctx, businessID, id, params)
	if err != nil {
		return nil, wrapErr("account.Update", err)
	}
	return acc, nil
}

// DeleteAccount deletes an account from the chart
func (s *Service) DeleteAccount(ctx context.Context, businessID, id string) error {
	if err := s.repo.Delete(ctx, businessID, id); err != nil {
		return wrapErr("account.Delete", err)
	}
	return nil
}

// CashPosition returns the balance of every bank and cash account.
func (s *Service) CashPosition(ctx context.Context, businessID string) (*CashPosition, error) {
	balances, err := s.repo.BankBalances(ctx, businessID)
	if err != nil {
		return nil, apperror.Store("account.CashPosition", err)
	}
	pos := Summarise(balances)
	return &pos, nil
}

func wrapErr(op string, err error) error {
	if errors.Is(err, ErrAccountNotFound) {
		return apperror.NotFound(op, err)
	}
	return apperror.Store(op, err)
}
