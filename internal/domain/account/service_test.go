package account

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"bizledger/internal/shared/apperror"
)

// MockRepository is a mock implementation of Repository interface
type MockRepository struct {
	CreateFunc           func(ctx context.Context, params CreateParams) (*Account, error)
	GetByIDFunc          func(ctx context.Context, businessID, id string) (*Account, error)
	ListByBusinessIDFunc func(ctx context.Context, businessID string) ([]*Account, error)
	UpdateFunc           func(ctx context.Context, businessID, id string, params UpdateParams) (*Account, error)
	DeleteFunc           func(ctx context.Context, businessID, id string) error
	BankBalancesFunc     func(ctx context.Context, businessID string) ([]*BankBalance, error)
}

func (m *MockRepository) BankBalances(ctx context.Context, businessID string) ([]*BankBalance, error) {
	if m.BankBalancesFunc != nil {
		return m.BankBalancesFunc(ctx, businessID)
	}
	return nil, nil
}

func (m *MockRepository) Create(ctx context.Context, params CreateParams) (*Account, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params)
	}
	return nil, nil
}

func (m *MockRepository) GetByID(ctx context.Context, businessID, id string) (*Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, businessID, id)
	}
	return nil, nil
}

func (m *MockRepository) ListByBusinessID(ctx context.Context, businessID string) ([]*Account, error) {
	if m.ListByBusinessIDFunc != nil {
		return m.ListByBusinessIDFunc(ctx, businessID)
	}
	return nil, nil
}

func (m *MockRepository) Update(ctx context.Context, businessID, id string, params UpdateParams) (*Account, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, businessID, id, params)
	}
	return nil, nil
}

func (m *MockRepository) Delete(ctx context.Context, businessID, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, businessID, id)
	}
	return nil
}

func TestCreateAccount(t *testing.T) {
	ctx := context.Background()
	parent := "acc-parent"

	tests := []struct {
		name     string
		params   CreateParams
		mockRepo *MockRepository
		wantKind apperror.Kind
	}{
		{
			name:   "Success",
			params: CreateParams{BusinessID: "biz-1", AccountName: "  Cash  ", AccountType: TypeAssets},
			mockRepo: &MockRepository{
				CreateFunc: func(ctx context.Context, params CreateParams) (*Account, error) {
					if params.AccountName != "Cash" {
						t.Errorf("expected trimmed name, got %q", params.AccountName)
					}
					return &Account{ID: "acc-1", AccountName: params.AccountName}, nil
				},
			},
		},
		{
			name:     "Invalid type",
			params:   CreateParams{BusinessID: "biz-1", AccountName: "Cash", AccountType: "Bank"},
			mockRepo: &MockRepository{},
			wantKind: apperror.KindValidation,
		},
		{
			name:   "Unknown parent",
			params: CreateParams{BusinessID: "biz-1", AccountName: "Petty cash", AccountType: TypeAssets, ParentID: &parent},
			mockRepo: &MockRepository{
				GetByIDFunc: func(ctx context.Context, businessID, id string) (*Account, error) {
					return nil, ErrAccountNotFound
				},
			},
			wantKind: apperror.KindNotFound,
		},
		{
			name:   "Repository error",
			params: CreateParams{BusinessID: "biz-1", AccountName: "Cash", AccountType: TypeAssets},
			mockRepo: &MockRepository{
				CreateFunc: func(ctx context.Context, params CreateParams) (*Account, error) {
					return nil, errors.New("db error")
				},
			},
			wantKind: apperror.KindStore,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(tt.mockRepo)
			acc, err := svc.CreateAccount(ctx, tt.params)

			if tt.wantKind != 0 {
				if apperror.KindOf(err) != tt.wantKind {
					t.Errorf("expected %v error, got %v", tt.wantKind, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if acc.ID != "acc-1" {
				t.Errorf("expected account ID acc-1, got %s", acc.ID)
			}
		})
	}
}

func TestListAccounts_FilterByType(t *testing.T) {
	repo := &MockRepository{
		ListByBusinessIDFunc: func(ctx context.Context, businessID string) ([]*Account, error) {
			return []*Account{
				{ID: "1", AccountType: TypeAssets},
				{ID: "2", AccountType: TypeIncome},
				{ID: "3", AccountType: TypeAssets},
			}, nil
		},
	}
	svc := NewService(repo)

	accounts, err := svc.ListAccounts(context.Background(), "biz-1", TypeAssets)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(accounts) != 2 {
		t.Errorf("expected 2 accounts, got %d", len(accounts))
	}

	if _, err := svc.ListAccounts(context.Background(), "biz-1", "Bank"); !apperror.IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestUpdateAccount(t *testing.T) {
	ctx := context.Background()
	svc := NewService(&MockRepository{
		GetByIDFunc: func(ctx context.Context, businessID, id string) (*Account, error) {
			return nil, ErrAccountNotFound
		},
		UpdateFunc: func(ctx context.Context, businessID, id string, params UpdateParams) (*Account, error) {
			return nil, ErrAccountNotFound
		},
	})

	self := "acc-1"
	if _, err := svc.UpdateAccount(ctx, "biz-1", "acc-1", UpdateParams{ParentID: &self}); !errors.Is(err, ErrSelfParent) {
		t.Errorf("expected ErrSelfParent, got %v", err)
	}

	blank := "  "
	if _, err := svc.UpdateAccount(ctx, "biz-1", "acc-1", UpdateParams{AccountName: &blank}); !errors.Is(err, ErrNameRequired) {
		t.Errorf("expected ErrNameRequired, got %v", err)
	}

	foreign := "acc-other"
	_, err := svc.UpdateAccount(ctx, "biz-1", "acc-1", UpdateParams{ParentID: &foreign})
	if !apperror.IsValidation(err) || !errors.Is(err, ErrAccountNotFound) {
		t.Errorf("expected validation error for parent outside the business, got %v", err)
	}

	name := "Bank"
	if _, err := svc.UpdateAccount(ctx, "biz-1", "acc-9", UpdateParams{AccountName: &name}); !apperror.IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestDeleteAccount(t *testing.T) {
	svc := NewService(&MockRepository{
		DeleteFunc: func(ctx context.Context, businessID, id string) error {
			if id == "missing" {
				return ErrAccountNotFound
			}
			return nil
		},
	})

	if err := svc.DeleteAccount(context.Background(), "biz-1", "acc-1"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := svc.DeleteAccount(context.Background(), "biz-1", "missing"); !apperror.IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestCashPosition(t *testing.T) {
	svc := NewService(&MockRepository{
		BankBalancesFunc: func(ctx context.Context, businessID string) ([]*BankBalance, error) {
			if businessID != "biz-1" {
				return nil, errors.New("connection refused")
			}
			return []*BankBalance{
				{Account: Account{ID: "acc-1", AccountName: "Access Bank"}, Balance: decimal.NewFromInt(4000)},
				{Account: Account{ID: "acc-2", AccountName: "Cash at hand"}, Balance: decimal.NewFromInt(250)},
			}, nil
		},
	})

	pos, err := svc.CashPosition(context.Background(), "biz-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !pos.Total.Equal(decimal.NewFromInt(4250)) {
		t.Errorf("expected total 4250, got %s", pos.Total)
	}
	if pos.CashCount != 1 || pos.BankCount != 1 {
		t.Errorf("expected one bank and one cash account, got %+v", pos)
	}

	if _, err := svc.CashPosition(context.Background(), "biz-2"); !apperror.IsStore(err) {
		t.Errorf("expected store error, got %v", err)
	}
}
