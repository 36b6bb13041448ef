package invoice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizledger/internal/shared/apperror"
)

// memoryStore backs a MockRepository with a single invoice so payments can be
// applied in sequence.
type memoryStore struct {
	inv      Invoice
	payments []PaymentRecord
}

func newMemoryStore(total int64) *memoryStore {
	return &memoryStore{inv: Invoice{
		ID:            "inv-1",
		BusinessID:    "biz-1",
		InvoiceNumber: "INV-1",
		TotalAmount:   decimal.NewFromInt(total),
		AmountPaid:    decimal.Zero,
		Status:        StatusUnpaid,
		Version:       1,
	}}
}

func (s *memoryStore) repo() *MockRepository {
	return &MockRepository{
		GetByIDFunc: func(ctx context.Context, businessID, id string) (*Invoice, error) {
			if businessID != s.inv.BusinessID || id != s.inv.ID {
				return nil, ErrInvoiceNotFound
			}
			cp := s.inv
			return &cp, nil
		},
		RecordPaymentFunc: func(ctx context.Context, rec PaymentRecord) (*Invoice, error) {
			if rec.ExpectedVersion != s.inv.Version {
				return nil, ErrVersionConflict
			}
			s.payments = append(s.payments, rec)
			s.inv.AmountPaid = rec.AmountPaid
			s.inv.Status = rec.Status
			s.inv.Version++
			cp := s.inv
			return &cp, nil
		},
	}
}

func cash(amount int64) PaymentInput {
	return PaymentInput{Amount: decimal.NewFromInt(amount), Method: "cash"}
}

func TestApplyPayment_PartialThenFull(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore(10000)
	r := NewReconciler(store.repo())

	inv, err := r.ApplyPayment(ctx, "biz-1", "inv-1", cash(4000))
	require.NoError(t, err)
	assert.True(t, inv.AmountPaid.Equal(decimal.NewFromInt(4000)))
	assert.Equal(t, StatusPartPaid, inv.Status)
	assert.True(t, inv.Remaining().Equal(decimal.NewFromInt(6000)))

	inv, err = r.ApplyPayment(ctx, "biz-1", "inv-1", cash(6000))
	require.NoError(t, err)
	assert.True(t, inv.AmountPaid.Equal(decimal.NewFromInt(10000)))
	assert.Equal(t, StatusPaid, inv.Status)
	assert.Len(t, store.payments, 2)
}

func TestApplyPayment_RejectsInvalidAmounts(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		amount int64
	}{
		{"exceeds remaining", 7000},
		{"zero", 0},
		{"negative", -100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemoryStore(10000)
			store.inv.AmountPaid = decimal.NewFromInt(4000)
			store.inv.Status = StatusPartPaid

			_, err := NewReconciler(store.repo()).ApplyPayment(ctx, "biz-1", "inv-1", cash(tt.amount))
			require.Error(t, err)
			assert.True(t, apperror.IsValidation(err))
			assert.ErrorIs(t, err, ErrInvalidPaymentAmount)
			assert.Empty(t, store.payments)
			assert.True(t, store.inv.AmountPaid.Equal(decimal.NewFromInt(4000)))
			assert.Equal(t, StatusPartPaid, store.inv.Status)
		})
	}
}

func TestApplyPayment_DefaultsDateAndMethod(t *testing.T) {
	store := newMemoryStore(500)
	fixed := time.Date(2026, 5, 17, 15, 4, 5, 0, time.UTC)
	r := NewReconciler(store.repo()).WithClock(func() time.Time { return fixed })

	_, err := r.ApplyPayment(context.Background(), "biz-1", "inv-1", PaymentInput{Amount: decimal.NewFromInt(100), Notes: "  first  "})
	require.NoError(t, err)
	require.Len(t, store.payments, 1)

	rec := store.payments[0]
	assert.Equal(t, time.Date(2026, 5, 17, 0, 0, 0, 0, time.UTC), rec.PaymentDate)
	assert.Equal(t, MethodCash, rec.Method)
	assert.Equal(t, "first", rec.Notes)
	assert.Equal(t, 1, rec.ExpectedVersion)
}

func TestApplyPayment_NotFound(t *testing.T) {
	store := newMemoryStore(500)

	_, err := NewReconciler(store.repo()).ApplyPayment(context.Background(), "other-biz", "inv-1", cash(100))
	assert.True(t, apperror.IsNotFound(err))
}

func TestApplyPayment_StoreFailureLeavesNoEffect(t *testing.T) {
	store := newMemoryStore(10000)
	repo := store.repo()
	repo.RecordPaymentFunc = func(ctx context.Context, rec PaymentRecord) (*Invoice, error) {
		return nil, errors.New("insert invoice_payments: connection reset")
	}

	_, err := NewReconciler(repo).ApplyPayment(context.Background(), "biz-1", "inv-1", cash(4000))
	require.Error(t, err)
	assert.True(t, apperror.IsStore(err))
	assert.True(t, store.inv.AmountPaid.IsZero())
	assert.Equal(t, StatusUnpaid, store.inv.Status)
}

func TestApplyPayment_VersionConflict(t *testing.T) {
	store := newMemoryStore(10000)
	repo := store.repo()
	getByID := repo.GetByIDFunc
	repo.GetByIDFunc = func(ctx context.Context, businessID, id string) (*Invoice, error) {
		inv, err := getByID(ctx, businessID, id)
		if err != nil {
			return nil, err
		}
		// Another writer commits between our read and our write.
		store.inv.Version++
		return inv, nil
	}

	_, err := NewReconciler(repo).ApplyPayment(context.Background(), "biz-1", "inv-1", cash(4000))
	require.Error(t, err)
	assert.True(t, apperror.IsConflict(err))
	assert.Empty(t, store.payments)
}

func TestMarkFullyPaid(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore(10000)
	store.inv.AmountPaid = decimal.NewFromInt(2500)
	store.inv.Status = StatusPartPaid
	r := NewReconciler(store.repo())

	inv, err := r.MarkFullyPaid(ctx, "biz-1", "inv-1")
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, inv.Status)
	require.Len(t, store.payments, 1)
	assert.True(t, store.payments[0].Amount.Equal(decimal.NewFromInt(7500)))
	assert.Equal(t, MethodUnspecified, store.payments[0].Method)

	_, err = r.MarkFullyPaid(ctx, "biz-1", "inv-1")
	assert.True(t, apperror.IsValidation(err))
	assert.ErrorIs(t, err, ErrAlreadyPaid)
	assert.Len(t, store.payments, 1)
}
