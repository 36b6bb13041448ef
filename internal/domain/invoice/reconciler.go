package invoice

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"bizledger/internal/shared/apperror"
)

var (
	invoiceMeter        = otel.Meter("bizledger/invoice")
	paymentsRecorded, _ = invoiceMeter.Int64Counter("invoice.payments.recorded",
		metric.WithDescription("Payments applied to invoices"),
	)
)

// Reconciler applies payments to invoices and keeps amount_paid and status consistent.
type Reconciler struct {
	repo Repository
	now  func() time.Time
}

func NewReconciler(repo Repository) *Reconciler {
	return &Reconciler{repo: repo, now: time.Now}
}

// WithClock replaces the clock used for defaulting payment dates.
func (r *Reconciler) WithClock(now func() time.Time) *Reconciler {
	r.now = now
	return r
}

// ApplyPayment records a payment of 0 < amount <= remaining against the invoice.
// On any failure the invoice and its payments are left untouched.
func (r *Reconciler) ApplyPayment(ctx context.Context, businessID, invoiceID string, in PaymentInput) (*Invoice, error) {
	const op = "invoice.ApplyPayment"

	inv, err := r.repo.GetByID(ctx, businessID, invoiceID)
	if err != nil {
		return nil, wrapRepoErr(op, err)
	}
	return r.apply(ctx, op, inv, in)
}

// MarkFullyPaid records a payment equal to the remaining balance.
func (r *Reconciler) MarkFullyPaid(ctx context.Context, businessID, invoiceID string) (*Invoice, error) {
	const op = "invoice.MarkFullyPaid"

	inv, err := r.repo.GetByID(ctx, businessID, invoiceID)
	if err != nil {
		return nil, wrapRepoErr(op, err)
	}
	if inv.Status == StatusPaid || !inv.Remaining().IsPositive() {
		return nil, apperror.Validation(op, ErrAlreadyPaid)
	}

	return r.apply(ctx, op, inv, PaymentInput{
		Amount: inv.Remaining(),
		Method: MethodUnspecified,
	})
}

func (r *Reconciler) apply(ctx context.Context, op string, inv *Invoice, in PaymentInput) (*Invoice, error) {
	if !in.Amount.IsPositive() || in.Amount.GreaterThan(inv.Remaining()) {
		return nil, apperror.Validation(op, ErrInvalidPaymentAmount)
	}

	date := in.Date
	if date.IsZero() {
		now := r.now()
		date = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	}
	method := strings.TrimSpace(in.Method)
	if method == "" {
		method = MethodCash
	}

	paid := inv.AmountPaid.Add(in.Amount)
	updated, err := r.repo.RecordPayment(ctx, PaymentRecord{
		BusinessID:      inv.BusinessID,
		InvoiceID:       inv.ID,
		ExpectedVersion: inv.Version,
		Amount:          in.Amount,
		Method:          method,
		Notes:           strings.TrimSpace(in.Notes),
		PaymentDate:     date,
		AmountPaid:      paid,
		Status:          DeriveStatus(inv.TotalAmount, paid),
	})
	if err != nil {
		return nil, wrapRepoErr(op, err)
	}

	paymentsRecorded.Add(ctx, 1, metric.WithAttributes(
		attribute.String("invoice.status", string(updated.Status)),
	))
	log.Debug().
		Str("invoice_id", updated.ID).
		Str("amount", in.Amount.StringFixed(2)).
		Str("status", string(updated.Status)).
		Msg("Payment recorded")

	return updated, nil
}

func wrapRepoErr(op string, err error) error {
	switch {
	case errors.Is(err, ErrInvoiceNotFound):
		return apperror.NotFound(op, err)
	case errors.Is(err, ErrVersionConflict):
		return apperror.Conflict(op, err)
	default:
		return apperror.Store(op, err)
	}
}
