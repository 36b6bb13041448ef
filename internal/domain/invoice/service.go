package invoice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"bizledger/internal/domain/customer"
	"bizledger/internal/domain/product"
	"bizledger/internal/shared/apperror"
)

// CustomerLookup finds a customer within a business.
type CustomerLookup interface {
	GetByID(ctx context.Context, businessID, id string) (*customer.Customer, error)
}

// Service contains invoice lifecycle operations other than payments.
type Service struct {
	repo      Repository
	products  product.Repository
	customers CustomerLookup
	now       func() time.Time
}

func NewService(repo Repository, products product.Repository, customers CustomerLookup) *Service {
	return &Service{repo: repo, products: products, customers: customers, now: time.Now}
}

// WithClock replaces the clock used for invoice numbers.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Create prices the items from the current product catalogue and persists the
// invoice. Stock is decremented in the same store transaction.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Invoice, error) {
	const op = "invoice.Create"

	if err := params.Validate(); err != nil {
		return nil, apperror.Validation(op, err)
	}
	if params.CustomerID != nil && *params.CustomerID == "" {
		params.CustomerID = nil
	}
	if err := s.checkCustomer(ctx, op, params.BusinessID, params.CustomerID); err != nil {
		return nil, err
	}

	// Quantities for the same product are summed before checking stock.
	requested := make(map[string]int, len(params.Items))
	for _, it := range params.Items {
		requested[it.ProductID] += it.Quantity
	}

	catalogue := make(map[string]*product.Product, len(requested))
	for id, qty := range requested {
		p, err := s.products.GetByID(ctx, params.BusinessID, id)
		if err != nil {
			if errors.Is(err, product.ErrProductNotFound) {
				return nil, apperror.Validation(op, fmt.Errorf("product %s: %w", id, err))
			}
			return nil, apperror.Store(op, err)
		}
		if qty > p.StockQuantity {
			return nil, apperror.Validation(op, fmt.Errorf("%s: %w", p.Name, product.ErrInsufficientStock))
		}
		catalogue[id] = p
	}

	total := decimal.Zero
	items := make([]Item, 0, len(params.Items))
	for _, it := range params.Items {
		p := catalogue[it.ProductID]
		line := p.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
		items = append(items, Item{
			ProductID:    p.ID,
			ProductName:  p.Name,
			Quantity:     it.Quantity,
			UnitPrice:    p.UnitPrice,
			PurchaseCost: p.PurchaseCost,
			TotalAmount:  line,
		})
		total = total.Add(line)
	}

	number := strings.TrimSpace(params.InvoiceNumber)
	if number == "" {
		number = fmt.Sprintf("INV-%d", s.now().UnixMilli())
	}

	inv, err := s.repo.CreateWithItems(ctx, NewInvoice{
		BusinessID:    params.BusinessID,
		CustomerID:    params.CustomerID,
		InvoiceNumber: number,
		TotalAmount:   total,
		DueDate:       params.DueDate,
		Status:        DeriveStatus(total, decimal.Zero),
		Items:         items,
	})
	if err != nil {
		if errors.Is(err, product.ErrInsufficientStock) {
			return nil, apperror.Validation(op, err)
		}
		return nil, apperror.Store(op, err)
	}
	return inv, nil
}

func (s *Service) Get(ctx context.Context, businessID, id string) (*Invoice, error) {
	inv, err := s.repo.GetByID(ctx, businessID, id)
	if err != nil {
		return nil, wrapRepoErr("invoice.Get", err)
	}
	return inv, nil
}

// List returns invoices newest first
func (s *Service) List(ctx context.Context, businessID string, filter ListFilter) ([]*Invoice, error) {
	if filter.Status != "" && !IsValidStatus(filter.Status) {
		return nil, apperror.Validation("invoice.List", ErrInvalidStatus)
	}
	filter.Search = strings.TrimSpace(filter.Search)
	if filter.Limit <= 0 || filter.Limit > 500 {
		filter.Limit = 100
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	invoices, err := s.repo.List(ctx, businessID, filter)
	if err != nil {
		return nil, apperror.Store("invoice.List", err)
	}
	return invoices, nil
}

// Update edits total, due date or customer. Status is re-derived from the new total.
func (s *Service) Update(ctx context.Context, businessID, id string, params UpdateParams) (*Invoice, error) {
	const op = "invoice.Update"

	inv, err := s.repo.GetByID(ctx, businessID, id)
	if err != nil {
		return nil, wrapRepoErr(op, err)
	}

	rec := UpdateRecord{
		BusinessID:      businessID,
		InvoiceID:       id,
		ExpectedVersion: inv.Version,
		CustomerID:      inv.CustomerID,
		TotalAmount:     inv.TotalAmount,
		DueDate:         inv.DueDate,
	}
	if params.TotalAmount != nil {
		if params.TotalAmount.IsNegative() || params.TotalAmount.LessThan(inv.AmountPaid) {
			return nil, apperror.Validation(op, ErrTotalBelowPaid)
		}
		rec.TotalAmount = *params.TotalAmount
	}
	if params.DueDate != nil {
		if params.DueDate.IsZero() {
			return nil, apperror.Validation(op, ErrDueDateRequired)
		}
		rec.DueDate = *params.DueDate
	}
	if params.CustomerID != nil {
		rec.CustomerID = params.CustomerID
		if *params.CustomerID == "" {
			rec.CustomerID = nil
		}
		if err := s.checkCustomer(ctx, op, businessID, rec.CustomerID); err != nil {
			return nil, err
		}
	}
	rec.Status = DeriveStatus(rec.TotalAmount, inv.AmountPaid)

	updated, err := s.repo.Update(ctx, rec)
	if err != nil {
		return nil, wrapRepoErr(op, err)
	}
	return updated, nil
}

// Delete removes an invoice with its items and payments. Stock is not restored.
func (s *Service) Delete(ctx context.Context, businessID, id string) error {
	if err := s.repo.Delete(ctx, businessID, id); err != nil {
		return wrapRepoErr("invoice.Delete", err)
	}
	return nil
}

func (s *Service) ListPayments(ctx context.Context, businessID, invoiceID string) ([]*Payment, error) {
	const op = "invoice.ListPayments"

	if _, err := s.repo.GetByID(ctx, businessID, invoiceID); err != nil {
		return nil, wrapRepoErr(op, err)
	}
	payments, err := s.repo.ListPayments(ctx, businessID, invoiceID)
	if err != nil {
		return nil, apperror.Store(op, err)
	}
	return payments, nil
}

// checkCustomer rejects a customer that does not belong to the business.
func (s *Service) checkCustomer(ctx context.Context, op, businessID string, customerID *string) error {
	if customerID == nil {
		return nil
	}
	if _, err := s.customers.GetByID(ctx, businessID, *customerID); err != nil {
		if errors.Is(err, customer.ErrCustomerNotFound) {
			return apperror.Validation(op, fmt.Errorf("customer %s: %w", *customerID, err))
		}
		return apperror.Store(op, err)
	}
	return nil
}
