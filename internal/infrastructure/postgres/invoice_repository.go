package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"bizledger/internal/domain/invoice"
	"bizledger/internal/domain/product"
)

// InvoiceRepository implements the invoice.Repository interface for PostgreSQL
type InvoiceRepository struct {
	db *DB
}

func NewInvoiceRepository(db *DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

// invoiceColumns is valid both in SELECT ... FROM invoices and in RETURNING.
const invoiceColumns = `id, business_id, customer_id,
	COALESCE((SELECT c.name FROM customers c WHERE c.id = invoices.customer_id AND c.business_id = invoices.business_id), ''),
	invoice_number, total_amount, amount_paid, due_date, status, version, created_at, updated_at`

func scanInvoice(row rowScanner) (*invoice.Invoice, error) {
	var inv invoice.Invoice
	var customerID sql.NullString
	var status string

	err := row.Scan(
		&inv.ID, &inv.BusinessID, &customerID, &inv.CustomerName,
		&inv.InvoiceNumber, &inv.TotalAmount, &inv.AmountPaid, &inv.DueDate,
		&status, &inv.Version, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	inv.CustomerID = stringPtr(customerID)
	inv.Status = invoice.Status(status)
	return &inv, nil
}

// CreateWithItems writes the invoice, its items, the stock decrements and
// the "out" movements in one transaction. A decrement that would take stock
// below zero aborts everything with product.ErrInsufficientStock.
func (r *InvoiceRepository) CreateWithItems(ctx context.Context, in invoice.NewInvoice) (*invoice.Invoice, error) {
	var created *invoice.Invoice

	err := r.db.WithTx(ctx, func(tx *Tx) error {
		query := `
			INSERT INTO invoices (id, business_id, customer_id, invoice_number, total_amount, amount_paid, due_date, status)
			VALUES ($1, $2, $3, $4, $5, 0, $6, $7)
			RETURNING ` + invoiceColumns

		inv, err := scanInvoice(tx.QueryRowContext(
			ctx, query,
			uuid.NewString(), in.BusinessID, nullStringPtr(in.CustomerID), in.InvoiceNumber,
			in.TotalAmount, in.DueDate, string(in.Status),
		))
		if err != nil {
			return fmt.Errorf("failed to create invoice: %w", err)
		}

		for _, it := range in.Items {
			itemID := uuid.NewString()
			_, err := tx.ExecContext(ctx, `
				INSERT INTO invoice_items (id, invoice_id, product_id, quantity, unit_price, purchase_cost, total_amount)
				VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				itemID, inv.ID, it.ProductID, it.Quantity, it.UnitPrice, it.PurchaseCost, it.TotalAmount,
			)
			if err != nil {
				return fmt.Errorf("failed to create invoice item: %w", err)
			}

			result, err := tx.ExecContext(ctx, `
				UPDATE products
				SET stock_quantity = stock_quantity - $1, updated_at = NOW()
				WHERE id = $2 AND business_id = $3 AND stock_quantity >= $1`,
				it.Quantity, it.ProductID, in.BusinessID,
			)
			if err != nil {
				return fmt.Errorf("failed to decrement stock: %w", err)
			}
			n, err := result.RowsAffected()
			if err != nil {
				return fmt.Errorf("failed to get affected rows: %w", err)
			}
			if n == 0 {
				return fmt.Errorf("product %s: %w", it.ProductID, product.ErrInsufficientStock)
			}

			notes := "Invoice " + in.InvoiceNumber
			if err := insertMovement(ctx, tx, it.ProductID, product.MovementOut, it.Quantity, &inv.ID, notes); err != nil {
				return err
			}

			item := it
			item.ID = itemID
			item.InvoiceID = inv.ID
			inv.Items = append(inv.Items, item)
		}

		created = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *InvoiceRepository) GetByID(ctx context.Context, businessID, id string) (*invoice.Invoice, error) {
	if !isUUID(id) {
		return nil, invoice.ErrInvoiceNotFound
	}
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE business_id = $1 AND id = $2`

	inv, err := scanInvoice(r.db.QueryRowContext(ctx, query, businessID, id))
	if err == sql.ErrNoRows {
		return nil, invoice.ErrInvoiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}

	if err := loadItems(ctx, r.db, []*invoice.Invoice{inv}); err != nil {
		return nil, err
	}
	return inv, nil
}

func (r *InvoiceRepository) FindByID(ctx context.Context, id string) (*invoice.Invoice, error) {
	if !isUUID(id) {
		return nil, invoice.ErrInvoiceNotFound
	}
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`

	inv, err := scanInvoice(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, invoice.ErrInvoiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find invoice: %w", err)
	}

	if err := loadItems(ctx, r.db, []*invoice.Invoice{inv}); err != nil {
		return nil, err
	}
	return inv, nil
}

func (r *InvoiceRepository) List(ctx context.Context, businessID string, filter invoice.ListFilter) ([]*invoice.Invoice, error) {
	if filter.CustomerID != "" && !isUUID(filter.CustomerID) {
		return nil, nil
	}

	conds := []string{"business_id = $1"}
	args := []any{businessID}

	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if filter.Status != "" {
		add("status = $%d", string(filter.Status))
	}
	if filter.CustomerID != "" {
		add("customer_id = $%d", filter.CustomerID)
	}
	if filter.Search != "" {
		add("invoice_number ILIKE $%d", likePattern(filter.Search))
	}

	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE ` +
		strings.Join(conds, " AND ") + ` ORDER BY created_at DESC, id`
	if filter.Limit > 0 {
		args = append(args, filter.Limit, filter.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	return r.query(ctx, query, args...)
}

func (r *InvoiceRepository) ListWithItems(ctx context.Context, businessID string) ([]*invoice.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE business_id = $1 ORDER BY created_at DESC, id`

	invoices, err := r.query(ctx, query, businessID)
	if err != nil {
		return nil, err
	}
	if err := loadItems(ctx, r.db, invoices); err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *InvoiceRepository) query(ctx context.Context, query string, args ...any) ([]*invoice.Invoice, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer rows.Close()

	var invoices []*invoice.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		invoices = append(invoices, inv)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating invoices: %w", err)
	}
	return invoices, nil
}

// loadItems fetches the items of every invoice in one query.
func loadItems(ctx context.Context, q querier, invoices []*invoice.Invoice) error {
	if len(invoices) == 0 {
		return nil
	}

	byID := make(map[string]*invoice.Invoice, len(invoices))
	ids := make([]string, 0, len(invoices))
	for _, inv := range invoices {
		byID[inv.ID] = inv
		ids = append(ids, inv.ID)
	}

	rows, err := q.QueryContext(ctx, `
		SELECT ii.id, ii.invoice_id, ii.product_id, COALESCE(p.name, ''), ii.quantity,
			ii.unit_price, ii.purchase_cost, ii.total_amount
		FROM invoice_items ii
		LEFT JOIN products p ON p.id = ii.product_id
		WHERE ii.invoice_id = ANY($1)
		ORDER BY ii.invoice_id, ii.id`,
		pq.Array(ids),
	)
	if err != nil {
		return fmt.Errorf("failed to load invoice items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var it invoice.Item
		var productID sql.NullString
		var cost decimal.NullDecimal
		if err := rows.Scan(
			&it.ID, &it.InvoiceID, &productID, &it.ProductName, &it.Quantity,
			&it.UnitPrice, &cost, &it.TotalAmount,
		); err != nil {
			return fmt.Errorf("failed to scan invoice item: %w", err)
		}
		it.ProductID = productID.String
		it.PurchaseCost = cost.Decimal
		if inv, ok := byID[it.InvoiceID]; ok {
			inv.Items = append(inv.Items, it)
		}
	}

	if err = rows.Err(); err != nil {
		return fmt.Errorf("error iterating invoice items: %w", err)
	}
	return nil
}

// Update rewrites the editable columns if the stored version still matches.
func (r *InvoiceRepository) Update(ctx context.Context, rec invoice.UpdateRecord) (*invoice.Invoice, error) {
	if !isUUID(rec.InvoiceID) {
		return nil, invoice.ErrInvoiceNotFound
	}

	var updated *invoice.Invoice

	err := r.db.WithTx(ctx, func(tx *Tx) error {
		query := `
			UPDATE invoices
			SET customer_id = $4, total_amount = $5, due_date = $6, status = $7,
				version = version + 1, updated_at = NOW()
			WHERE business_id = $1 AND id = $2 AND version = $3
			RETURNING ` + invoiceColumns

		inv, err := scanInvoice(tx.QueryRowContext(
			ctx, query,
			rec.BusinessID, rec.InvoiceID, rec.ExpectedVersion,
			nullStringPtr(rec.CustomerID), rec.TotalAmount, rec.DueDate, string(rec.Status),
		))
		if err == sql.ErrNoRows {
			return versionOrMissing(ctx, tx, rec.BusinessID, rec.InvoiceID)
		}
		if err != nil {
			return fmt.Errorf("failed to update invoice: %w", err)
		}

		if err := loadItems(ctx, tx, []*invoice.Invoice{inv}); err != nil {
			return err
		}
		updated = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// RecordPayment moves the invoice to the new paid amount and status and
// appends the payment row in one transaction.
func (r *InvoiceRepository) RecordPayment(ctx context.Context, rec invoice.PaymentRecord) (*invoice.Invoice, error) {
	if !isUUID(rec.InvoiceID) {
		return nil, invoice.ErrInvoiceNotFound
	}

	var updated *invoice.Invoice

	err := r.db.WithTx(ctx, func(tx *Tx) error {
		query := `
			UPDATE invoices
			SET amount_paid = $4, status = $5, version = version + 1, updated_at = NOW()
			WHERE business_id = $1 AND id = $2 AND version = $3
			RETURNING ` + invoiceColumns

		inv, err := scanInvoice(tx.QueryRowContext(
			ctx, query,
			rec.BusinessID, rec.InvoiceID, rec.ExpectedVersion, rec.AmountPaid, string(rec.Status),
		))
		if err == sql.ErrNoRows {
			return versionOrMissing(ctx, tx, rec.BusinessID, rec.InvoiceID)
		}
		if err != nil {
			return fmt.Errorf("failed to update invoice payment state: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO invoice_payments (id, invoice_id, amount_paid, payment_method, payment_date, notes)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			uuid.NewString(), rec.InvoiceID, rec.Amount, rec.Method, rec.PaymentDate, nullString(rec.Notes),
		)
		if err != nil {
			return fmt.Errorf("failed to record payment: %w", err)
		}

		if err := loadItems(ctx, tx, []*invoice.Invoice{inv}); err != nil {
			return err
		}
		updated = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// versionOrMissing explains why a versioned update matched no rows.
func versionOrMissing(ctx context.Context, q querier, businessID, id string) error {
	var exists bool
	err := q.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM invoices WHERE business_id = $1 AND id = $2)`,
		businessID, id,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check invoice: %w", err)
	}
	if !exists {
		return invoice.ErrInvoiceNotFound
	}
	return invoice.ErrVersionConflict
}

func (r *InvoiceRepository) ListPayments(ctx context.Context, businessID, invoiceID string) ([]*invoice.Payment, error) {
	if !isUUID(invoiceID) {
		return nil, invoice.ErrInvoiceNotFound
	}

	query := `
		SELECT p.id, p.invoice_id, p.amount_paid, p.payment_method, p.payment_date, p.notes, p.created_at
		FROM invoice_payments p
		JOIN invoices i ON i.id = p.invoice_id
		WHERE i.business_id = $1 AND p.invoice_id = $2
		ORDER BY p.payment_date, p.created_at`

	rows, err := r.db.QueryContext(ctx, query, businessID, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []*invoice.Payment
	for rows.Next() {
		var p invoice.Payment
		var notes sql.NullString
		if err := rows.Scan(&p.ID, &p.InvoiceID, &p.Amount, &p.Method, &p.PaymentDate, &notes, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		p.Notes = notes.String
		payments = append(payments, &p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payments: %w", err)
	}
	return payments, nil
}

// Delete removes the invoice; items and payments cascade. Stock is not restored.
func (r *InvoiceRepository) Delete(ctx context.Context, businessID, id string) error {
	if !isUUID(id) {
		return invoice.ErrInvoiceNotFound
	}
	result, err := r.db.ExecContext(ctx, `DELETE FROM invoices WHERE business_id = $1 AND id = $2`, businessID, id)
	if err != nil {
		return fmt.Errorf("failed to delete invoice: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return invoice.ErrInvoiceNotFound
	}
	return nil
}
