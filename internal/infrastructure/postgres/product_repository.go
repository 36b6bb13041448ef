package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"bizledger/internal/domain/product"
)

// ProductRepository implements the product.Repository interface for PostgreSQL
type ProductRepository struct {
	db *DB
}

func NewProductRepository(db *DB) *ProductRepository {
	return &ProductRepository{db: db}
}

const productColumns = `id, business_id, name, sku, barcode, unit_price, purchase_cost,
	stock_quantity, reorder_level, category_id, created_at, updated_at`

func scanProduct(row rowScanner) (*product.Product, error) {
	var p product.Product
	var sku, barcode, categoryID sql.NullString
	var cost decimal.NullDecimal

	err := row.Scan(
		&p.ID, &p.BusinessID, &p.Name, &sku, &barcode, &p.UnitPrice, &cost,
		&p.StockQuantity, &p.ReorderLevel, &categoryID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.SKU = sku.String
	p.Barcode = barcode.String
	p.PurchaseCost = cost.Decimal
	p.CategoryID = stringPtr(categoryID)
	return &p, nil
}

// Create inserts the product and, when it starts with stock on hand, an
// opening "in" movement in the same transaction.
func (r *ProductRepository) Create(ctx context.Context, params product.CreateParams) (*product.Product, error) {
	var created *product.Product

	err := r.db.WithTx(ctx, func(tx *Tx) error {
		query := `
			INSERT INTO products (id, business_id, name, sku, barcode, unit_price, purchase_cost,
				stock_quantity, reorder_level, category_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING ` + productColumns

		p, err := scanProduct(tx.QueryRowContext(
			ctx, query,
			uuid.NewString(), params.BusinessID, params.Name,
			nullString(params.SKU), nullString(params.Barcode),
			params.UnitPrice, params.PurchaseCost,
			params.StockQuantity, params.ReorderLevel, nullStringPtr(params.CategoryID),
		))
		if err != nil {
			return fmt.Errorf("failed to create product: %w", err)
		}

		if p.StockQuantity > 0 {
			if err := insertMovement(ctx, tx, p.ID, product.MovementIn, p.StockQuantity, nil, "Opening stock"); err != nil {
				return err
			}
		}

		created = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *ProductRepository) GetByID(ctx context.Context, businessID, id string) (*product.Product, error) {
	if !isUUID(id) {
		return nil, product.ErrProductNotFound
	}
	query := `SELECT ` + productColumns + ` FROM products WHERE business_id = $1 AND id = $2`

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, businessID, id))
	if err == sql.ErrNoRows {
		return nil, product.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return p, nil
}

func (r *ProductRepository) List(ctx context.Context, businessID string, filter product.ListFilter) ([]*product.Product, error) {
	conds := []string{"business_id = $1"}
	args := []any{businessID}

	if filter.Search != "" {
		args = append(args, likePattern(filter.Search))
		n := len(args)
		conds = append(conds, fmt.Sprintf("(name ILIKE $%d OR sku ILIKE $%d OR barcode ILIKE $%d)", n, n, n))
	}
	if filter.LowStockOnly {
		conds = append(conds, "stock_quantity <= reorder_level")
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE ` +
		strings.Join(conds, " AND ") + ` ORDER BY name ASC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit, filter.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []*product.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}
	return products, nil
}

func (r *ProductRepository) Count(ctx context.Context, businessID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products WHERE business_id = $1`, businessID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return n, nil
}

func (r *ProductRepository) CountLowStock(ctx context.Context, businessID string) (int, error) {
	var n int
	query := `SELECT COUNT(*) FROM products WHERE business_id = $1 AND stock_quantity <= reorder_level`
	if err := r.db.QueryRowContext(ctx, query, businessID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count low stock products: %w", err)
	}
	return n, nil
}

func (r *ProductRepository) ListMovements(ctx context.Context, businessID, productID string) ([]*product.StockMovement, error) {
	if !isUUID(productID) {
		return nil, product.ErrProductNotFound
	}

	query := `
		SELECT m.id, m.product_id, m.type, m.quantity, m.reference_id, m.notes, m.created_at
		FROM stock_movements m
		JOIN products p ON p.id = m.product_id
		WHERE p.business_id = $1 AND m.product_id = $2
		ORDER BY m.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, businessID, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to list stock movements: %w", err)
	}
	defer rows.Close()

	var movements []*product.StockMovement
	for rows.Next() {
		var m product.StockMovement
		var referenceID, notes sql.NullString
		if err := rows.Scan(&m.ID, &m.ProductID, &m.Type, &m.Quantity, &referenceID, &notes, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan stock movement: %w", err)
		}
		m.ReferenceID = stringPtr(referenceID)
		m.Notes = notes.String
		movements = append(movements, &m)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stock movements: %w", err)
	}
	return movements, nil
}

func insertMovement(ctx context.Context, q querier, productID, kind string, quantity int, referenceID *string, notes string) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO stock_movements (id, product_id, type, quantity, reference_id, notes)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.NewString(), productID, kind, quantity, nullStringPtr(referenceID), nullString(notes),
	)
	if err != nil {
		return fmt.Errorf("failed to record stock movement: %w", err)
	}
	return nil
}
