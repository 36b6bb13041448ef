package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"bizledger/internal/domain/customer"
)

// CustomerRepository implements the customer.Repository interface for PostgreSQL
type CustomerRepository struct {
	db *DB
}

func NewCustomerRepository(db *DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func scanCustomer(row rowScanner) (*customer.Customer, error) {
	var c customer.Customer
	var email, phone, address sql.NullString

	if err := row.Scan(&c.ID, &c.BusinessID, &c.Name, &email, &phone, &address, &c.CreatedAt); err != nil {
		return nil, err
	}
	c.Email = email.String
	c.Phone = phone.String
	c.Address = address.String
	return &c, nil
}

func (r *CustomerRepository) Create(ctx context.Context, params customer.CreateParams) (*customer.Customer, error) {
	query := `
		INSERT INTO customers (id, business_id, name, email, phone, address)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, business_id, name, email, phone, address, created_at`

	c, err := scanCustomer(r.db.QueryRowContext(
		ctx, query,
		uuid.NewString(), params.BusinessID, params.Name,
		nullString(params.Email), nullString(params.Phone), nullString(params.Address),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	return c, nil
}

func (r *CustomerRepository) GetByID(ctx context.Context, businessID, id string) (*customer.Customer, error) {
	if !isUUID(id) {
		return nil, customer.ErrCustomerNotFound
	}
	query := `
		SELECT id, business_id, name, email, phone, address, created_at
		FROM customers
		WHERE business_id = $1 AND id = $2`

	c, err := scanCustomer(r.db.QueryRowContext(ctx, query, businessID, id))
	if err == sql.ErrNoRows {
		return nil, customer.ErrCustomerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return c, nil
}

func (r *CustomerRepository) List(ctx context.Context, businessID string, filter customer.ListFilter) ([]*customer.Customer, error) {
	query := `
		SELECT id, business_id, name, email, phone, address, created_at
		FROM customers
		WHERE business_id = $1`
	args := []any{businessID}

	if filter.Search != "" {
		args = append(args, likePattern(filter.Search))
		query += ` AND (name ILIKE $2 OR email ILIKE $2 OR phone ILIKE $2)`
	}
	query += ` ORDER BY name ASC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit, filter.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	var customers []*customer.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, c)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating customers: %w", err)
	}
	return customers, nil
}

func (r *CustomerRepository) Count(ctx context.Context, businessID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM customers WHERE business_id = $1`, businessID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count customers: %w", err)
	}
	return n, nil
}

// Delete removes a customer. Their invoices keep a NULL customer_id.
func (r *CustomerRepository) Delete(ctx context.Context, businessID, id string) error {
	if !isUUID(id) {
		return customer.ErrCustomerNotFound
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM customers WHERE business_id = $1 AND id = $2`, businessID, id)
	if err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return customer.ErrCustomerNotFound
	}
	return nil
}
