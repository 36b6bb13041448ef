package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"bizledger/internal/domain/transaction"
)

// TransactionRepository implements the transaction.Repository interface for PostgreSQL
type TransactionRepository struct {
	db *DB
}

func NewTransactionRepository(db *DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

const transactionColumns = `id, business_id, type, amount, date, category_id, bank_account_id,
	description, reference_number, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*transaction.Transaction, error) {
	var t transaction.Transaction
	var categoryID, bankAccountID, description, reference sql.NullString

	err := row.Scan(
		&t.ID, &t.BusinessID, &t.Type, &t.Amount, &t.Date,
		&categoryID, &bankAccountID, &description, &reference, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.CategoryID = stringPtr(categoryID)
	t.BankAccountID = stringPtr(bankAccountID)
	t.Description = description.String
	t.ReferenceNumber = reference.String
	return &t, nil
}

func (r *TransactionRepository) Create(ctx context.Context, params transaction.CreateParams) (*transaction.Transaction, error) {
	query := `
		INSERT INTO transactions (id, business_id, type, amount, date, category_id, bank_account_id, description, reference_number)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + transactionColumns

	t, err := scanTransaction(r.db.QueryRowContext(
		ctx, query,
		uuid.NewString(), params.BusinessID, params.Type, params.Amount, params.Date,
		nullStringPtr(params.CategoryID), nullStringPtr(params.BankAccountID),
		nullString(params.Description), nullString(params.ReferenceNumber),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}
	return t, nil
}

func (r *TransactionRepository) GetByID(ctx context.Context, businessID, id string) (*transaction.Transaction, error) {
	if !isUUID(id) {
		return nil, transaction.ErrTransactionNotFound
	}
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE business_id = $1 AND id = $2`

	t, err := scanTransaction(r.db.QueryRowContext(ctx, query, businessID, id))
	if err == sql.ErrNoRows {
		return nil, transaction.ErrTransactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return t, nil
}

func (r *TransactionRepository) List(ctx context.Context, businessID string, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	conds := []string{"business_id = $1"}
	args := []any{businessID}

	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if filter.Type != "" {
		add("type = $%d", filter.Type)
	}
	if !filter.From.IsZero() {
		add("date >= $%d", filter.From)
	}
	if !filter.To.IsZero() {
		add("date < $%d", filter.To)
	}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		args = append(args, pattern)
		n := len(args)
		conds = append(conds, fmt.Sprintf("(description ILIKE $%d OR reference_number ILIKE $%d)", n, n))
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE ` +
		strings.Join(conds, " AND ") + ` ORDER BY date DESC, created_at DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit, filter.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txns []*transaction.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}
	return txns, nil
}

func (r *TransactionRepository) Delete(ctx context.Context, businessID, id string) error {
	if !isUUID(id) {
		return transaction.ErrTransactionNotFound
	}
	result, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE business_id = $1 AND id = $2`, businessID, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return transaction.ErrTransactionNotFound
	}
	return nil
}
