package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"bizledger/internal/domain/account"
)

// AccountRepository implements the account.Repository interface for PostgreSQL
type AccountRepository struct {
	db *DB
}

func NewAccountRepository(db *DB) *AccountRepository {
	return &AccountRepository{db: db}
}

const accountColumns = `id, business_id, account_name, account_type, parent_id, created_at`

func scanAccount(row rowScanner) (*account.Account, error) {
	var a account.Account
	var parentID sql.NullString

	if err := row.Scan(&a.ID, &a.BusinessID, &a.AccountName, &a.AccountType, &parentID, &a.CreatedAt); err != nil {
		return nil, err
	}
	a.ParentID = stringPtr(parentID)
	return &a, nil
}

func (r *AccountRepository) Create(ctx context.Context, params account.CreateParams) (*account.Account, error) {
	query := `
		INSERT INTO chart_of_accounts (id, business_id, account_name, account_type, parent_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + accountColumns

	a, err := scanAccount(r.db.QueryRowContext(
		ctx, query,
		uuid.NewString(), params.BusinessID, params.AccountName, params.AccountType, nullStringPtr(params.ParentID),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	return a, nil
}

func (r *AccountRepository) GetByID(ctx context.Context, businessID, id string) (*account.Account, error) {
	if !isUUID(id) {
		return nil, account.ErrAccountNotFound
	}
	query := `SELECT ` + accountColumns + ` FROM chart_of_accounts WHERE business_id = $1 AND id = $2`

	a, err := scanAccount(r.db.QueryRowContext(ctx, query, businessID, id))
	if err == sql.ErrNoRows {
		return nil, account.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return a, nil
}

func (r *AccountRepository) ListByBusinessID(ctx context.Context, businessID string) ([]*account.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM chart_of_accounts
		WHERE business_id = $1
		ORDER BY CASE account_type
			WHEN 'Assets' THEN 1
			WHEN 'Liabilities' THEN 2
			WHEN 'Income' THEN 3
			WHEN 'Expenses' THEN 4
			ELSE 5
		END, account_name ASC`

	rows, err := r.db.QueryContext(ctx, query, businessID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*account.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, a)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating accounts: %w", err)
	}
	return accounts, nil
}

// Update applies the non-nil fields of params.
func (r *AccountRepository) Update(ctx context.Context, businessID, id string, params account.UpdateParams) (*account.Account, error) {
	if !isUUID(id) || (params.ParentID != nil && !isUUID(*params.ParentID)) {
		return nil, account.ErrAccountNotFound
	}
	query := `
		UPDATE chart_of_accounts
		SET account_name = COALESCE($3, account_name),
			account_type = COALESCE($4, account_type),
			parent_id = COALESCE($5, parent_id)
		WHERE business_id = $1 AND id = $2
		RETURNING ` + accountColumns

	a, err := scanAccount(r.db.QueryRowContext(
		ctx, query, businessID, id,
		nullStringPtr(params.AccountName), nullStringPtr(params.AccountType), nullStringPtr(params.ParentID),
	))
	if err == sql.ErrNoRows {
		return nil, account.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update account: %w", err)
	}
	return a, nil
}

func (r *AccountRepository) Delete(ctx context.Context, businessID, id string) error {
	if !isUUID(id) {
		return account.ErrAccountNotFound
	}
	result, err := r.db.ExecContext(ctx, `DELETE FROM chart_of_accounts WHERE business_id = $1 AND id = $2`, businessID, id)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return account.ErrAccountNotFound
	}
	return nil
}

// BankBalances nets the transactions posted to each Assets account. A
// transaction is posted to its bank_account_id, or to its category when it
// names no bank account.
func (r *AccountRepository) BankBalances(ctx context.Context, businessID string) ([]*account.BankBalance, error) {
	query := `
		SELECT a.id, a.business_id, a.account_name, a.account_type, a.parent_id, a.created_at,
			COALESCE(SUM(CASE WHEN t.type = 'income' THEN t.amount ELSE -t.amount END), 0)
		FROM chart_of_accounts a
		LEFT JOIN transactions t
			ON t.business_id = a.business_id
			AND (t.bank_account_id = a.id OR (t.bank_account_id IS NULL AND t.category_id = a.id))
		WHERE a.business_id = $1 AND a.account_type = 'Assets'
		GROUP BY a.id
		ORDER BY a.account_name ASC`

	rows, err := r.db.QueryContext(ctx, query, businessID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute bank balances: %w", err)
	}
	defer rows.Close()

	var balances []*account.BankBalance
	for rows.Next() {
		var b account.BankBalance
		var parentID sql.NullString
		if err := rows.Scan(
			&b.ID, &b.BusinessID, &b.AccountName, &b.AccountType, &parentID, &b.CreatedAt, &b.Balance,
		); err != nil {
			return nil, fmt.Errorf("failed to scan bank balance: %w", err)
		}
		b.ParentID = stringPtr(parentID)
		balances = append(balances, &b)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bank balances: %w", err)
	}
	return balances, nil
}
