package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"bizledger/internal/domain/notification"
)

// MessageRepository stores the outbound message log.
type MessageRepository struct {
	db *DB
}

func NewMessageRepository(db *DB) *MessageRepository {
	return &MessageRepository{db: db}
}

const messageColumns = `id, business_id, invoice_id, kind, recipient, body, status, error, created_at`

func scanMessage(row rowScanner) (*notification.Message, error) {
	var m notification.Message
	var invoiceID, errText sql.NullString

	err := row.Scan(&m.ID, &m.BusinessID, &invoiceID, &m.Kind, &m.Recipient, &m.Body, &m.Status, &errText, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	m.InvoiceID = invoiceID.String
	m.Error = errText.String
	return &m, nil
}

func (r *MessageRepository) CreateMessage(ctx context.Context, params notification.CreateMessageParams) (*notification.Message, error) {
	query := `
		INSERT INTO outbound_messages (id, business_id, invoice_id, kind, recipient, body, status, error)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + messageColumns

	m, err := scanMessage(r.db.QueryRowContext(
		ctx, query,
		uuid.NewString(), params.BusinessID, nullString(params.InvoiceID), params.Kind,
		params.Recipient, params.Body, params.Status, nullString(params.Error),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to log outbound message: %w", err)
	}
	return m, nil
}

func (r *MessageRepository) ListByInvoice(ctx context.Context, businessID, invoiceID string) ([]*notification.Message, error) {
	if !isUUID(invoiceID) {
		return nil, nil
	}

	query := `
		SELECT ` + messageColumns + `
		FROM outbound_messages
		WHERE business_id = $1 AND invoice_id = $2
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, businessID, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list outbound messages: %w", err)
	}
	defer rows.Close()

	var messages []*notification.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan outbound message: %w", err)
		}
		messages = append(messages, m)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating outbound messages: %w", err)
	}
	return messages, nil
}
