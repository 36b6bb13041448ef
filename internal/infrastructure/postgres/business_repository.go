package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"bizledger/internal/domain/business"
)

const uniqueViolation = "23505"

// BusinessRepository implements the business.Repository interface for PostgreSQL
type BusinessRepository struct {
	db *DB
}

func NewBusinessRepository(db *DB) *BusinessRepository {
	return &BusinessRepository{db: db}
}

const businessColumns = `id, user_id, business_name, business_email, phone, whatsapp_number, created_at`

func scanBusiness(row rowScanner) (*business.Profile, error) {
	var p business.Profile
	var email, whatsapp sql.NullString

	if err := row.Scan(&p.ID, &p.UserID, &p.BusinessName, &email, &p.Phone, &whatsapp, &p.CreatedAt); err != nil {
		return nil, err
	}
	p.BusinessEmail = email.String
	p.WhatsAppNumber = whatsapp.String
	return &p, nil
}

func (r *BusinessRepository) Create(ctx context.Context, params business.CreateParams) (*business.Profile, error) {
	query := `
		INSERT INTO business_profiles (id, user_id, business_name, business_email, phone, whatsapp_number)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + businessColumns

	p, err := scanBusiness(r.db.QueryRowContext(
		ctx, query,
		uuid.NewString(), params.UserID, params.BusinessName,
		nullString(params.BusinessEmail), params.Phone, nullString(params.WhatsAppNumber),
	))
	if isUniqueViolation(err) {
		return nil, business.ErrProfileExists
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create business profile: %w", err)
	}
	return p, nil
}

// Update applies the non-nil fields of params. An empty email or WhatsApp
// number clears the column.
func (r *BusinessRepository) Update(ctx context.Context, id string, params business.UpdateParams) (*business.Profile, error) {
	if !isUUID(id) {
		return nil, business.ErrBusinessNotFound
	}

	query := `
		UPDATE business_profiles
		SET business_name = COALESCE($2, business_name),
			business_email = CASE WHEN $3::text IS NULL THEN business_email ELSE NULLIF($3, '') END,
			phone = COALESCE($4, phone),
			whatsapp_number = CASE WHEN $5::text IS NULL THEN whatsapp_number ELSE NULLIF($5, '') END,
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + businessColumns

	p, err := scanBusiness(r.db.QueryRowContext(
		ctx, query, id,
		optionalString(params.BusinessName), optionalString(params.BusinessEmail),
		optionalString(params.Phone), optionalString(params.WhatsAppNumber),
	))
	if err == sql.ErrNoRows {
		return nil, business.ErrBusinessNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update business profile: %w", err)
	}
	return p, nil
}

func (r *BusinessRepository) GetByUserID(ctx context.Context, userID string) (*business.Profile, error) {
	query := `SELECT ` + businessColumns + ` FROM business_profiles WHERE user_id = $1`

	p, err := scanBusiness(r.db.QueryRowContext(ctx, query, userID))
	if err == sql.ErrNoRows {
		return nil, business.ErrBusinessNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get business profile: %w", err)
	}
	return p, nil
}

func (r *BusinessRepository) GetByID(ctx context.Context, id string) (*business.Profile, error) {
	if !isUUID(id) {
		return nil, business.ErrBusinessNotFound
	}
	query := `SELECT ` + businessColumns + ` FROM business_profiles WHERE id = $1`

	p, err := scanBusiness(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, business.ErrBusinessNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get business profile: %w", err)
	}
	return p, nil
}

func (r *BusinessRepository) ListIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM business_profiles ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list businesses: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan business id: %w", err)
		}
		ids = append(ids, id)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating businesses: %w", err)
	}
	return ids, nil
}

// optionalString is NULL only for a nil pointer; an empty string stays a value.
func optionalString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
