package business

import (
	"errors"
	"net/mail"
	"time"
)

var (
	ErrBusinessNotFound = errors.New("business profile not found")
	ErrProfileExists    = errors.New("user already has a business profile")
	ErrNameRequired     = errors.New("business name is required")
	ErrInvalidEmail     = errors.New("invalid business email address")
)

// Profile is the tenant every record belongs to. Each user owns one profile.
type Profile struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"`
	BusinessName   string    `json:"businessName"`
	BusinessEmail  string    `json:"businessEmail"`
	Phone          string    `json:"phone"`
	WhatsAppNumber string    `json:"whatsappNumber"`
	CreatedAt      time.Time `json:"createdAt"`
}

// CreateParams registers the business of a newly signed-up user.
type CreateParams struct {
	UserID         string
	BusinessName   string
	BusinessEmail  string
	Phone          string
	WhatsAppNumber string
}

func (p CreateParams) Validate() error {
	if p.UserID == "" {
		return errors.New("user ID is required")
	}
	if p.BusinessName == "" {
		return ErrNameRequired
	}
	return validEmail(p.BusinessEmail)
}

// UpdateParams holds profile edits. Nil fields are left unchanged.
type UpdateParams struct {
	BusinessName   *string
	BusinessEmail  *string
	Phone          *string
	WhatsAppNumber *string
}

func (p UpdateParams) Validate() error {
	if p.BusinessName != nil && *p.BusinessName == "" {
		return ErrNameRequired
	}
	if p.BusinessEmail != nil {
		return validEmail(*p.BusinessEmail)
	}
	return nil
}

func validEmail(email string) error {
	if email == "" {
		return nil
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return ErrInvalidEmail
	}
	return nil
}
