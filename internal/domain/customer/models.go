package customer

import (
	"errors"
	"net/mail"
	"time"
)

// Domain errors
var (
	ErrCustomerNotFound = errors.New("customer not found")
	ErrNameRequired     = errors.New("customer name is required")
	ErrInvalidEmail     = errors.New("invalid email address")
)

type Customer struct {
	ID         string    `json:"id"`
	BusinessID string    `json:"businessId"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	Address    string    `json:"address"`
	CreatedAt  time.Time `json:"createdAt"`
}

type CreateParams struct {
	BusinessID string
	Name       string
	Email      string
	Phone      string
	Address    string
}

func (p CreateParams) Validate() error {
	if p.BusinessID == "" {
		return errors.New("business ID is required")
	}
	if p.Name == "" {
		return ErrNameRequired
	}
	if p.Email != "" {
		if _, err := mail.ParseAddress(p.Email); err != nil {
			return ErrInvalidEmail
		}
	}
	return nil
}

// ListFilter narrows a customer listing. Search matches name, email and phone.
type ListFilter struct {
	Search string
	Limit  int
	Offset int
}
