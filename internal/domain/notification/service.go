package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"bizledger/internal/domain/business"
	"bizledger/internal/domain/customer"
	"bizledger/internal/domain/invoice"
	"bizledger/internal/shared/apperror"
)

// Service sends invoice messages to customers and keeps a delivery log.
type Service struct {
	repo       Repository
	invoices   invoice.Repository
	customers  customer.Repository
	businesses business.Repository
	messenger  Messenger
	currency   string
}

// NewService creates a new notification service. messenger may be nil, in
// which case every send fails with ErrNotConfigured.
func NewService(
	repo Repository,
	invoices invoice.Repository,
	customers customer.Repository,
	businesses business.Repository,
	messenger Messenger,
	currency string,
) *Service {
	return &Service{
		repo:       repo,
		invoices:   invoices,
		customers:  customers,
		businesses: businesses,
		messenger:  messenger,
		currency:   currency,
	}
}

// SendInvoice renders the invoice and delivers it to the customer's phone.
func (s *Service) SendInvoice(ctx context.Context, businessID, invoiceID string) (*Message, error) {
	const op = "notification.SendInvoice"

	inv, err := s.invoices.GetByID(ctx, businessID, invoiceID)
	if err != nil {
		if errors.Is(err, invoice.ErrInvoiceNotFound) {
			return nil, apperror.NotFound(op, err)
		}
		return nil, apperror.Store(op, err)
	}

	cust, err := s.recipient(ctx, op, inv)
	if err != nil {
		return nil, err
	}

	body := RenderInvoice(inv, cust.Name, s.currency)
	return s.deliver(ctx, op, inv, KindInvoice, cust.Phone, body)
}

// SendPaymentReceipt notifies the customer that an invoice is fully paid. It
// is driven by the paid-invoice listener, so it looks the invoice up without a
// business scope. Invoices without a reachable customer are skipped.
func (s *Service) SendPaymentReceipt(ctx context.Context, invoiceID string) error {
	const op = "notification.SendPaymentReceipt"

	inv, err := s.invoices.FindByID(ctx, invoiceID)
	if err != nil {
		if errors.Is(err, invoice.ErrInvoiceNotFound) {
			return apperror.NotFound(op, err)
		}
		return apperror.Store(op, err)
	}
	if inv.Status != invoice.StatusPaid {
		return nil
	}

	cust, err := s.recipient(ctx, op, inv)
	if err != nil {
		if apperror.IsValidation(err) {
			log.Debug().Str("invoice_id", inv.ID).Err(err).Msg("Receipt skipped")
			return nil
		}
		return err
	}

	businessName := "us"
	if b, err := s.businesses.GetByID(ctx, inv.BusinessID); err == nil {
		businessName = b.BusinessName
	}

	_, err = s.deliver(ctx, op, inv, KindReceipt, cust.Phone, RenderReceipt(inv, businessName, s.currency))
	return err
}

// ListMessages returns the delivery log of an invoice, newest first.
func (s *Service) ListMessages(ctx context.Context, businessID, invoiceID string) ([]*Message, error) {
	msgs, err := s.repo.ListByInvoice(ctx, businessID, invoiceID)
	if err != nil {
		return nil, apperror.Store("notification.ListMessages", err)
	}
	return msgs, nil
}

func (s *Service) recipient(ctx context.Context, op string, inv *invoice.Invoice) (*customer.Customer, error) {
	if inv.CustomerID == nil {
		return nil, apperror.Validation(op, ErrNoCustomer)
	}
	cust, err := s.customers.GetByID(ctx, inv.BusinessID, *inv.CustomerID)
	if err != nil {
		if errors.Is(err, customer.ErrCustomerNotFound) {
			return nil, apperror.Validation(op, ErrNoCustomer)
		}
		return nil, apperror.Store(op, err)
	}
	if cust.Phone == "" {
		return nil, apperror.Validation(op, ErrPhoneRequired)
	}
	return cust, nil
}

func (s *Service) deliver(ctx context.Context, op string, inv *invoice.Invoice, kind, phone, body string) (*Message, error) {
	var sendErr error
	if s.messenger == nil {
		sendErr = ErrNotConfigured
	} else {
		sendErr = s.messenger.Send(ctx, phone, body)
	}

	params := CreateMessageParams{
		BusinessID: inv.BusinessID,
		InvoiceID:  inv.ID,
		Kind:       kind,
		Recipient:  phone,
		Body:       body,
		Status:     StatusSent,
	}
	if sendErr != nil {
		params.Status = StatusFailed
		params.Error = sendErr.Error()
	}

	msg, err := s.repo.CreateMessage(ctx, params)
	if err != nil {
		log.Warn().Err(err).Str("invoice_id", inv.ID).Msg("Failed to store outbound message")
		msg = &Message{
			BusinessID: params.BusinessID,
			InvoiceID:  params.InvoiceID,
			Kind:       params.Kind,
			Recipient:  params.Recipient,
			Body:       params.Body,
			Status:     params.Status,
			Error:      params.Error,
		}
	}

	if sendErr != nil {
		if errors.Is(sendErr, ErrNotConfigured) {
			return msg, apperror.Unavailable(op, sendErr)
		}
		return msg, apperror.Unavailable(op, fmt.Errorf("send %s message: %w", kind, sendErr))
	}

	log.Info().Str("invoice_id", inv.ID).Str("kind", kind).Msg("Message sent")
	return msg, nil
}
