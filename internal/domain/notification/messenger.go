package notification

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned by a Messenger that has no credentials.
var ErrNotConfigured = errors.New("messaging API credentials missing")

// Messenger delivers a plain-text message to a phone number.
// Implemented by the WhatsApp client in the infrastructure layer.
type Messenger interface {
	Send(ctx context.Context, phone, body string) error
}
