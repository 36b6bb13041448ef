package listener

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	channelName       = "invoice_paid"
	reconnectInterval = 5 * time.Second
	pingInterval      = 90 * time.Second
	sendTimeout       = 30 * time.Second
)

// InvoicePaidNotification is the payload of the invoice_paid trigger.
// json_build_object emits amount_paid as a JSON number.
type InvoicePaidNotification struct {
	InvoiceID  string          `json:"invoice_id"`
	BusinessID string          `json:"business_id"`
	AmountPaid decimal.Decimal `json:"amount_paid"`
}

// ReceiptSender sends the payment receipt for a settled invoice.
type ReceiptSender interface {
	SendPaymentReceipt(ctx context.Context, invoiceID string) error
}

// InvoiceListener waits for invoices to become fully paid and sends the
// customer a receipt.
type InvoiceListener struct {
	connStr    string
	sender     ReceiptSender
	shutdownCh chan struct{}
	done       chan struct{}
	inflight   sync.WaitGroup
}

func NewInvoiceListener(connStr string, sender ReceiptSender) *InvoiceListener {
	return &InvoiceListener{
		connStr:    connStr,
		sender:     sender,
		shutdownCh: make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Start begins listening for notifications in a background goroutine
func (l *InvoiceListener) Start(ctx context.Context) {
	go l.listen(ctx)
	log.Info().Str("channel", channelName).Msg("Invoice notification listener started")
}

// Stop shuts down the listener and waits for receipts being sent.
func (l *InvoiceListener) Stop() {
	close(l.shutdownCh)
	<-l.done
	l.inflight.Wait()
	log.Info().Msg("Invoice notification listener stopped")
}

func (l *InvoiceListener) listen(ctx context.Context) {
	defer close(l.done)

	for {
		select {
		case <-l.shutdownCh:
			return
		case <-ctx.Done():
			return
		default:
			l.connectAndListen(ctx)
		}

		select {
		case <-l.shutdownCh:
			return
		case <-ctx.Done():
			return
		case <-time.After(reconnectInterval):
			log.Info().Msg("Reconnecting to PostgreSQL for notifications...")
		}
	}
}

func (l *InvoiceListener) connectAndListen(ctx context.Context) {
	listener := pq.NewListener(l.connStr, 10*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		switch ev {
		case pq.ListenerEventConnected:
			log.Info().Msg("Connected to PostgreSQL notification channel")
		case pq.ListenerEventDisconnected:
			log.Warn().Err(err).Msg("Disconnected from PostgreSQL notification channel")
		case pq.ListenerEventReconnected:
			log.Info().Msg("Reconnected to PostgreSQL notification channel")
		case pq.ListenerEventConnectionAttemptFailed:
			log.Warn().Err(err).Msg("Notification connection attempt failed")
		}
	})
	defer listener.Close()

	if err := listener.Listen(channelName); err != nil {
		log.Error().Err(err).Str("channel", channelName).Msg("Failed to listen on channel")
		return
	}

	for {
		select {
		case <-l.shutdownCh:
			return
		case <-ctx.Done():
			return
		case n := <-listener.Notify:
			if n == nil {
				// connection lost
				return
			}
			l.handleNotification(n)
		case <-time.After(pingInterval):
			go func() {
				if err := listener.Ping(); err != nil {
					log.Warn().Err(err).Msg("Listener ping failed")
				}
			}()
		}
	}
}

func (l *InvoiceListener) handleNotification(n *pq.Notification) {
	payload, err := parseNotification(n)
	if err != nil {
		log.Error().Err(err).Str("channel", n.Channel).Msg("Failed to parse notification payload")
		return
	}

	// The parent context may already be cancelled during shutdown.
	l.inflight.Add(1)
	go func() {
		defer l.inflight.Done()
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()
		l.sendReceipt(ctx, payload)
	}()
}

func (l *InvoiceListener) sendReceipt(ctx context.Context, payload InvoicePaidNotification) {
	if err := l.sender.SendPaymentReceipt(ctx, payload.InvoiceID); err != nil {
		log.Error().Err(err).
			Str("invoice_id", payload.InvoiceID).
			Str("business_id", payload.BusinessID).
			Msg("Failed to send payment receipt")
		return
	}
	log.Debug().Str("invoice_id", payload.InvoiceID).Msg("Payment receipt handled")
}

func parseNotification(n *pq.Notification) (InvoicePaidNotification, error) {
	var payload InvoicePaidNotification
	if err := json.Unmarshal([]byte(n.Extra), &payload); err != nil {
		return payload, err
	}
	if payload.InvoiceID == "" {
		return payload, fmt.Errorf("notification on %s has no invoice_id", n.Channel)
	}
	return payload, nil
}
