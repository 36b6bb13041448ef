package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"bizledger/internal/domain/notification"
)

const (
	defaultTimeout = 10 * time.Second
	sendPath       = "/messages"
	maxErrorBody   = 1 << 10
)

// Client sends text messages through a WhatsApp gateway.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

var _ notification.Messenger = (*Client)(nil)

// NewClient creates a gateway client. A zero timeout uses the default.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		baseURL: baseURL,
		token:   token,
	}
}

type sendRequest struct {
	To      string `json:"to"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Send delivers body to phone. It returns notification.ErrNotConfigured when
// the gateway URL or token is missing.
func (c *Client) Send(ctx context.Context, phone, body string) error {
	if c.baseURL == "" || c.token == "" {
		return notification.ErrNotConfigured
	}

	payload, err := json.Marshal(sendRequest{To: phone, Message: body})
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+sendPath, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return fmt.Errorf("gateway request failed with status %d", resp.StatusCode)
	}
	var errResp errorResponse
	if json.Unmarshal(raw, &errResp) == nil && (errResp.Error != "" || errResp.Message != "") {
		return fmt.Errorf("gateway error (status %d): %s %s", resp.StatusCode, errResp.Error, errResp.Message)
	}
	return fmt.Errorf("gateway request failed with status %d: %s", resp.StatusCode, string(raw))
}
