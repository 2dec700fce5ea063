// Package inventory talks to the external hotel inventory service. The
// service is untrusted: every call can fail or time out, so the client
// carries an explicit timeout and bounded retries on idempotent reads.
package inventory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"concierge/models"

	"go.uber.org/zap"
)

// Client is the outbound contract to the inventory service.
type Client interface {
	ListRooms(ctx context.Context) ([]models.Room, error)
	CreateBooking(ctx context.Context, req BookingRequest) (*BookingQuote, error)
	CancelBooking(ctx context.Context, bookingID string) error
}

// BookingRequest is the remote booking creation payload.
type BookingRequest struct {
	RoomID   string `json:"roomId"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Nights   int    `json:"nights"`
}

// BookingQuote is the inventory service's answer to a booking creation.
// It is the single source of truth for the booking ID and total price.
type BookingQuote struct {
	BookingID  string  `json:"bookingId"`
	RoomID     string  `json:"roomId"`
	TotalPrice float64 `json:"totalPrice"`
	Currency   string  `json:"currency,omitempty"`
}

// RemoteError is a business rejection from the inventory service (non-2xx
// with a decoded message), distinct from transport failures.
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("inventory service returned %d: %s", e.StatusCode, e.Message)
}

const (
	defaultTimeout = 5 * time.Second
	listRetries    = 2
	retryBackoff   = 300 * time.Millisecond
)

// HTTPClient implements Client over the inventory service's REST surface.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// NewHTTPClient creates an inventory client for the given base URL.
func NewHTTPClient(baseURL string, logger *zap.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
		logger:  logger,
	}
}

// ListRooms fetches the available room listings. The call is idempotent,
// so transient failures are retried a bounded number of times.
func (c *HTTPClient) ListRooms(ctx context.Context) ([]models.Room, error) {
	var lastErr error
	for attempt := 0; attempt <= listRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * retryBackoff):
			}
		}

		var rooms []models.Room
		if err := c.get(ctx, "/rooms", &rooms); err != nil {
			lastErr = err
			c.logger.Warn("inventory: list rooms attempt failed",
				zap.Int("attempt", attempt+1), zap.Error(err))
			continue
		}
		return rooms, nil
	}
	return nil, fmt.Errorf("inventory: list rooms failed after retries: %w", lastErr)
}

// CreateBooking creates a booking remotely. The call is not idempotent and
// is never retried here; the orchestrator decides how to reconcile.
func (c *HTTPClient) CreateBooking(ctx context.Context, req BookingRequest) (*BookingQuote, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("inventory: marshal booking request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/book", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("inventory: build booking request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("inventory: booking call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.remoteError(resp)
	}

	var quote BookingQuote
	if err := json.NewDecoder(resp.Body).Decode(&quote); err != nil {
		return nil, fmt.Errorf("inventory: decode booking response: %w", err)
	}
	if quote.BookingID == "" {
		return nil, fmt.Errorf("inventory: booking response missing bookingId")
	}
	return &quote, nil
}

// CancelBooking issues the compensating remote cancellation. A 404 from the
// inventory service is tolerated: the booking is already gone upstream.
func (c *HTTPClient) CancelBooking(ctx context.Context, bookingID string) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/book/"+bookingID, nil)
	if err != nil {
		return fmt.Errorf("inventory: build cancel request: %w", err)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("inventory: cancel call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.remoteError(resp)
	}
	return nil
}

func (c *HTTPClient) get(ctx context.Context, path string, out any) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("inventory: build request: %w", err)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("inventory: call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.remoteError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("inventory: decode response: %w", err)
	}
	return nil
}

func (c *HTTPClient) remoteError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var decoded struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	msg := ""
	if err := json.Unmarshal(body, &decoded); err == nil {
		if decoded.Message != "" {
			msg = decoded.Message
		} else {
			msg = decoded.Error
		}
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &RemoteError{StatusCode: resp.StatusCode, Message: msg}
}
