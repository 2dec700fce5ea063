package booking

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"concierge/models"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
)

// Gateway settles a monetary amount against a booking. A decline is a
// ChargeResult with Succeeded false; errors are transport-level only.
type Gateway interface {
	Charge(ctx context.Context, req models.ChargeRequest) (*models.ChargeResult, error)
}

// --- Simulated gateway ---

// SimulatedGateway models settlement latency and a probabilistic outcome.
// Used when no Stripe key is configured.
type SimulatedGateway struct {
	Latency     time.Duration
	SuccessRate float64

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewSimulatedGateway returns a gateway with ~1s latency and ~90% success.
func NewSimulatedGateway() *SimulatedGateway {
	return &SimulatedGateway{
		Latency:     time.Second,
		SuccessRate: 0.9,
		rnd:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// NewSeededGateway returns a gateway with a deterministic outcome sequence.
func NewSeededGateway(latency time.Duration, successRate float64, seed int64) *SimulatedGateway {
	return &SimulatedGateway{
		Latency:     latency,
		SuccessRate: successRate,
		rnd:         rand.New(rand.NewSource(seed)),
	}
}

func (g *SimulatedGateway) Charge(ctx context.Context, req models.ChargeRequest) (*models.ChargeResult, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(g.Latency):
	}

	g.mu.Lock()
	roll := g.rnd.Float64()
	g.mu.Unlock()

	if roll >= g.SuccessRate {
		return &models.ChargeResult{
			Succeeded: false,
			Message:   "payment was declined by the gateway",
		}, nil
	}
	return &models.ChargeResult{
		Succeeded:     true,
		TransactionID: "txn_" + uuid.New().String(),
		Message:       "payment settled",
	}, nil
}

// --- Stripe gateway ---

// StripeGateway settles charges through Stripe PaymentIntents. The global
// stripe.Key must be set before use (done in main).
type StripeGateway struct {
	Currency string
}

func (g *StripeGateway) Charge(ctx context.Context, req models.ChargeRequest) (*models.ChargeResult, error) {
	currency := g.Currency
	if currency == "" {
		currency = string(stripe.CurrencyUSD)
	}

	params := &stripe.PaymentIntentParams{
		Amount:      stripe.Int64(int64(req.Amount * 100)),
		Currency:    stripe.String(currency),
		Description: stripe.String(req.Description),
		PaymentMethodTypes: stripe.StringSlice([]string{
			"card",
		}),
	}
	params.Context = ctx
	params.AddMetadata("booking_id", req.BookingID)
	params.AddMetadata("method", req.Method)

	pi, err := paymentintent.New(params)
	if err != nil {
		if stripeErr, ok := err.(*stripe.Error); ok && stripeErr.Type == stripe.ErrorTypeCard {
			return &models.ChargeResult{Succeeded: false, Message: stripeErr.Msg}, nil
		}
		return nil, err
	}

	switch pi.Status {
	case stripe.PaymentIntentStatusSucceeded, stripe.PaymentIntentStatusProcessing:
		return &models.ChargeResult{
			Succeeded:     true,
			TransactionID: pi.ID,
			Message:       "payment settled",
		}, nil
	default:
		return &models.ChargeResult{
			Succeeded: false,
			Message:   "payment not completed: " + string(pi.Status),
		}, nil
	}
}
