package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"concierge/database/repository"
	"concierge/models"
	"concierge/services/svcerr"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubGateway struct {
	result *models.ChargeResult
	err    error
	calls  []models.ChargeRequest
}

func (g *stubGateway) Charge(_ context.Context, req models.ChargeRequest) (*models.ChargeResult, error) {
	g.calls = append(g.calls, req)
	if g.err != nil {
		return nil, g.err
	}
	return g.result, nil
}

type memAttemptRepo struct {
	mu       sync.Mutex
	attempts map[string]*models.PaymentAttempt
	pending  map[string]string // bookingID -> attemptID
}

func newMemAttemptRepo() *memAttemptRepo {
	return &memAttemptRepo{
		attempts: make(map[string]*models.PaymentAttempt),
		pending:  make(map[string]string),
	}
}

func (r *memAttemptRepo) Reserve(a *models.PaymentAttempt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, inFlight := r.pending[a.BookingID]; inFlight {
		return repository.ErrDuplicate
	}
	a.Status = models.AttemptStatusPending
	r.attempts[a.ID] = a
	r.pending[a.BookingID] = a.ID
	return nil
}

func (r *memAttemptRepo) Complete(id, transactionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.attempts[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.Status = models.AttemptStatusSucceeded
	a.TransactionID = transactionID
	delete(r.pending, a.BookingID)
	return nil
}

func (r *memAttemptRepo) Fail(id, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.attempts[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.Status = models.AttemptStatusFailed
	a.Error = reason
	delete(r.pending, a.BookingID)
	return nil
}

func (r *memAttemptRepo) GetByBookingID(bookingID string) ([]models.PaymentAttempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.PaymentAttempt
	for _, a := range r.attempts {
		if a.BookingID == bookingID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *memAttemptRepo) single(t *testing.T, bookingID string) models.PaymentAttempt {
	t.Helper()
	attempts, err := r.GetByBookingID(bookingID)
	require.NoError(t, err)
	require.Len(t, attempts, 1)
	return attempts[0]
}

func newPaymentService(repo *memBookingRepo, attempts *memAttemptRepo, gw Gateway) *DefaultPaymentService {
	return &DefaultPaymentService{
		Repo:     repo,
		Attempts: attempts,
		Gateway:  gw,
		Logger:   zap.NewNop(),
	}
}

func unpaidBooking(id string) models.Booking {
	return models.Booking{ID: id, UserID: "u-1", RoomID: "5", TotalAmount: 300}
}

func TestProcessPaymentSuccess(t *testing.T) {
	repo := newMemBookingRepo()
	repo.byID["B1"] = unpaidBooking("B1")
	attempts := newMemAttemptRepo()
	gw := &stubGateway{result: &models.ChargeResult{Succeeded: true, TransactionID: "txn_1"}}
	svc := newPaymentService(repo, attempts, gw)

	res, err := svc.ProcessPayment(context.Background(), models.PaymentRequest{
		BookingID: "B1", Amount: 300, Method: models.MethodCreditCard,
	})
	require.NoError(t, err)
	require.Equal(t, models.PaymentStatusSuccess, res.Status)
	require.NotEmpty(t, res.TransactionID)

	stored, err := repo.GetByID("B1")
	require.NoError(t, err)
	require.True(t, stored.IsPaid)
	require.Equal(t, "txn_1", stored.TransactionID)

	attempt := attempts.single(t, "B1")
	require.Equal(t, models.AttemptStatusSucceeded, attempt.Status)
	require.Equal(t, "txn_1", attempt.TransactionID)
}

func TestProcessPaymentDeclineLeavesUnpaid(t *testing.T) {
	repo := newMemBookingRepo()
	repo.byID["B1"] = unpaidBooking("B1")
	attempts := newMemAttemptRepo()
	gw := &stubGateway{result: &models.ChargeResult{Succeeded: false, Message: "card declined"}}
	svc := newPaymentService(repo, attempts, gw)

	res, err := svc.ProcessPayment(context.Background(), models.PaymentRequest{
		BookingID: "B1", Amount: 300, Method: models.MethodDebitCard,
	})
	require.NoError(t, err)
	require.Equal(t, models.PaymentStatusFailed, res.Status)
	require.Empty(t, res.TransactionID)

	stored, err := repo.GetByID("B1")
	require.NoError(t, err)
	require.False(t, stored.IsPaid)

	attempt := attempts.single(t, "B1")
	require.Equal(t, models.AttemptStatusFailed, attempt.Status)
	require.Equal(t, "card declined", attempt.Error)
}

func TestProcessPaymentAlreadyPaidIsIdempotent(t *testing.T) {
	repo := newMemBookingRepo()
	b := unpaidBooking("B1")
	b.IsPaid = true
	b.TransactionID = "txn_old"
	repo.byID["B1"] = b
	attempts := newMemAttemptRepo()
	// A gateway that would decline everything. It must never be reached.
	gw := &stubGateway{result: &models.ChargeResult{Succeeded: false, Message: "card declined"}}
	svc := newPaymentService(repo, attempts, gw)

	res, err := svc.ProcessPayment(context.Background(), models.PaymentRequest{
		BookingID: "B1", Amount: 300, Method: models.MethodCreditCard,
	})
	require.NoError(t, err)
	require.Equal(t, models.PaymentStatusSuccess, res.Status)
	require.Equal(t, "txn_old", res.TransactionID)
	require.Empty(t, gw.calls)

	stored, err := repo.GetByID("B1")
	require.NoError(t, err)
	require.True(t, stored.IsPaid)
	require.Equal(t, "txn_old", stored.TransactionID)
}

func TestProcessPaymentUnknownBooking(t *testing.T) {
	svc := newPaymentService(newMemBookingRepo(), newMemAttemptRepo(), &stubGateway{})

	_, err := svc.ProcessPayment(context.Background(), models.PaymentRequest{
		BookingID: "missing", Amount: 100, Method: models.MethodCreditCard,
	})
	require.Equal(t, svcerr.CodeNotFound, svcerr.CodeOf(err))
}

func TestProcessPaymentValidation(t *testing.T) {
	svc := newPaymentService(newMemBookingRepo(), newMemAttemptRepo(), &stubGateway{})

	cases := []models.PaymentRequest{
		{BookingID: "", Amount: 100, Method: models.MethodCreditCard},
		{BookingID: "B1", Amount: 0, Method: models.MethodCreditCard},
		{BookingID: "B1", Amount: -10, Method: models.MethodCreditCard},
		{BookingID: "B1", Amount: 100, Method: "bitcoin"},
	}
	for _, req := range cases {
		_, err := svc.ProcessPayment(context.Background(), req)
		require.Equal(t, svcerr.CodeValidation, svcerr.CodeOf(err))
	}
}

func TestProcessPaymentRejectsConcurrentDuplicate(t *testing.T) {
	repo := newMemBookingRepo()
	repo.byID["B1"] = unpaidBooking("B1")
	attempts := newMemAttemptRepo()
	attempts.pending["B1"] = "earlier-attempt"
	svc := newPaymentService(repo, attempts, &stubGateway{})

	_, err := svc.ProcessPayment(context.Background(), models.PaymentRequest{
		BookingID: "B1", Amount: 300, Method: models.MethodCreditCard,
	})
	require.Equal(t, svcerr.CodeConflict, svcerr.CodeOf(err))
}

func TestProcessPaymentGatewayOutage(t *testing.T) {
	repo := newMemBookingRepo()
	repo.byID["B1"] = unpaidBooking("B1")
	attempts := newMemAttemptRepo()
	gw := &stubGateway{err: errors.New("connection reset")}
	svc := newPaymentService(repo, attempts, gw)

	_, err := svc.ProcessPayment(context.Background(), models.PaymentRequest{
		BookingID: "B1", Amount: 300, Method: models.MethodCreditCard,
	})
	require.Equal(t, svcerr.CodeUpstream, svcerr.CodeOf(err))

	stored, err := repo.GetByID("B1")
	require.NoError(t, err)
	require.False(t, stored.IsPaid)

	attempt := attempts.single(t, "B1")
	require.Equal(t, models.AttemptStatusFailed, attempt.Status)
	// The failed attempt no longer blocks a retry.
	require.NotContains(t, attempts.pending, "B1")
}

func TestSimulatedGatewayDeterministicWithSeed(t *testing.T) {
	gw := NewSeededGateway(time.Millisecond, 1.0, 42)

	res, err := gw.Charge(context.Background(), models.ChargeRequest{BookingID: "B1", Amount: 10})
	require.NoError(t, err)
	require.True(t, res.Succeeded)
	require.NotEmpty(t, res.TransactionID)

	declining := NewSeededGateway(time.Millisecond, 0.0, 42)
	res, err = declining.Charge(context.Background(), models.ChargeRequest{BookingID: "B1", Amount: 10})
	require.NoError(t, err)
	require.False(t, res.Succeeded)
}

func TestSimulatedGatewayHonorsContext(t *testing.T) {
	gw := NewSeededGateway(time.Second, 1.0, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := gw.Charge(ctx, models.ChargeRequest{BookingID: "B1", Amount: 10})
	require.ErrorIs(t, err, context.Canceled)
}
