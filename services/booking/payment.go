package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"concierge/database/repository"
	"concierge/models"
	"concierge/services/svcerr"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultPaymentService settles payments against bookings. Every attempt is
// recorded in the audit ledger before the gateway is called, and at most one
// attempt per booking may be in flight at a time.
type DefaultPaymentService struct {
	Repo     repository.BookingRepository
	Attempts repository.PaymentAttemptRepository
	Gateway  Gateway
	Logger   *zap.Logger
}

// ProcessPayment validates the request, reserves an attempt, charges the
// gateway, and flips the booking's paid flag on success. A gateway decline
// is returned as a failed result, never as an error; the caller prompts the
// user to retry.
func (s *DefaultPaymentService) ProcessPayment(ctx context.Context, req models.PaymentRequest) (*models.PaymentResult, error) {
	if err := validatePaymentRequest(req); err != nil {
		return nil, err
	}

	booking, err := s.Repo.GetByID(req.BookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, svcerr.New(svcerr.CodeNotFound, "booking not found")
		}
		return nil, svcerr.Wrap(svcerr.CodeInternal, "failed to load booking", err)
	}

	if booking.IsPaid {
		return &models.PaymentResult{
			Status:        models.PaymentStatusSuccess,
			Message:       "booking is already paid",
			TransactionID: booking.TransactionID,
		}, nil
	}

	attempt := &models.PaymentAttempt{
		ID:        uuid.New().String(),
		BookingID: req.BookingID,
		Amount:    req.Amount,
		Method:    req.Method,
	}
	if err := s.Attempts.Reserve(attempt); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, svcerr.New(svcerr.CodeConflict, "a payment for this booking is already in progress")
		}
		return nil, svcerr.Wrap(svcerr.CodeInternal, "failed to record payment attempt", err)
	}

	result, err := s.Gateway.Charge(ctx, models.ChargeRequest{
		BookingID:   req.BookingID,
		Amount:      req.Amount,
		Method:      req.Method,
		Description: fmt.Sprintf("booking %s, room %s", booking.ID, booking.RoomID),
	})
	if err != nil {
		s.Logger.Error("payment gateway call failed",
			zap.String("bookingId", req.BookingID), zap.Error(err))
		if failErr := s.Attempts.Fail(attempt.ID, err.Error()); failErr != nil {
			s.Logger.Warn("failed to finalize payment attempt", zap.Error(failErr))
		}
		return nil, svcerr.Wrap(svcerr.CodeUpstream, "payment gateway unavailable", err)
	}

	if !result.Succeeded {
		if failErr := s.Attempts.Fail(attempt.ID, result.Message); failErr != nil {
			s.Logger.Warn("failed to finalize payment attempt", zap.Error(failErr))
		}
		s.Logger.Info("payment declined",
			zap.String("bookingId", req.BookingID), zap.String("reason", result.Message))
		return &models.PaymentResult{
			Status:  models.PaymentStatusFailed,
			Message: result.Message,
		}, nil
	}

	if err := s.Repo.MarkPaid(req.BookingID, result.TransactionID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// The booking vanished between the load and the settlement.
			if failErr := s.Attempts.Fail(attempt.ID, "booking deleted during settlement"); failErr != nil {
				s.Logger.Warn("failed to finalize payment attempt", zap.Error(failErr))
			}
			return nil, svcerr.New(svcerr.CodeNotFound, "booking not found")
		}
		return nil, svcerr.Wrap(svcerr.CodeInternal, "failed to record settlement", err)
	}
	if err := s.Attempts.Complete(attempt.ID, result.TransactionID); err != nil {
		s.Logger.Warn("failed to finalize payment attempt", zap.Error(err))
	}

	s.Logger.Info("payment settled",
		zap.String("bookingId", req.BookingID),
		zap.String("transactionId", result.TransactionID))
	return &models.PaymentResult{
		Status:        models.PaymentStatusSuccess,
		Message:       "payment processed successfully",
		TransactionID: result.TransactionID,
	}, nil
}

func validatePaymentRequest(req models.PaymentRequest) error {
	switch {
	case strings.TrimSpace(req.BookingID) == "":
		return svcerr.New(svcerr.CodeValidation, "bookingId is required")
	case req.Amount <= 0:
		return svcerr.New(svcerr.CodeValidation, "amount must be positive")
	case !models.ValidPaymentMethod(req.Method):
		return svcerr.New(svcerr.CodeValidation,
			"method must be one of credit_card, debit_card, paypal")
	}
	return nil
}
