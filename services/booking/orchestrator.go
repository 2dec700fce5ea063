package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"concierge/database/repository"
	"concierge/models"
	"concierge/services/inventory"
	"concierge/services/svcerr"

	"go.uber.org/zap"
)

// DefaultBookingService reconciles the external inventory call with the
// local authoritative booking record.
type DefaultBookingService struct {
	Inventory inventory.Client
	Repo      repository.BookingRepository
	Reminders ReminderScheduler
	Logger    *zap.Logger

	// Now is the clock used for check-in date computation; tests inject a
	// fixed clock. Defaults to time.Now.
	Now func() time.Time
}

func (s *DefaultBookingService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Book creates the booking remotely, then persists the local record with
// the paid flag off. The inventory service assigns the booking ID and the
// total amount; check-in is now and check-out is nights days later.
func (s *DefaultBookingService) Book(ctx context.Context, req BookRequest) (*models.Booking, error) {
	if err := validateBookRequest(req); err != nil {
		return nil, err
	}

	quote, err := s.Inventory.CreateBooking(ctx, inventory.BookingRequest{
		RoomID:   req.RoomID,
		FullName: req.FullName,
		Email:    req.Email,
		Nights:   req.Nights,
	})
	if err != nil {
		var remote *inventory.RemoteError
		if errors.As(err, &remote) {
			s.Logger.Warn("booking rejected by inventory service",
				zap.String("roomId", req.RoomID), zap.Int("status", remote.StatusCode))
			return nil, svcerr.Wrap(svcerr.CodeUpstream, "inventory service rejected the booking", err)
		}
		s.Logger.Error("inventory booking call failed", zap.Error(err))
		return nil, svcerr.Wrap(svcerr.CodeUpstream, "inventory service unavailable", err)
	}

	checkIn := s.now()
	booking := &models.Booking{
		ID:           quote.BookingID,
		UserID:       req.UserID,
		RoomID:       req.RoomID,
		GuestName:    req.FullName,
		GuestEmail:   req.Email,
		CheckInDate:  checkIn,
		CheckOutDate: checkIn.AddDate(0, 0, req.Nights),
		TotalAmount:  quote.TotalPrice,
		IsPaid:       false,
	}

	// The upsert is idempotent on the booking ID; retry once before giving
	// up and compensating with a remote cancellation so the external
	// booking does not outlive a lost local record.
	if err := s.Repo.Upsert(booking); err != nil {
		s.Logger.Warn("local booking persistence failed, retrying",
			zap.String("bookingId", booking.ID), zap.Error(err))
		if err := s.Repo.Upsert(booking); err != nil {
			if cancelErr := s.Inventory.CancelBooking(ctx, booking.ID); cancelErr != nil {
				s.Logger.Error("compensating cancellation failed; external booking is orphaned",
					zap.String("bookingId", booking.ID), zap.Error(cancelErr))
			}
			return nil, svcerr.Wrap(svcerr.CodeInternal, "failed to persist booking", err)
		}
	}

	if s.Reminders != nil {
		if err := s.Reminders.SchedulePaymentReminder(booking.ID, booking.UserID); err != nil {
			s.Logger.Warn("failed to schedule payment reminder",
				zap.String("bookingId", booking.ID), zap.Error(err))
		}
	}

	s.Logger.Info("booking created",
		zap.String("bookingId", booking.ID),
		zap.String("userId", booking.UserID),
		zap.Float64("totalAmount", booking.TotalAmount))
	return booking, nil
}

// UpdateBooking applies a partial update to an existing booking.
func (s *DefaultBookingService) UpdateBooking(ctx context.Context, bookingID string, upd models.BookingUpdate) (*models.Booking, error) {
	if strings.TrimSpace(bookingID) == "" {
		return nil, svcerr.New(svcerr.CodeValidation, "bookingId is required")
	}

	booking, err := s.Repo.Update(bookingID, upd)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, svcerr.New(svcerr.CodeNotFound, "booking not found")
		}
		return nil, svcerr.Wrap(svcerr.CodeInternal, "failed to update booking", err)
	}
	return booking, nil
}

// CancelBooking removes a booking after an ownership check. The remote
// cancellation runs first so local and upstream state do not diverge; a 404
// upstream is tolerated by the inventory client. Ownership mismatches are
// reported as not-found so existence is not leaked to other users.
func (s *DefaultBookingService) CancelBooking(ctx context.Context, bookingID, userID string) error {
	if strings.TrimSpace(bookingID) == "" || strings.TrimSpace(userID) == "" {
		return svcerr.New(svcerr.CodeValidation, "bookingId and userId are required")
	}

	booking, err := s.Repo.GetByID(bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return svcerr.New(svcerr.CodeNotFound, "booking not found")
		}
		return svcerr.Wrap(svcerr.CodeInternal, "failed to load booking", err)
	}
	if booking.UserID != userID {
		return svcerr.New(svcerr.CodeNotFound, "booking not found")
	}

	if err := s.Inventory.CancelBooking(ctx, bookingID); err != nil {
		s.Logger.Error("remote cancellation failed",
			zap.String("bookingId", bookingID), zap.Error(err))
		return svcerr.Wrap(svcerr.CodeUpstream, "inventory service could not cancel the booking", err)
	}

	if err := s.Repo.Delete(bookingID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return svcerr.Wrap(svcerr.CodeInternal, "failed to delete booking", err)
	}

	s.Logger.Info("booking cancelled",
		zap.String("bookingId", bookingID), zap.String("userId", userID))
	return nil
}

// DeleteBooking removes a booking record without an ownership check. It
// backs the staff-facing delete endpoint.
func (s *DefaultBookingService) DeleteBooking(ctx context.Context, bookingID string) error {
	if strings.TrimSpace(bookingID) == "" {
		return svcerr.New(svcerr.CodeValidation, "bookingId is required")
	}
	if err := s.Repo.Delete(bookingID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return svcerr.New(svcerr.CodeNotFound, "booking not found")
		}
		return svcerr.Wrap(svcerr.CodeInternal, "failed to delete booking", err)
	}
	return nil
}

// GetBooking retrieves one booking by ID.
func (s *DefaultBookingService) GetBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	booking, err := s.Repo.GetByID(bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, svcerr.New(svcerr.CodeNotFound, "booking not found")
		}
		return nil, svcerr.Wrap(svcerr.CodeInternal, "failed to load booking", err)
	}
	return booking, nil
}

// GetBookingsByUser lists the bookings owned by a user.
func (s *DefaultBookingService) GetBookingsByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	bookings, err := s.Repo.GetByUserID(userID)
	if err != nil {
		return nil, svcerr.Wrap(svcerr.CodeInternal, "failed to list bookings", err)
	}
	return bookings, nil
}

// GetBookingsByRoom lists the bookings for a room.
func (s *DefaultBookingService) GetBookingsByRoom(ctx context.Context, roomID string) ([]models.Booking, error) {
	bookings, err := s.Repo.GetByRoomID(roomID)
	if err != nil {
		return nil, svcerr.Wrap(svcerr.CodeInternal, "failed to list bookings", err)
	}
	return bookings, nil
}

// GetBookingsInRange lists bookings whose check-in date falls within the
// inclusive [start, end] bounds. A date-only end bound is widened to the
// end of that day so bookings checked in later the same day still match.
func (s *DefaultBookingService) GetBookingsInRange(ctx context.Context, start, end time.Time) ([]models.Booking, error) {
	if end.Before(start) {
		return nil, svcerr.New(svcerr.CodeValidation, "endDate must not precede startDate")
	}
	if h, m, sec := end.Clock(); h == 0 && m == 0 && sec == 0 {
		end = end.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}

	bookings, err := s.Repo.GetInRange(start, end)
	if err != nil {
		return nil, svcerr.Wrap(svcerr.CodeInternal, "failed to list bookings in range", err)
	}
	return bookings, nil
}

func validateBookRequest(req BookRequest) error {
	switch {
	case strings.TrimSpace(req.UserID) == "":
		return svcerr.New(svcerr.CodeUnauthenticated, "userId is required")
	case strings.TrimSpace(req.RoomID) == "":
		return svcerr.New(svcerr.CodeValidation, "roomId is required")
	case strings.TrimSpace(req.FullName) == "":
		return svcerr.New(svcerr.CodeValidation, "fullName is required")
	case strings.TrimSpace(req.Email) == "":
		return svcerr.New(svcerr.CodeValidation, "email is required")
	case req.Nights <= 0:
		return svcerr.New(svcerr.CodeValidation, "nights must be a positive integer")
	}
	return nil
}
