package booking

import (
	"context"
	"time"

	"concierge/models"
)

// BookRequest carries a validated booking intent. UserID is the
// authenticated caller and owns the resulting booking; the guest contact
// email is stored separately and never used for ownership checks.
type BookRequest struct {
	UserID   string
	RoomID   string
	FullName string
	Email    string
	Nights   int
}

// Service is the booking orchestration contract.
type Service interface {
	Book(ctx context.Context, req BookRequest) (*models.Booking, error)
	UpdateBooking(ctx context.Context, bookingID string, upd models.BookingUpdate) (*models.Booking, error)
	CancelBooking(ctx context.Context, bookingID, userID string) error
	DeleteBooking(ctx context.Context, bookingID string) error
	GetBooking(ctx context.Context, bookingID string) (*models.Booking, error)
	GetBookingsByUser(ctx context.Context, userID string) ([]models.Booking, error)
	GetBookingsByRoom(ctx context.Context, roomID string) ([]models.Booking, error)
	GetBookingsInRange(ctx context.Context, start, end time.Time) ([]models.Booking, error)
}

// PaymentService settles an amount against a booking. Declines are reported
// results, not errors.
type PaymentService interface {
	ProcessPayment(ctx context.Context, req models.PaymentRequest) (*models.PaymentResult, error)
}

// ReminderScheduler enqueues a delayed payment reminder for an unpaid
// booking. Scheduling is best effort; a failure never blocks the booking.
type ReminderScheduler interface {
	SchedulePaymentReminder(bookingID, userID string) error
}
