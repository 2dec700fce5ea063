package cron

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"concierge/database/repository"
	"concierge/models"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"
)

type stubBookingRepo struct {
	booking *models.Booking
	err     error
}

func (r *stubBookingRepo) Upsert(*models.Booking) error { return errors.New("not used") }
func (r *stubBookingRepo) GetByID(string) (*models.Booking, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.booking, nil
}
func (r *stubBookingRepo) GetByUserID(string) ([]models.Booking, error) {
	return nil, errors.New("not used")
}
func (r *stubBookingRepo) GetByRoomID(string) ([]models.Booking, error) {
	return nil, errors.New("not used")
}
func (r *stubBookingRepo) GetInRange(time.Time, time.Time) ([]models.Booking, error) {
	return nil, errors.New("not used")
}
func (r *stubBookingRepo) Update(string, models.BookingUpdate) (*models.Booking, error) {
	return nil, errors.New("not used")
}
func (r *stubBookingRepo) Delete(string) error         { return errors.New("not used") }
func (r *stubBookingRepo) MarkPaid(string, string) error { return errors.New("not used") }

type noteRecorder struct {
	userID string
	note   string
	err    error
}

func (c *noteRecorder) HandleTurn(context.Context, string, string) ([]models.Turn, error) {
	return nil, errors.New("not used")
}
func (c *noteRecorder) AppendAssistantNote(_ context.Context, userID, text string) error {
	c.userID = userID
	c.note = text
	return c.err
}
func (c *noteRecorder) GetConversation(context.Context, string) (*models.Conversation, error) {
	return nil, errors.New("not used")
}
func (c *noteRecorder) ResetConversation(context.Context, string) error {
	return errors.New("not used")
}

func reminderTask(t *testing.T, bookingID, userID string) *asynq.Task {
	t.Helper()
	payload, err := json.Marshal(PaymentReminderPayload{BookingID: bookingID, UserID: userID})
	require.NoError(t, err)
	return asynq.NewTask(TypePaymentReminder, payload)
}

func TestReminderNudgesUnpaidBooking(t *testing.T) {
	repo := &stubBookingRepo{booking: &models.Booking{
		ID: "X1", UserID: "u-1", RoomID: "5", TotalAmount: 300,
		CheckInDate: time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC),
	}}
	chatSvc := &noteRecorder{}
	handler := handlePaymentReminder(repo, chatSvc)

	require.NoError(t, handler(context.Background(), reminderTask(t, "X1", "u-1")))
	require.Equal(t, "u-1", chatSvc.userID)
	require.Contains(t, chatSvc.note, "X1")
	require.Contains(t, chatSvc.note, "300.00")
	require.Contains(t, chatSvc.note, "2024-01-10")
}

func TestReminderSkipsPaidBooking(t *testing.T) {
	repo := &stubBookingRepo{booking: &models.Booking{ID: "X1", IsPaid: true}}
	chatSvc := &noteRecorder{}
	handler := handlePaymentReminder(repo, chatSvc)

	require.NoError(t, handler(context.Background(), reminderTask(t, "X1", "u-1")))
	require.Empty(t, chatSvc.note)
}

func TestReminderSkipsCancelledBooking(t *testing.T) {
	repo := &stubBookingRepo{err: repository.ErrNotFound}
	chatSvc := &noteRecorder{}
	handler := handlePaymentReminder(repo, chatSvc)

	require.NoError(t, handler(context.Background(), reminderTask(t, "gone", "u-1")))
	require.Empty(t, chatSvc.note)
}

func TestReminderRetriesOnTransientFailure(t *testing.T) {
	repo := &stubBookingRepo{err: errors.New("connection reset")}
	handler := handlePaymentReminder(repo, &noteRecorder{})

	require.Error(t, handler(context.Background(), reminderTask(t, "X1", "u-1")))
}
