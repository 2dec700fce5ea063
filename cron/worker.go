package cron

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"concierge/config"
	"concierge/database/repository"
	"concierge/services/chat"

	"github.com/hibiken/asynq"
)

const TypePaymentReminder = "payment:reminder"

// PaymentReminderPayload identifies the booking to nudge about.
type PaymentReminderPayload struct {
	BookingID string `json:"bookingId"`
	UserID    string `json:"userId"`
}

func redisOpts() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// AsynqReminderScheduler enqueues delayed payment reminders.
type AsynqReminderScheduler struct {
	client *asynq.Client
	delay  time.Duration
}

// NewReminderScheduler creates a scheduler that fires reminders after the
// configured delay.
func NewReminderScheduler(delay time.Duration) *AsynqReminderScheduler {
	return &AsynqReminderScheduler{
		client: asynq.NewClient(redisOpts()),
		delay:  delay,
	}
}

func (s *AsynqReminderScheduler) SchedulePaymentReminder(bookingID, userID string) error {
	payload, err := json.Marshal(PaymentReminderPayload{BookingID: bookingID, UserID: userID})
	if err != nil {
		return fmt.Errorf("marshal reminder payload: %w", err)
	}
	task := asynq.NewTask(TypePaymentReminder, payload)
	_, err = s.client.Enqueue(task, asynq.ProcessIn(s.delay), asynq.MaxRetry(3))
	return err
}

// InitPaymentReminderWorker runs the async worker in background. When a
// reminder fires and the booking is still unpaid, the worker asks the chat
// engine to append a nudge to the owner's conversation.
func InitPaymentReminderWorker(bookings repository.BookingRepository, chatSvc chat.Service) {
	srv := asynq.NewServer(
		redisOpts(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypePaymentReminder, handlePaymentReminder(bookings, chatSvc))

	go func() {
		log.Println("[PaymentReminderWorker] starting async worker...")
		if err := srv.Run(mux); err != nil {
			log.Printf("[PaymentReminderWorker] worker stopped: %v", err)
		}
	}()
}

func handlePaymentReminder(bookings repository.BookingRepository, chatSvc chat.Service) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p PaymentReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[PaymentReminder] invalid payload: %v", err)
			return err
		}

		booking, err := bookings.GetByID(p.BookingID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				// Cancelled before the reminder fired.
				return nil
			}
			return err
		}
		if booking.IsPaid {
			return nil
		}

		note := fmt.Sprintf(
			"Just a reminder: your booking %s (room %s, check-in %s) is still unpaid. The total is %.2f. Would you like to pay now?",
			booking.ID, booking.RoomID, booking.CheckInDate.Format("2006-01-02"), booking.TotalAmount,
		)
		if err := chatSvc.AppendAssistantNote(ctx, p.UserID, note); err != nil {
			log.Printf("[PaymentReminder] failed to append note for booking %s: %v", p.BookingID, err)
			return err
		}
		log.Printf("[PaymentReminder] nudged user %s about booking %s", p.UserID, p.BookingID)
		return nil
	}
}
