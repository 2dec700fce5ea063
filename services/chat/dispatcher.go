package chat

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"concierge/models"
	"concierge/services/booking"
	"concierge/services/inventory"
	"concierge/services/svcerr"

	"go.uber.org/zap"
)

// Declared function names.
const (
	FnGetRooms       = "get_rooms"
	FnBookRoom       = "book_room"
	FnProcessPayment = "process_payment"
)

// Dispatcher maps a model-issued function call onto the inventory client,
// the booking orchestrator, or the payment service, and packages the result
// for the next model turn. Errors become structured result payloads rather
// than Go errors: the model composes the user-facing reply from them.
type Dispatcher struct {
	Inventory inventory.Client
	Bookings  booking.Service
	Payments  booking.PaymentService
	Logger    *zap.Logger
}

func (d *Dispatcher) Dispatch(ctx context.Context, userID string, call models.FunctionCall) map[string]any {
	switch call.Name {
	case FnGetRooms:
		return d.getRooms(ctx)
	case FnBookRoom:
		return d.bookRoom(ctx, userID, call.Args)
	case FnProcessPayment:
		return d.processPayment(ctx, call.Args)
	default:
		d.Logger.Warn("model issued unknown function call", zap.String("name", call.Name))
		return map[string]any{"error": fmt.Sprintf("unknown function %q", call.Name)}
	}
}

// getRooms degrades gracefully: an inventory failure is presented to the
// model as an empty listing, not an error.
func (d *Dispatcher) getRooms(ctx context.Context) map[string]any {
	rooms, err := d.Inventory.ListRooms(ctx)
	if err != nil {
		d.Logger.Warn("get_rooms degraded to empty listing", zap.Error(err))
		return map[string]any{"rooms": []models.Room{}}
	}
	if rooms == nil {
		rooms = []models.Room{}
	}
	return map[string]any{"rooms": rooms}
}

func (d *Dispatcher) bookRoom(ctx context.Context, userID string, args map[string]any) map[string]any {
	roomID := stringArg(args, "roomId")
	fullName := stringArg(args, "fullName")
	email := stringArg(args, "email")
	nights, nightsOK := intArg(args, "nights")

	var missing []string
	if roomID == "" {
		missing = append(missing, "roomId")
	}
	if fullName == "" {
		missing = append(missing, "fullName")
	}
	if email == "" {
		missing = append(missing, "email")
	}
	if !nightsOK || nights <= 0 {
		missing = append(missing, "nights")
	}
	if len(missing) > 0 {
		return map[string]any{
			"error": "missing or invalid fields: " + strings.Join(missing, ", "),
		}
	}

	b, err := d.Bookings.Book(ctx, booking.BookRequest{
		UserID:   userID,
		RoomID:   roomID,
		FullName: fullName,
		Email:    email,
		Nights:   nights,
	})
	if err != nil {
		d.Logger.Warn("book_room failed", zap.String("userId", userID), zap.Error(err))
		return map[string]any{"error": svcerr.MessageOf(err)}
	}

	return map[string]any{
		"bookingId":    b.ID,
		"roomId":       b.RoomID,
		"checkInDate":  b.CheckInDate.Format("2006-01-02"),
		"checkOutDate": b.CheckOutDate.Format("2006-01-02"),
		"totalAmount":  b.TotalAmount,
		"isPaid":       b.IsPaid,
	}
}

func (d *Dispatcher) processPayment(ctx context.Context, args map[string]any) map[string]any {
	bookingID := stringArg(args, "bookingId")
	amount, amountOK := floatArg(args, "amount")
	method := stringArg(args, "method")

	if bookingID == "" || !amountOK {
		return map[string]any{"error": "missing or invalid fields: bookingId, amount"}
	}
	if !models.ValidPaymentMethod(method) {
		return map[string]any{
			"error": "method must be one of credit_card, debit_card, paypal",
		}
	}

	result, err := d.Payments.ProcessPayment(ctx, models.PaymentRequest{
		BookingID: bookingID,
		Amount:    amount,
		Method:    method,
	})
	if err != nil {
		d.Logger.Warn("process_payment failed", zap.String("bookingId", bookingID), zap.Error(err))
		return map[string]any{"error": svcerr.MessageOf(err)}
	}

	out := map[string]any{
		"status":  result.Status,
		"message": result.Message,
	}
	if result.TransactionID != "" {
		out["transactionId"] = result.TransactionID
	}
	return out
}

// Function-call arguments arrive as decoded JSON, so numbers are float64
// and IDs may come through as either strings or numbers.

func stringArg(args map[string]any, key string) string {
	switch v := args[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

func intArg(args map[string]any, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		return int(v), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		return n, err == nil
	}
	return 0, false
}

func floatArg(args map[string]any, key string) (float64, bool) {
	switch v := args[key].(type) {
	case float64:
		return v, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	}
	return 0, false
}
