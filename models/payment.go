package models

import "time"

// Accepted payment methods.
const (
	MethodCreditCard = "credit_card"
	MethodDebitCard  = "debit_card"
	MethodPaypal     = "paypal"
)

// ValidPaymentMethod reports whether m is one of the accepted methods.
func ValidPaymentMethod(m string) bool {
	switch m {
	case MethodCreditCard, MethodDebitCard, MethodPaypal:
		return true
	}
	return false
}

// Payment result statuses. A declined payment is a reported outcome,
// not an error.
const (
	PaymentStatusSuccess = "success"
	PaymentStatusFailed  = "failed"
)

// PaymentRequest asks for settlement of an amount against a booking.
type PaymentRequest struct {
	BookingID string  `json:"bookingId"`
	Amount    float64 `json:"amount"`
	Method    string  `json:"method"`
}

// PaymentResult is returned to the caller (chat flow or direct API).
type PaymentResult struct {
	Status        string `json:"status"`
	Message       string `json:"message"`
	TransactionID string `json:"transactionId,omitempty"`
}

// Payment attempt statuses.
const (
	AttemptStatusPending   = "pending"
	AttemptStatusSucceeded = "succeeded"
	AttemptStatusFailed    = "failed"
)

// PaymentAttempt is the audit record of one settlement attempt. At most one
// pending attempt may exist per booking, which blocks concurrent duplicate
// settlement.
type PaymentAttempt struct {
	ID            string    `bson:"id" json:"id"`
	BookingID     string    `bson:"booking_id" json:"bookingId"`
	Amount        float64   `bson:"amount" json:"amount"`
	Method        string    `bson:"method" json:"method"`
	Status        string    `bson:"status" json:"status"`
	TransactionID string    `bson:"transaction_id,omitempty" json:"transactionId,omitempty"`
	Error         string    `bson:"error,omitempty" json:"error,omitempty"`
	CreatedAt     time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt     time.Time `bson:"updated_at" json:"updatedAt"`
}

// ChargeRequest is what a payment gateway is asked to settle.
type ChargeRequest struct {
	BookingID   string
	Amount      float64
	Method      string
	Description string
}

// ChargeResult is a gateway's answer. A declined charge has Succeeded false
// and a nil error; errors are reserved for transport-level failures.
type ChargeResult struct {
	Succeeded     bool
	TransactionID string
	Message       string
}
