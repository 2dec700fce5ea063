package models

import "time"

// Booking is the local authoritative record of a booking created against
// the external inventory service. The booking ID and total amount are
// assigned by the inventory service, never locally.
type Booking struct {
	ID            string    `bson:"id" json:"bookingId"`
	UserID        string    `bson:"user_id" json:"userId"`
	RoomID        string    `bson:"room_id" json:"roomId"`
	GuestName     string    `bson:"guest_name" json:"guestName"`
	GuestEmail    string    `bson:"guest_email" json:"guestEmail"`
	CheckInDate   time.Time `bson:"check_in_date" json:"checkInDate"`
	CheckOutDate  time.Time `bson:"check_out_date" json:"checkOutDate"`
	TotalAmount   float64   `bson:"total_amount" json:"totalAmount"`
	IsPaid        bool      `bson:"is_paid" json:"isPaid"`
	TransactionID string    `bson:"transaction_id,omitempty" json:"transactionId,omitempty"`
	CreatedAt     time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt     time.Time `bson:"updated_at" json:"updatedAt"`
}

// BookingUpdate carries the mutable booking fields; nil means unchanged.
type BookingUpdate struct {
	RoomID       *string    `json:"roomId,omitempty"`
	GuestName    *string    `json:"guestName,omitempty"`
	GuestEmail   *string    `json:"guestEmail,omitempty"`
	CheckInDate  *time.Time `json:"checkInDate,omitempty"`
	CheckOutDate *time.Time `json:"checkOutDate,omitempty"`
}
