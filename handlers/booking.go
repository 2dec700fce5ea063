package handlers

import (
	"net/http"
	"time"

	"concierge/models"
	"concierge/services/booking"
	"concierge/utils"

	"github.com/gin-gonic/gin"
)

// BookingHandler exposes the booking orchestrator over HTTP.
type BookingHandler struct {
	Svc booking.Service
}

func NewBookingHandler(svc booking.Service) *BookingHandler {
	return &BookingHandler{Svc: svc}
}

// BookRequestBody is the POST /book payload.
type BookRequestBody struct {
	UserID   string `json:"userId"`
	RoomID   string `json:"roomId"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Nights   int    `json:"nights"`
}

// Book creates a booking against the external inventory service and
// persists the local record.
func (h *BookingHandler) Book(c *gin.Context) {
	var body BookRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	b, err := h.Svc.Book(c.Request.Context(), booking.BookRequest{
		UserID:   body.UserID,
		RoomID:   body.RoomID,
		FullName: body.FullName,
		Email:    body.Email,
		Nights:   body.Nights,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// UpdateBooking applies a partial update to a booking.
func (h *BookingHandler) UpdateBooking(c *gin.Context) {
	var upd models.BookingUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	b, err := h.Svc.UpdateBooking(c.Request.Context(), c.Param("bookingId"), upd)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// DeleteBooking removes a booking record (staff operation, no ownership check).
func (h *BookingHandler) DeleteBooking(c *gin.Context) {
	if err := h.Svc.DeleteBooking(c.Request.Context(), c.Param("bookingId")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "booking deleted"})
}

// CancelBooking removes a booking after an ownership check, cancelling it
// upstream first.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	var body struct {
		BookingID string `json:"bookingId"`
		UserID    string `json:"userId"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	if err := h.Svc.CancelBooking(c.Request.Context(), body.BookingID, body.UserID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "booking cancelled"})
}

// GetBookingDetails returns one booking by ID.
func (h *BookingHandler) GetBookingDetails(c *gin.Context) {
	b, err := h.Svc.GetBooking(c.Request.Context(), c.Param("bookingId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// GetBookingsByUser lists the bookings owned by a user.
func (h *BookingHandler) GetBookingsByUser(c *gin.Context) {
	bookings, err := h.Svc.GetBookingsByUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// GetBookingsByRoom lists the bookings for a room.
func (h *BookingHandler) GetBookingsByRoom(c *gin.Context) {
	bookings, err := h.Svc.GetBookingsByRoom(c.Request.Context(), c.Param("roomId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// GetBookingsInRange lists bookings whose check-in date falls within the
// inclusive startDate..endDate query bounds (YYYY-MM-DD).
func (h *BookingHandler) GetBookingsInRange(c *gin.Context) {
	start, err := time.Parse("2006-01-02", c.Query("startDate"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "startDate must be YYYY-MM-DD", "")
		return
	}
	end, err := time.Parse("2006-01-02", c.Query("endDate"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "endDate must be YYYY-MM-DD", "")
		return
	}

	bookings, svcErr := h.Svc.GetBookingsInRange(c.Request.Context(), start, end)
	if svcErr != nil {
		respondServiceError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, bookings)
}
