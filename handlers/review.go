package handlers

import (
	"errors"
	"net/http"

	"concierge/database/repository"
	"concierge/models"
	"concierge/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ReviewHandler manages guest feedback records.
type ReviewHandler struct {
	Repo     repository.ReviewRepository
	Bookings repository.BookingRepository
}

func NewReviewHandler(repo repository.ReviewRepository, bookings repository.BookingRepository) *ReviewHandler {
	return &ReviewHandler{Repo: repo, Bookings: bookings}
}

// CreateReviewRequest is the POST /reviews payload.
type CreateReviewRequest struct {
	BookingID string `json:"bookingId" binding:"required"`
	UserID    string `json:"userId" binding:"required"`
	Rating    int    `json:"rating" binding:"required,min=1,max=5"`
	Comment   string `json:"comment"`
}

// CreateReview records feedback against an existing booking.
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	if _, err := h.Bookings.GetByID(req.BookingID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "booking not found", "")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to verify booking", "")
		return
	}

	review := &models.Review{
		ID:        uuid.New().String(),
		BookingID: req.BookingID,
		UserID:    req.UserID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	if err := h.Repo.Create(review); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to create review", "")
		return
	}
	c.JSON(http.StatusCreated, review)
}

// GetReviewsByBooking lists the reviews for a booking.
func (h *ReviewHandler) GetReviewsByBooking(c *gin.Context) {
	reviews, err := h.Repo.GetByBookingID(c.Param("bookingId"))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list reviews", "")
		return
	}
	c.JSON(http.StatusOK, reviews)
}

// GetReviewsByUser lists the reviews a user has left.
func (h *ReviewHandler) GetReviewsByUser(c *gin.Context) {
	reviews, err := h.Repo.GetByUserID(c.Param("userId"))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list reviews", "")
		return
	}
	c.JSON(http.StatusOK, reviews)
}

// DeleteReview removes a review by ID.
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	if err := h.Repo.Delete(c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "review not found", "")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to delete review", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "review deleted"})
}
