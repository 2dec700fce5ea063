package handlers

import (
	"net/http"

	"concierge/models"
	"concierge/services/booking"
	"concierge/utils"

	"github.com/gin-gonic/gin"
)

// PaymentHandler exposes payment settlement over HTTP.
type PaymentHandler struct {
	Svc booking.PaymentService
}

func NewPaymentHandler(svc booking.PaymentService) *PaymentHandler {
	return &PaymentHandler{Svc: svc}
}

// ProcessPayment settles an amount against a booking. A gateway decline is
// a 200 with status "failed"; the client prompts the user to retry.
func (h *PaymentHandler) ProcessPayment(c *gin.Context) {
	var req models.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	result, err := h.Svc.ProcessPayment(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
