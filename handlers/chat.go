package handlers

import (
	"net/http"

	"concierge/models"
	"concierge/services/chat"
	"concierge/utils"

	"github.com/gin-gonic/gin"
)

// ChatHandler exposes the conversation engine over HTTP.
type ChatHandler struct {
	Svc chat.Service
}

func NewChatHandler(svc chat.Service) *ChatHandler {
	return &ChatHandler{Svc: svc}
}

// HandleChat processes one chat turn for a user.
func (h *ChatHandler) HandleChat(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	turns, err := h.Svc.HandleTurn(c.Request.Context(), req.UserID, req.Message)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ChatResponse{Messages: turns})
}

// GetConversation returns the stored transcript for a user.
func (h *ChatHandler) GetConversation(c *gin.Context) {
	conv, err := h.Svc.GetConversation(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, conv)
}

// ResetConversation drops the stored transcript for a user.
func (h *ChatHandler) ResetConversation(c *gin.Context) {
	if err := h.Svc.ResetConversation(c.Request.Context(), c.Param("userId")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "conversation reset"})
}
